package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DentistID uint      `gorm:"index;not null" json:"dentist_id"`
	Message   string    `gorm:"size:255;not null" json:"message"`

	Read   bool       `gorm:"not null;default:false;index" json:"read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	AppointmentID *uint `json:"appointment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
