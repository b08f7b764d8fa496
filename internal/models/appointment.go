package models

import (
	"time"

	"gorm.io/datatypes"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// nil for walk-ins that are not registered as patients
	PatientID *string  `gorm:"size:14;index" json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient,omitempty"`

	DentistID *uint `gorm:"index" json:"dentist_id"`
	Dentist   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"dentist,omitempty"`

	Date      datatypes.Date `gorm:"index;not null" json:"date"`
	Time      string         `gorm:"size:5" json:"time"`
	Procedure string         `gorm:"size:120" json:"procedure"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day returns the scheduled calendar day as midnight UTC.
func (a Appointment) Day() time.Time {
	y, m, d := time.Time(a.Date).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
