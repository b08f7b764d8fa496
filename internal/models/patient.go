package models

import "time"

// Patient is keyed by the national ID (CPF).
type Patient struct {
	ID    string  `gorm:"primaryKey;size:14" json:"id"`
	Name  string  `gorm:"size:150;not null" json:"name"`
	Phone *string `gorm:"size:20" json:"phone"`

	// LastVisitAt is a denormalized convenience copy; recall reads appointments.
	LastVisitAt *time.Time `json:"last_visit_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
