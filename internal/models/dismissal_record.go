package models

import "time"

// DismissalRecord suppresses a recall reminder until a completed visit
// postdates CreatedAt.
type DismissalRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PatientID string    `gorm:"size:14;index;not null" json:"patient_id"`
	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
