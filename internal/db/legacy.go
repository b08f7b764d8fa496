package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

// Older deployments stored a recall dismissal as a cancelled appointment
// parked far in the future with a fixed procedure label.
const (
	legacySentinelStatus    = "cancelled"
	legacySentinelProcedure = "Recall dismissed"
)

var legacySentinelFrom = time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

func IsLegacySentinel(ap models.Appointment) bool {
	return ap.Status == legacySentinelStatus &&
		ap.Procedure == legacySentinelProcedure &&
		ap.PatientID != nil &&
		!ap.Day().Before(legacySentinelFrom)
}

// LegacyDismissals converts sentinel rows into dismissal records, keeping
// the row's creation time as the dismissal time.
func LegacyDismissals(apps []models.Appointment) []models.DismissalRecord {
	out := make([]models.DismissalRecord, 0)
	for _, ap := range apps {
		if !IsLegacySentinel(ap) {
			continue
		}
		out = append(out, models.DismissalRecord{
			PatientID: *ap.PatientID,
			CreatedAt: ap.CreatedAt,
		})
	}
	return out
}

// MigrateLegacyDismissals moves sentinel rows into dismissal_records and
// deletes them, in one transaction. Running it again is a no-op.
func MigrateLegacyDismissals(db *gorm.DB) (int, error) {
	moved := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		var candidates []models.Appointment
		if err := tx.
			Where("status = ? AND procedure = ? AND date >= ?",
				legacySentinelStatus, legacySentinelProcedure, legacySentinelFrom).
			Find(&candidates).Error; err != nil {
			return err
		}

		records := LegacyDismissals(candidates)
		if len(records) == 0 {
			return nil
		}

		if err := tx.Create(&records).Error; err != nil {
			return err
		}

		ids := make([]uint, 0, len(candidates))
		for _, ap := range candidates {
			if IsLegacySentinel(ap) {
				ids = append(ids, ap.ID)
			}
		}
		if err := tx.Delete(&models.Appointment{}, ids).Error; err != nil {
			return err
		}

		moved = len(records)
		return nil
	})

	return moved, err
}
