package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type RecallGormRepository struct {
	db *gorm.DB
}

func NewRecallGormRepository(db *gorm.DB) *RecallGormRepository {
	return &RecallGormRepository{db: db}
}

func (r *RecallGormRepository) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var ps []models.Patient
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

// ListAppointments returns every appointment, unfiltered; the recall engine
// applies its own rules.
func (r *RecallGormRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "patient_id", "date", "time", "status").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *RecallGormRepository) ListDismissals(ctx context.Context) ([]models.DismissalRecord, error) {
	var ds []models.DismissalRecord
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *RecallGormRepository) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	return getPatient(ctx, r.db, id)
}

func (r *RecallGormRepository) CreateDismissal(ctx context.Context, d *models.DismissalRecord) error {
	return r.db.WithContext(ctx).Create(d).Error
}

var _ recall.Repository = (*RecallGormRepository)(nil)
