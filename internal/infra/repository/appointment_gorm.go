package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	id string,
) (*models.Patient, error) {
	return getPatient(ctx, r.db, id)
}

func (r *AppointmentGormRepository) UpdatePatientLastVisit(
	ctx context.Context,
	patientID string,
	day time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ? AND (last_visit_at IS NULL OR last_visit_at < ?)", patientID, day).
		Update("last_visit_at", day).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		First(&ap, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Patient", "Dentist").Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	dentistID *uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Where("date >= ? AND date < ?", start, end)

	if dentistID != nil {
		q = q.Where("dentist_id = ?", *dentistID)
	}

	var apps []models.Appointment
	if err := q.
		Order("date ASC, time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func getPatient(ctx context.Context, db *gorm.DB, id string) (*models.Patient, error) {
	var p models.Patient
	err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("patient_not_found")
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
