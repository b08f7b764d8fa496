package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type Repository interface {
	// -------- Patient --------
	GetPatient(
		ctx context.Context,
		id string,
	) (*models.Patient, error)

	// UpdatePatientLastVisit only ever moves the date forward.
	UpdatePatientLastVisit(
		ctx context.Context,
		patientID string,
		day time.Time,
	) error

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// dentistID nil lists the whole clinic agenda
	ListAppointmentsForPeriod(
		ctx context.Context,
		dentistID *uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
