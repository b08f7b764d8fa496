package recall

import (
	"context"

	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type Repository interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	ListDismissals(ctx context.Context) ([]models.DismissalRecord, error)

	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	CreateDismissal(ctx context.Context, d *models.DismissalRecord) error
}
