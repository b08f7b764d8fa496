package recall

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type DismissCandidate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDismissCandidate(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DismissCandidate {
	return &DismissCandidate{
		repo:  repo,
		audit: audit,
	}
}

// Execute records a dismissal effective immediately. When the write fails
// nothing is recorded and the patient stays on the recall list.
func (uc *DismissCandidate) Execute(
	ctx context.Context,
	userID uint,
	patientID string,
) (*models.DismissalRecord, error) {

	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, httperr.ErrBusiness("missing_patient_id")
	}

	if _, err := uc.repo.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}

	d := &models.DismissalRecord{
		PatientID: patientID,
		CreatedBy: &userID,
	}
	if err := uc.repo.CreateDismissal(ctx, d); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "recall_dismissed",
		Entity:   "patient",
		EntityID: patientID,
	})

	return d, nil
}
