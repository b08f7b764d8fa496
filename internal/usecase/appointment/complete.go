package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
)

type CompleteAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

// Execute completes the visit. The completed date is what the recall list
// measures from.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, ap); err != nil {
		return nil, err
	}

	from := ap.Status
	now := timezone.NowIn(uc.timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if ap.PatientID != nil {
		// denormalized copy only; a failure here does not undo the visit
		_ = uc.repo.UpdatePatientLastVisit(ctx, *ap.PatientID, ap.Day())
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: entityID(ap.ID),
		Metadata: map[string]any{
			"from": from,
		},
	})

	return ap, nil
}
