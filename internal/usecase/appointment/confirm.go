package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
)

type ConfirmAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

func (uc *ConfirmAppointment) Execute(
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
	if err := domain.Confirm(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: entityID(ap.ID),
		Metadata: map[string]any{
			"from": from,
		},
	})

	return ap, nil
}
