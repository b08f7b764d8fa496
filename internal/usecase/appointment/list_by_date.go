package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-recall/internal/dto"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists one calendar day. Admins see the whole clinic, dentists only
// their own agenda.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	actor Actor,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var dentistID *uint
	if !actor.IsAdmin() {
		dentistID = &actor.UserID
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		dentistID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.FromAppointment(ap))
	}

	return out, nil
}
