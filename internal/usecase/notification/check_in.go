package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	"github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
)

// Guard lets exactly one caller through per key until ttl expires.
type Guard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type CheckIn struct {
	appointments  appointment.Repository
	notifications domain.Repository
	guard         Guard
	audit         *audit.Dispatcher

	timezone string
	ttl      time.Duration
	clock    func() time.Time
}

func NewCheckIn(
	appointments appointment.Repository,
	notifications domain.Repository,
	guard Guard,
	audit *audit.Dispatcher,
	tz string,
	ttl time.Duration,
) *CheckIn {
	return &CheckIn{
		appointments:  appointments,
		notifications: notifications,
		guard:         guard,
		audit:         audit,
		timezone:      tz,
		ttl:           ttl,
		clock:         time.Now,
	}
}

func checkInKey(appointmentID uint) string {
	return "checkin:appointment:" + strconv.FormatUint(uint64(appointmentID), 10)
}

// Execute records the patient's arrival and notifies the appointment's
// dentist. Repeated calls for the same appointment fail with
// already_checked_in and create nothing.
func (uc *CheckIn) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Notification, error) {

	ap, err := uc.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := appointment.CanCheckIn(appointment.Status(ap.Status)); err != nil {
		return nil, err
	}
	if ap.DentistID == nil {
		return nil, httperr.ErrBusiness("appointment_without_dentist")
	}

	today := timezone.Day(uc.clock(), timezone.Location(uc.timezone))
	if !ap.Day().Equal(today) {
		return nil, httperr.ErrBusiness("appointment_not_today")
	}

	key := checkInKey(ap.ID)
	ok, err := uc.guard.Acquire(ctx, key, uc.ttl)
	if err != nil {
		return nil, fmt.Errorf("check-in guard: %w", err)
	}
	if !ok {
		return nil, httperr.ErrBusiness("already_checked_in")
	}

	n := &models.Notification{
		DentistID:     *ap.DentistID,
		Message:       ArrivalMessage(ap),
		AppointmentID: &ap.ID,
	}

	if err := uc.notifications.CreateNotification(ctx, n); err != nil {
		// free the key so the front desk can retry
		_ = uc.guard.Release(ctx, key)
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "patient_checked_in",
		Entity:   "appointment",
		EntityID: strconv.FormatUint(uint64(ap.ID), 10),
		Metadata: map[string]any{
			"notification_id": n.ID.String(),
			"dentist_id":      *ap.DentistID,
		},
	})

	return n, nil
}

func ArrivalMessage(ap *models.Appointment) string {
	name := "sem cadastro"
	if ap.Patient != nil && ap.Patient.Name != "" {
		name = ap.Patient.Name
	}
	return fmt.Sprintf("Paciente %s chegou para %s às %s", name, ap.Procedure, ap.Time)
}
