package appointment

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	// nil books an unregistered patient
	PatientID *string
	DentistID *uint

	Date      string
	Time      string
	Procedure string
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Data / hora no timezone da clínica
	// --------------------------------------------------
	if _, err := timezone.ParseDateTime(uc.timezone, in.Date, in.Time); err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	day, _ := timezone.ParseDate(in.Date)

	// --------------------------------------------------
	// 2️⃣ Dentista: quem não é admin só agenda para si
	// --------------------------------------------------
	dentistID := in.DentistID
	if !actor.IsAdmin() {
		dentistID = &actor.UserID
	}

	// --------------------------------------------------
	// 3️⃣ Paciente
	// --------------------------------------------------
	var patientID *string
	if in.PatientID != nil && strings.TrimSpace(*in.PatientID) != "" {
		p, err := uc.repo.GetPatient(ctx, strings.TrimSpace(*in.PatientID))
		if err != nil {
			return nil, err
		}
		patientID = &p.ID
	}

	procedure := strings.TrimSpace(in.Procedure)
	if procedure == "" {
		return nil, httperr.ErrBusiness("missing_procedure")
	}

	// --------------------------------------------------
	// 4️⃣ Criação (status centralizado)
	// --------------------------------------------------
	ap := &models.Appointment{
		PatientID: patientID,
		DentistID: dentistID,
		Date:      datatypes.Date(day),
		Time:      in.Time,
		Procedure: procedure,
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: entityID(ap.ID),
		Metadata: map[string]any{
			"date": in.Date,
			"time": in.Time,
		},
	})

	return ap, nil
}
