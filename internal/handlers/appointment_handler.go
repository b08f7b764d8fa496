package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/httpresp"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-recall/internal/usecase/appointment"
	ucNotification "github.com/BruksfildServices01/clinic-recall/internal/usecase/notification"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *ucAppointment.CreateAppointment
	confirm    *ucAppointment.ConfirmAppointment
	complete   *ucAppointment.CompleteAppointment
	cancel     *ucAppointment.CancelAppointment
	listByDate *ucAppointment.ListAppointmentsByDate
	checkIn    *ucNotification.CheckIn
	timezone   string
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	complete *ucAppointment.CompleteAppointment,
	cancel *ucAppointment.CancelAppointment,
	listByDate *ucAppointment.ListAppointmentsByDate,
	checkIn *ucNotification.CheckIn,
	tz string,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		confirm:    confirm,
		complete:   complete,
		cancel:     cancel,
		listByDate: listByDate,
		checkIn:    checkIn,
		timezone:   tz,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PatientID *string `json:"patient_id"`
	DentistID *uint   `json:"dentist_id"`
	Date      string  `json:"date" binding:"required"`
	Time      string  `json:"time" binding:"required"`
	Procedure string  `json:"procedure" binding:"required"`
	Notes     string  `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), actorFrom(c), ucAppointment.CreateAppointmentInput{
		PatientID: req.PatientID,
		DentistID: req.DentistID,
		Date:      req.Date,
		Time:      req.Time,
		Procedure: req.Procedure,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

// ListByDate defaults to today in the clinic timezone.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := timezone.TodayIn(h.timezone)

	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := timezone.ParseDate(dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		date = parsed
	}

	out, err := h.listByDate.Execute(c.Request.Context(), actorFrom(c), date)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// TRANSITIONS
// ======================================================

type transition interface {
	Execute(ctx context.Context, actor ucAppointment.Actor, appointmentID uint) (*models.Appointment, error)
}

func (h *AppointmentHandler) run(c *gin.Context, uc transition) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := uc.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context)  { h.run(c, h.confirm) }
func (h *AppointmentHandler) Complete(c *gin.Context) { h.run(c, h.complete) }
func (h *AppointmentHandler) Cancel(c *gin.Context)   { h.run(c, h.cancel) }

// ======================================================
// CHECK-IN
// ======================================================

func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	n, err := h.checkIn.Execute(c.Request.Context(), userID(c), id)
	if err != nil {
		writeError(c, err, "failed_to_check_in", "Erro ao registrar chegada.")
		return
	}

	httpresp.Created(c, n)
}
