package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/validators"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

type CreatePatientRequest struct {
	CPF   string  `json:"cpf" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone"`
}

// ======================================================
// LIST PATIENTS
// ======================================================
func (h *PatientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR id LIKE ?",
			like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.
		Order("name ASC").
		Limit(200).
		Find(&patients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_patients", "Erro ao listar pacientes.")
		return
	}

	c.JSON(http.StatusOK, patients)
}

// ======================================================
// CREATE PATIENT
// ======================================================
func (h *PatientHandler) Create(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	cpf := validators.NormalizeCPF(req.CPF)
	if cpf == "" {
		httperr.BadRequest(c, "invalid_cpf", "CPF inválido.")
		return
	}

	p := models.Patient{
		ID:    cpf,
		Name:  strings.TrimSpace(req.Name),
		Phone: req.Phone,
	}

	err := h.db.WithContext(c.Request.Context()).Create(&p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		httperr.Conflict(c, "patient_already_exists", "Paciente já cadastrado.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_create_patient", "Erro ao cadastrar paciente.")
		return
	}

	c.JSON(http.StatusCreated, p)
}
