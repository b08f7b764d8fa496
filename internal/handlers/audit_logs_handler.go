package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/middleware"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/timezone"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type AuditLogsHandler struct {
	db       *gorm.DB
	timezone string
}

func NewAuditLogsHandler(db *gorm.DB, tz string) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, timezone: tz}
}

// dayStart resolves a YYYY-MM-DD query value to midnight in the clinic
// timezone, so "from=2024-07-11" means the clinic's 11th, not UTC's.
func dayStart(tz, value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, timezone.Location(tz))
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(auditDefaultLimit)))
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}
	return page, limit
}

// List pages through the audit trail, newest first. Dentists only see what
// they did themselves; admins see the whole clinic.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	q := h.db.
		WithContext(c.Request.Context()).
		Model(&models.AuditLog{})

	if c.GetString(middleware.ContextUserRole) != models.RoleAdmin {
		q = q.Where("user_id = ?", userID(c))
	}

	filters := map[string]string{
		"action":    c.Query("action"),
		"entity":    c.Query("entity"),
		"entity_id": c.Query("entity_id"),
	}
	for column, value := range filters {
		if value != "" {
			q = q.Where(column+" = ?", value)
		}
	}

	if v := c.Query("from"); v != "" {
		from, err := dayStart(h.timezone, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inicial inválida.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}
	if v := c.Query("to"); v != "" {
		to, err := dayStart(h.timezone, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data final inválida.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		_ = c.Error(err)
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
