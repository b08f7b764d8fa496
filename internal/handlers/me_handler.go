package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/middleware"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		httperr.Unauthorized(c, "user_not_in_context", "Sessão inválida.")
		return
	}

	userID, ok := userIDVal.(uint)
	if !ok {
		httperr.Unauthorized(c, "invalid_user_id_type", "Sessão inválida.")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(&user)})
}

// ListDentists feeds the booking form.
func (h *MeHandler) ListDentists(c *gin.Context) {
	var users []models.User
	if err := h.db.
		Where("role = ?", models.RoleDentist).
		Order("name ASC").
		Find(&users).Error; err != nil {

		httperr.Internal(c, "failed_to_list_dentists", "Erro ao listar dentistas.")
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userJSON(&users[i]))
	}

	c.JSON(http.StatusOK, out)
}
