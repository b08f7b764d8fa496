package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-recall/internal/usecase/appointment"
)

func userID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func actorFrom(c *gin.Context) ucAppointment.Actor {
	return ucAppointment.Actor{
		UserID: userID(c),
		Role:   c.GetString(middleware.ContextUserRole),
	}
}

// idParam parses :id, writing a 400 when it is not a positive integer.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
