package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-recall/internal/realtime"
)

// Health reports liveness plus how many notification streams are open.
func Health(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"realtime_clients": hub.ClientCount(),
			"realtime_topics":  hub.TopicCount(),
		})
	}
}
