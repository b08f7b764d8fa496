package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/httpresp"
	"github.com/BruksfildServices01/clinic-recall/internal/realtime"
	ucNotification "github.com/BruksfildServices01/clinic-recall/internal/usecase/notification"
)

type NotificationHandler struct {
	listUnread *ucNotification.ListUnread
	markRead   *ucNotification.MarkRead
	hub        *realtime.Hub
}

func NewNotificationHandler(
	listUnread *ucNotification.ListUnread,
	markRead *ucNotification.MarkRead,
	hub *realtime.Hub,
) *NotificationHandler {
	return &NotificationHandler{
		listUnread: listUnread,
		markRead:   markRead,
		hub:        hub,
	}
}

type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// Unread is the backlog a dashboard loads before opening the stream.
func (h *NotificationHandler) Unread(c *gin.Context) {
	out, err := h.listUnread.Execute(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err, "failed_to_list_notifications", "Erro ao carregar notificações.")
		return
	}

	httpresp.List(c, out)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	n, err := h.markRead.Execute(c.Request.Context(), userID(c), req.IDs)
	if err != nil {
		writeError(c, err, "failed_to_mark_read", "Não foi possível marcar como lida.")
		return
	}

	httpresp.OK(c, gin.H{"updated": n})
}

// Stream upgrades to a websocket carrying insert events for the
// authenticated dentist only.
func (h *NotificationHandler) Stream(c *gin.Context) {
	topic := notification.Topic(userID(c))

	if err := h.hub.Stream(c.Writer, c.Request, topic); err != nil {
		// the upgrader already answered the client
		_ = c.Error(err)
	}
}
