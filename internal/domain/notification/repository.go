package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type Repository interface {
	CreateNotification(
		ctx context.Context,
		n *models.Notification,
	) error

	// ListUnread returns the dentist's backlog, oldest first.
	ListUnread(
		ctx context.Context,
		dentistID uint,
	) ([]models.Notification, error)

	// MarkRead flips unread rows owned by dentistID and returns how many
	// changed. Ids that are already read or belong to someone else are ignored.
	MarkRead(
		ctx context.Context,
		dentistID uint,
		ids []uuid.UUID,
	) (int64, error)
}
