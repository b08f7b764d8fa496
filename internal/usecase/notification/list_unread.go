package notification

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type ListUnread struct {
	repo domain.Repository
}

func NewListUnread(repo domain.Repository) *ListUnread {
	return &ListUnread{repo: repo}
}

// Execute returns the dentist's backlog, oldest first.
func (uc *ListUnread) Execute(
	ctx context.Context,
	dentistID uint,
) ([]models.Notification, error) {

	out, err := uc.repo.ListUnread(ctx, dentistID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Notification{}
	}
	return out, nil
}
