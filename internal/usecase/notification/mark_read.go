package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	domain "github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
)

const maxMarkReadBatch = 100

type MarkRead struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkRead(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MarkRead {
	return &MarkRead{
		repo:  repo,
		audit: audit,
	}
}

// Execute marks the dentist's notifications as read and returns how many
// changed state. Already read ids count as success.
func (uc *MarkRead) Execute(
	ctx context.Context,
	dentistID uint,
	ids []uuid.UUID,
) (int64, error) {

	if len(ids) == 0 {
		return 0, httperr.ErrBusiness("missing_ids")
	}
	if len(ids) > maxMarkReadBatch {
		return 0, httperr.ErrBusiness("too_many_ids")
	}

	n, err := uc.repo.MarkRead(ctx, dentistID, ids)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		strs := make([]string, 0, len(ids))
		for _, id := range ids {
			strs = append(strs, id.String())
		}
		uc.audit.Dispatch(audit.Event{
			UserID:   &dentistID,
			Action:   "notifications_read",
			Entity:   "notification",
			Metadata: map[string]any{"ids": strs, "changed": n},
		})
	}

	return n, nil
}
