// Package dashboard holds the client side of the recall and arrival
// notification screens: what a signed-in staff member sees, and how it
// reacts to the backlog, live events and their own acknowledgements.
package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

// Store is the record store as seen by an authenticated client. The
// signed-in identity scopes every call; a dentist only ever reads and
// updates their own notifications.
type Store interface {
	ListRecalls(ctx context.Context) ([]recall.Candidate, error)
	DismissRecall(ctx context.Context, patientID string) error

	FetchUnread(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, ids []uuid.UUID) error

	// SubscribeInserts delivers newly inserted notifications to onEvent in
	// the order the channel emits them, until the subscription is cancelled.
	SubscribeInserts(ctx context.Context, onEvent func(models.Notification)) (Subscription, error)
}

type Subscription interface {
	Cancel()
}

// Renderer receives presentation updates. Calls never happen while the
// session holds its lock.
type Renderer interface {
	Render(View)
	Toast(message string)
}

type nopRenderer struct{}

func (nopRenderer) Render(View)  {}
func (nopRenderer) Toast(string) {}
