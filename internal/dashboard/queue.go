package dashboard

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

// Queue decides what is on screen: one blocking modal plus the panel of
// every unread notification. The modal holds its entry until acknowledged,
// then moves to the newest remaining unread. It is not safe for concurrent
// use; Session guards it.
type Queue struct {
	unread    []models.Notification
	modal     *uuid.UUID
	panelOpen bool
}

// removal remembers where an entry was so a failed acknowledgement can put
// it back.
type removal struct {
	notification models.Notification
	index        int
	wasModal     bool
	// promoted is the entry that took the modal when this one left it.
	promoted *uuid.UUID
}

// Load replaces the unread list with the backlog (oldest first) and opens
// the modal on the newest entry.
func (q *Queue) Load(backlog []models.Notification) {
	q.unread = append([]models.Notification(nil), backlog...)
	q.modal = nil
	if n := len(q.unread); n > 0 {
		id := q.unread[n-1].ID
		q.modal = &id
	}
}

// Arrive appends n to the panel. It only takes the modal when none is open.
func (q *Queue) Arrive(n models.Notification) {
	q.unread = append(q.unread, n)
	if q.modal == nil {
		id := n.ID
		q.modal = &id
	}
}

func (q *Queue) remove(id uuid.UUID) (removal, bool) {
	for i, n := range q.unread {
		if n.ID != id {
			continue
		}
		r := removal{
			notification: n,
			index:        i,
			wasModal:     q.modal != nil && *q.modal == id,
		}
		q.unread = append(q.unread[:i], q.unread[i+1:]...)
		if r.wasModal {
			q.modal = nil
			// the newest remaining unread takes over; its patient is waiting too
			if n := len(q.unread); n > 0 {
				next := q.unread[n-1].ID
				q.modal = &next
				r.promoted = &next
			}
		}
		return r, true
	}
	return removal{}, false
}

func (q *Queue) restore(r removal) {
	i := r.index
	if i > len(q.unread) {
		i = len(q.unread)
	}
	q.unread = append(q.unread, models.Notification{})
	copy(q.unread[i+1:], q.unread[i:])
	q.unread[i] = r.notification

	// a failed acknowledgement gives the modal back, unless something other
	// than the entry promoted in its place is on screen now
	if r.wasModal && (q.modal == nil || (r.promoted != nil && *q.modal == *r.promoted)) {
		id := r.notification.ID
		q.modal = &id
	}
}

func (q *Queue) Modal() (models.Notification, bool) {
	if q.modal == nil {
		return models.Notification{}, false
	}
	for _, n := range q.unread {
		if n.ID == *q.modal {
			return n, true
		}
	}
	return models.Notification{}, false
}

func (q *Queue) Unread() []models.Notification {
	return append([]models.Notification{}, q.unread...)
}

func (q *Queue) TogglePanel() bool {
	q.panelOpen = !q.panelOpen
	return q.panelOpen
}

func (q *Queue) PanelOpen() bool {
	return q.panelOpen
}
