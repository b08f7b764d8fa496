// Package notification holds the read-state rules for arrival notifications.
//
// A notification is created unread and can only move to read. Read is
// terminal: the store only ever flips unread rows, and a notification in
// StateRead is never presented again.
package notification

import (
	"strconv"

	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type State string

const (
	StateUnread State = "unread"
	StateRead   State = "read"
)

func StateOf(n models.Notification) State {
	if n.Read || n.ReadAt != nil {
		return StateRead
	}
	return StateUnread
}

// Event is the payload pushed to a dentist's realtime channel on insert.
type Event struct {
	Type         string              `json:"type"`
	Notification models.Notification `json:"notification"`
}

const EventInserted = "notification.inserted"

func Topic(dentistID uint) string {
	return "dentist:" + strconv.FormatUint(uint64(dentistID), 10)
}
