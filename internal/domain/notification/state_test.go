package notification

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

func TestStateOf(t *testing.T) {
	readAt := time.Date(2024, time.July, 11, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		n    models.Notification
		want State
	}{
		{"new", models.Notification{}, StateUnread},
		{"flag set", models.Notification{Read: true}, StateRead},
		{"stamped", models.Notification{ReadAt: &readAt}, StateRead},
		{"flag and stamp", models.Notification{Read: true, ReadAt: &readAt}, StateRead},
	}

	for _, tt := range tests {
		if got := StateOf(tt.n); got != tt.want {
			t.Fatalf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestTopic(t *testing.T) {
	if got := Topic(42); got != "dentist:42" {
		t.Fatalf("unexpected topic %q", got)
	}
}
