package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-recall/internal/dashboard"
	"github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"", command{}},
		{"  ACK ", command{name: "ack"}},
		{"dismiss 52998224725", command{name: "dismiss", arg: "52998224725"}},
		{"panel extra words", command{name: "panel", arg: "extra"}},
	}

	for _, tt := range tests {
		if got := parseCommand(tt.line); got != tt.want {
			t.Fatalf("parseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestReadCommandsStopsAtQuit(t *testing.T) {
	var seen []string
	readCommands(context.Background(), strings.NewReader("ack\n\npanel\nquit\nack\n"), func(c command) bool {
		seen = append(seen, c.name)
		return true
	})

	if strings.Join(seen, ",") != "ack,panel" {
		t.Fatalf("unexpected commands %v", seen)
	}
}

func TestScreenRender(t *testing.T) {
	var buf bytes.Buffer
	s := newScreen(&buf)

	n := models.Notification{ID: uuid.New(), Message: "Paciente Ana chegou", CreatedAt: time.Now()}
	s.Render(dashboard.View{
		Modal:       &n,
		Unread:      []models.Notification{n},
		PanelOpen:   true,
		SoundLocked: true,
	})

	out := buf.String()
	for _, want := range []string{"Paciente Ana chegou", "'sound'", n.ID.String(), "sem conexão"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestScreenRenderRecallError(t *testing.T) {
	var buf bytes.Buffer
	s := newScreen(&buf)

	s.RenderRecalls(dashboard.RecallView{
		Candidates: []recall.Candidate{{PatientID: "1", Name: "Ana"}},
		Err:        errors.New("503"),
	})

	if !strings.Contains(buf.String(), "erro") || strings.Contains(buf.String(), "Ana") {
		t.Fatalf("an error state must not show candidates:\n%s", buf.String())
	}
}
