package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BruksfildServices01/clinic-recall/internal/dashboard"
)

// screen draws dashboard views as plain text. It is safe for concurrent use;
// live events render from the subscription goroutine.
type screen struct {
	mu  sync.Mutex
	out io.Writer
}

func newScreen(out io.Writer) *screen {
	return &screen{out: out}
}

func (s *screen) Render(v dashboard.View) {
	var b strings.Builder

	b.WriteString("\n== Notificações ==\n")
	if v.BacklogErr != nil {
		b.WriteString("(erro ao carregar pendentes)\n")
	}
	if !v.Live {
		b.WriteString("(sem conexão em tempo real: recarregue para ver novas chegadas)\n")
	}
	if v.SoundLocked {
		b.WriteString("[som desativado: digite 'sound' para ativar]\n")
	}

	if v.Modal != nil {
		fmt.Fprintf(&b, "\n  >>> %s  (%s)\n      digite 'ack' para confirmar\n", v.Modal.Message, v.Modal.CreatedAt.Format("15:04"))
	}

	if v.PanelOpen {
		fmt.Fprintf(&b, "\n-- não lidas (%d) --\n", len(v.Unread))
		for _, n := range v.Unread {
			fmt.Fprintf(&b, "  %s  %s  %s\n", n.ID, n.CreatedAt.Format("15:04"), n.Message)
		}
	} else {
		fmt.Fprintf(&b, "não lidas: %d ('panel' para listar)\n", len(v.Unread))
	}

	s.write(b.String())
}

func (s *screen) RenderRecalls(v dashboard.RecallView) {
	var b strings.Builder

	b.WriteString("\n== Retornos ==\n")
	switch {
	case v.Loading:
		b.WriteString("carregando...\n")
	case v.Err != nil:
		b.WriteString("(erro ao carregar a lista de retornos)\n")
	case len(v.Candidates) == 0:
		b.WriteString("nenhum paciente pendente\n")
	default:
		for _, c := range v.Candidates {
			phone := "-"
			if c.Phone != nil {
				phone = *c.Phone
			}
			fmt.Fprintf(&b, "  %-14s %-30s %-16s última visita %s\n",
				c.PatientID, c.Name, phone, c.LastVisit.Format("02/01/2006"))
		}
	}

	s.write(b.String())
}

func (s *screen) Toast(message string) {
	s.write("! " + message + "\n")
}

func (s *screen) help(text string) {
	s.write(text + "\n")
}

func (s *screen) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.out, text)
}
