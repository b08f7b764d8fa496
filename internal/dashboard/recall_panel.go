package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
)

const (
	msgRecallFailed  = "Não foi possível carregar a lista de retornos."
	msgDismissFailed = "Não foi possível dispensar o retorno. O paciente continua na lista."
)

type RecallView struct {
	Candidates []recall.Candidate
	// Err is set when the last load failed; Candidates is then empty rather
	// than stale.
	Err     error
	Loading bool
}

// RecallPanel lists patients due for a follow-up visit.
type RecallPanel struct {
	store    Store
	renderer func(RecallView)
	toast    func(string)
	log      zerolog.Logger

	mu         sync.Mutex
	closed     bool
	loading    bool
	candidates []recall.Candidate
	err        error
}

func NewRecallPanel(store Store, renderer Renderer, log zerolog.Logger) *RecallPanel {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	p := &RecallPanel{
		store: store,
		toast: renderer.Toast,
		log:   log,
	}
	p.renderer = func(RecallView) {}
	if r, ok := renderer.(RecallRenderer); ok {
		p.renderer = r.RenderRecalls
	}
	return p
}

// RecallRenderer is implemented by renderers that also draw the recall list.
type RecallRenderer interface {
	RenderRecalls(RecallView)
}

// Load recomputes the list. On failure the panel shows an error state and
// no candidates.
func (p *RecallPanel) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrSessionClosed
	}
	p.loading = true
	p.mu.Unlock()
	p.render()

	candidates, err := p.store.ListRecalls(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrSessionClosed
	}
	p.loading = false
	if err != nil {
		p.candidates = nil
		p.err = err
	} else {
		p.candidates = candidates
		p.err = nil
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Error().Err(err).Msg("recall list")
		p.toast(msgRecallFailed)
	}
	p.render()
	return err
}

// Dismiss hides the patient at once and puts them back if the write fails.
func (p *RecallPanel) Dismiss(ctx context.Context, patientID string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrSessionClosed
	}
	index := -1
	var removed recall.Candidate
	for i, c := range p.candidates {
		if c.PatientID == patientID {
			index, removed = i, c
			break
		}
	}
	if index < 0 {
		p.mu.Unlock()
		return fmt.Errorf("dashboard: patient %s is not on the recall list", patientID)
	}
	p.candidates = append(p.candidates[:index:index], p.candidates[index+1:]...)
	p.mu.Unlock()
	p.render()

	err := p.store.DismissRecall(ctx, patientID)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrSessionClosed
	}
	if err != nil {
		i := index
		if i > len(p.candidates) {
			i = len(p.candidates)
		}
		restored := make([]recall.Candidate, 0, len(p.candidates)+1)
		restored = append(restored, p.candidates[:i]...)
		restored = append(restored, removed)
		p.candidates = append(restored, p.candidates[i:]...)
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Error().Err(err).Str("patient_id", patientID).Msg("dismiss recall")
		p.toast(msgDismissFailed)
		p.render()
		return fmt.Errorf("dismiss %s: %w", patientID, err)
	}
	return nil
}

func (p *RecallPanel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *RecallPanel) View() RecallView {
	p.mu.Lock()
	defer p.mu.Unlock()

	return RecallView{
		Candidates: append([]recall.Candidate{}, p.candidates...),
		Err:        p.err,
		Loading:    p.loading,
	}
}

func (p *RecallPanel) render() {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return
	}
	p.renderer(p.View())
}
