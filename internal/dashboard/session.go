package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-recall/internal/audio"
	"github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

var (
	ErrSessionClosed        = errors.New("dashboard: session closed")
	ErrUnknownNotification  = errors.New("dashboard: notification not in the unread list")
	ErrNothingToAcknowledge = errors.New("dashboard: no notification on screen")
)

const (
	msgMarkReadFailed = "Não foi possível marcar a notificação como lida. Tente novamente."
	msgSoundFailed    = "Não foi possível tocar o alerta sonoro."
	msgUnlockFailed   = "O som não pôde ser ativado neste terminal. Tente novamente."
	msgUnlocked       = "Som ativado."
	msgBacklogFailed  = "Não foi possível carregar as notificações pendentes."
)

// View is a snapshot of the notification screen.
type View struct {
	Modal       *models.Notification
	Unread      []models.Notification
	PanelOpen   bool
	SoundLocked bool

	// Live is false when the realtime channel could not be opened; only the
	// backlog is shown until the next session.
	Live       bool
	BacklogErr error
}

// Session is one dentist's notification screen, from sign-in to teardown.
// Every notification id is presented at most once per session, whether it
// came from the backlog, the live channel or both.
type Session struct {
	store    Store
	gate     *audio.Gate
	renderer Renderer
	log      zerolog.Logger

	mu         sync.Mutex
	closed     bool
	seen       map[uuid.UUID]struct{}
	queue      Queue
	sub        Subscription
	live       bool
	backlogErr error
}

func NewSession(store Store, gate *audio.Gate, renderer Renderer, log zerolog.Logger) *Session {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if gate == nil {
		gate = audio.NewGate(nil, nil)
	}
	return &Session{
		store:    store,
		gate:     gate,
		renderer: renderer,
		log:      log,
		seen:     make(map[uuid.UUID]struct{}),
	}
}

// Start loads the backlog and then opens the live subscription, in that
// order, so nothing inserted in between is missed. Neither failure is
// fatal: a failed backlog shows an error state, a failed subscription
// leaves the session backlog-only.
func (s *Session) Start(ctx context.Context) {
	backlog, err := s.store.FetchUnread(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.backlogErr = err
		s.log.Error().Err(err).Msg("notification backlog")
	} else {
		fresh := make([]models.Notification, 0, len(backlog))
		for _, n := range backlog {
			if notification.StateOf(n) == notification.StateUnread && s.markSeen(n.ID) {
				fresh = append(fresh, n)
			}
		}
		s.queue.Load(fresh)
	}
	s.mu.Unlock()

	if err != nil {
		s.renderer.Toast(msgBacklogFailed)
	}
	s.render()

	sub, err := s.store.SubscribeInserts(ctx, s.receive)
	if err != nil {
		s.log.Warn().Err(err).Msg("realtime unavailable, backlog only")
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.sub = sub
	s.live = true
	s.mu.Unlock()

	s.render()
}

// markSeen reports whether id is new to this session.
func (s *Session) markSeen(id uuid.UUID) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// receive handles one live insert. Duplicates, already read notifications
// and events after teardown are dropped. The modal and panel update whether or not the sound is locked.
func (s *Session) receive(n models.Notification) {
	s.mu.Lock()
	if s.closed || notification.StateOf(n) != notification.StateUnread || !s.markSeen(n.ID) {
		s.mu.Unlock()
		return
	}
	s.queue.Arrive(n)
	s.mu.Unlock()

	s.render()

	if _, err := s.gate.Alert(); err != nil {
		s.log.Warn().Err(err).Msg("alert sound")
		s.renderer.Toast(msgSoundFailed)
	}
}

// Dismiss marks one notification as read. It leaves the screen at once and
// comes back, with a toast, if the server rejects the update.
func (s *Session) Dismiss(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	r, ok := s.queue.remove(id)
	s.mu.Unlock()

	if !ok {
		return ErrUnknownNotification
	}
	s.render()

	err := s.store.MarkRead(ctx, []uuid.UUID{id})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if err != nil {
		s.queue.restore(r)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Str("notification_id", id.String()).Msg("mark read")
		s.renderer.Toast(msgMarkReadFailed)
		s.render()
		return fmt.Errorf("mark read %s: %w", id, err)
	}
	return nil
}

// Acknowledge dismisses whatever the modal is showing.
func (s *Session) Acknowledge(ctx context.Context) error {
	s.mu.Lock()
	n, ok := s.queue.Modal()
	s.mu.Unlock()

	if !ok {
		return ErrNothingToAcknowledge
	}
	return s.Dismiss(ctx, n.ID)
}

func (s *Session) TogglePanel() bool {
	s.mu.Lock()
	open := s.queue.TogglePanel()
	s.mu.Unlock()

	s.render()
	return open
}

// EnableSound is the explicit user gesture that unlocks the alert sound.
func (s *Session) EnableSound() error {
	if err := s.gate.Unlock(); err != nil {
		s.renderer.Toast(msgUnlockFailed)
		return err
	}
	s.renderer.Toast(msgUnlocked)
	s.render()
	return nil
}

// Close tears the session down. The subscription is cancelled before Close
// returns and results of calls still in flight are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	s.seen = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Unread:      s.queue.Unread(),
		PanelOpen:   s.queue.PanelOpen(),
		SoundLocked: s.gate.Locked(),
		Live:        s.live,
		BacklogErr:  s.backlogErr,
	}
	if n, ok := s.queue.Modal(); ok {
		v.Modal = &n
	}
	return v
}

func (s *Session) render() {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return
	}
	s.renderer.Render(s.View())
}
