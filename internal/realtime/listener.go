package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

// Channel is the postgres NOTIFY channel fed by the notifications insert
// trigger.
const Channel = "notification_inserted"

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Listener relays postgres notifications to the hub. It owns one dedicated
// connection and reconnects with exponential backoff.
type Listener struct {
	dsn string
	hub *Hub
	log zerolog.Logger
}

func NewListener(dsn string, hub *Hub, log zerolog.Logger) *Listener {
	return &Listener{
		dsn: dsn,
		hub: hub,
		log: log.With().Str("component", "realtime_listener").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	backoff := minBackoff

	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}

		l.log.Error().Err(err).Dur("retry_in", backoff).Msg("listener disconnected")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	l.log.Info().Str("channel", Channel).Msg("listening")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if err := l.Handle(n.Payload); err != nil {
			l.log.Warn().Err(err).Msg("discarding notification payload")
		}
	}
}

// Handle decodes one trigger payload and publishes it on the owning
// dentist's topic. Rows inserted already read are not relayed.
func (l *Listener) Handle(payload string) error {
	var n models.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if n.DentistID == 0 {
		return errors.New("payload without dentist_id")
	}
	if notification.StateOf(n) != notification.StateUnread {
		l.log.Debug().Str("notification_id", n.ID.String()).Msg("skipping read notification")
		return nil
	}

	msg, err := json.Marshal(notification.Event{
		Type:         notification.EventInserted,
		Notification: n,
	})
	if err != nil {
		return err
	}

	delivered := l.hub.Publish(notification.Topic(n.DentistID), msg)
	l.log.Debug().
		Str("notification_id", n.ID.String()).
		Uint("dentist_id", n.DentistID).
		Int("delivered", delivered).
		Msg("notification relayed")

	return nil
}
