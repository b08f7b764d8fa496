package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BruksfildServices01/clinic-recall/internal/dashboard"
	"github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

var ErrSubscribeFailed = errors.New("apiclient: subscribe failed")

const (
	dialTimeout = 10 * time.Second
	pongWait    = 75 * time.Second
)

type subscription struct {
	conn *websocket.Conn
	once sync.Once
	done chan struct{}
}

// Cancel closes the socket and waits for the reader to stop, so onEvent is
// never called after Cancel returns.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = s.conn.Close()
	})
	<-s.done
}

// SubscribeInserts opens the dentist's notification stream. Events reach
// onEvent one at a time in the order the server sent them.
func (c *Client) SubscribeInserts(
	ctx context.Context,
	onEvent func(models.Notification),
) (dashboard.Subscription, error) {

	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/api/me/notifications/stream"

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: status %d", ErrSubscribeFailed, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	sub := &subscription{conn: conn, done: make(chan struct{})}
	go sub.read(onEvent)

	return sub, nil
}

func (s *subscription) read(onEvent func(models.Notification)) {
	defer close(s.done)

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPingHandler(func(data string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return s.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var ev notification.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			continue
		}
		if ev.Type != notification.EventInserted {
			continue
		}
		onEvent(ev.Notification)
	}
}
