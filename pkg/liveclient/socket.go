package liveclient

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/realtime"
)

const (
	maxReconnectAttempts = 5
	reconnectDelayStep   = time.Second
	maxReconnectDelay    = 5 * time.Second
)

// socket manages the client's websocket connection: dialing, the join
// handshake, inbound event dispatch into the state, and bounded automatic
// reconnection. After the reconnect budget is exhausted the channel stays
// down until connect is called again; the polling fetch path covers the gap.
type socket struct {
	client *Client

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	up     atomic.Bool
}

func newSocket(c *Client) *socket {
	return &socket{client: c}
}

func (s *socket) connected() bool {
	return s.up.Load()
}

func (s *socket) connect(ctx context.Context) error {
	s.close()

	ctx, cancel := context.WithCancel(ctx)

	conn, err := s.dial(ctx)
	if err != nil {
		cancel()
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.cancel = cancel
	s.mu.Unlock()
	s.up.Store(true)

	if err := s.join(conn); err != nil {
		s.close()
		return err
	}

	go s.readLoop(ctx, conn)
	return nil
}

func (s *socket) dial(ctx context.Context) (*websocket.Conn, error) {
	wsURL, err := websocketURL(s.client.baseURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	return conn, err
}

func (s *socket) join(conn *websocket.Conn) error {
	data, err := json.Marshal(s.client.userID)
	if err != nil {
		return err
	}
	return conn.WriteJSON(realtime.Envelope{Event: realtime.EventJoin, Data: data})
}

// emit sends an event over the live channel. When the channel is down the
// event is dropped; persisted state is the source of truth and the other
// side's polling covers it.
func (s *socket) emit(event string, payload interface{}) bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil || !s.up.Load() {
		s.client.log.Debug().Str("event", event).Msg("live channel down, dropping emit")
		return false
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := conn.WriteJSON(realtime.Envelope{Event: event, Data: data}); err != nil {
		s.client.log.Warn().Err(err).Str("event", event).Msg("live emit failed")
		return false
	}
	return true
}

func (s *socket) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.up.Store(false)
			if ctx.Err() != nil {
				return
			}
			s.client.log.Warn().Err(err).Msg("live channel dropped, reconnecting")
			s.reconnect(ctx)
			return
		}
		s.dispatch(message)
	}
}

// reconnect retries the dial with increasing delay. Five failures in a row
// give up; the connection is then considered permanently closed until the
// caller re-initiates.
func (s *socket) reconnect(ctx context.Context) {
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		delay := time.Duration(attempt) * reconnectDelayStep
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		conn, err := s.dial(ctx)
		if err != nil {
			s.client.log.Warn().Err(err).Int("attempt", attempt).Msg("reconnect failed")
			continue
		}

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		s.up.Store(true)

		if err := s.join(conn); err != nil {
			s.client.log.Warn().Err(err).Msg("rejoin failed")
			conn.Close()
			s.up.Store(false)
			continue
		}

		s.client.log.Info().Int("attempt", attempt).Msg("live channel reconnected")
		go s.readLoop(ctx, conn)
		return
	}
	s.client.log.Error().Msg("max reconnection attempts reached, live channel closed")
}

// dispatch folds one inbound frame into the reconciled state
func (s *socket) dispatch(raw []byte) {
	var env realtime.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.client.log.Warn().Err(err).Msg("malformed live frame")
		return
	}

	switch env.Event {
	case realtime.EventJoined:
		var p realtime.JoinedPayload
		if err := json.Unmarshal(env.Data, &p); err == nil {
			s.client.log.Info().Str("user_id", p.UserID).Str("socket_id", p.SocketID).Msg("joined room")
		}
	case realtime.EventLikeUpdate:
		var p realtime.LikeUpdatePayload
		if err := json.Unmarshal(env.Data, &p); err == nil {
			s.client.state.ApplyLikeUpdate(p)
		}
	case realtime.EventCommentUpdate:
		var p realtime.CommentUpdatePayload
		if err := json.Unmarshal(env.Data, &p); err == nil {
			s.client.state.ApplyComment(p.BlogID, p.Comment)
		}
	case realtime.EventReceiveNotification:
		var n models.Notification
		if err := json.Unmarshal(env.Data, &n); err == nil {
			s.client.state.ApplyNotification(n)
		}
	default:
		s.client.log.Debug().Str("event", env.Event).Msg("ignoring unknown live event")
	}
}

func (s *socket) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.up.Store(false)
}

func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch {
	case strings.EqualFold(u.Scheme, "https"):
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String(), nil
}
