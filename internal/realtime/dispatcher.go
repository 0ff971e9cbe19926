package realtime

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/shahriar404/newsblog/backend/internal/models"
)

// Dispatcher routes client-emitted events to their recipients. Like and
// comment updates fan out to every other connected client and, when the blog
// owner is a different user than the actor, are additionally address-sent to
// the owner's room so the owner sees them from any page. Notifications are
// address-sent to the recipient's room only.
type Dispatcher struct {
	hub *Hub
	log zerolog.Logger
}

// NewDispatcher creates a Dispatcher bound to hub
func NewDispatcher(hub *Hub, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, log: log}
}

// HandleMessage decodes one inbound frame and applies the fan-out rules for
// its event kind. Malformed or unknown frames are logged and dropped; a bad
// message from one client must never take down the connection handling loop.
func (d *Dispatcher) HandleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.log.Warn().Err(err).Str("socket_id", c.socketID).Msg("malformed frame")
		return
	}

	switch env.Event {
	case EventJoin:
		d.handleJoin(c, env.Data)
	case EventLikeUpdate:
		d.handleLikeUpdate(c, env.Data)
	case EventCommentUpdate:
		d.handleCommentUpdate(c, env.Data)
	case EventNotification:
		d.handleNotification(c, env.Data)
	default:
		d.log.Warn().Str("event", env.Event).Str("socket_id", c.socketID).Msg("unknown event, dropping")
	}
}

func (d *Dispatcher) handleJoin(c *Client, data json.RawMessage) {
	var userID string
	if err := json.Unmarshal(data, &userID); err != nil || userID == "" {
		d.log.Warn().Str("socket_id", c.socketID).Msg("join without user id")
		return
	}

	// A re-join from the same connection moves it to the new room
	if c.userID != "" && c.userID != userID {
		d.hub.Remove(c.userID)
	}
	d.hub.Register(userID, c)

	frame, err := marshalEnvelope(EventJoined, JoinedPayload{UserID: userID, SocketID: c.socketID})
	if err != nil {
		return
	}
	c.enqueue(frame)
}

func (d *Dispatcher) handleLikeUpdate(c *Client, data json.RawMessage) {
	var payload LikeUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		d.log.Warn().Err(err).Msg("malformed likeUpdate payload")
		return
	}
	if payload.BlogID == "" || payload.UserID == "" {
		d.log.Warn().Msg("likeUpdate missing blog or user id")
		return
	}

	d.hub.BroadcastExcept(c, EventLikeUpdate, payload)

	if payload.BlogOwnerID != "" && payload.BlogOwnerID != payload.UserID {
		d.hub.SendToUser(payload.BlogOwnerID, EventLikeUpdate, payload)
	}
}

func (d *Dispatcher) handleCommentUpdate(c *Client, data json.RawMessage) {
	var payload CommentUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		d.log.Warn().Err(err).Msg("malformed commentUpdate payload")
		return
	}
	if payload.BlogID == "" {
		d.log.Warn().Msg("commentUpdate missing blog id")
		return
	}

	d.hub.BroadcastExcept(c, EventCommentUpdate, payload)

	if payload.BlogOwnerID != "" && payload.BlogOwnerID != payload.Comment.PostedBy {
		d.hub.SendToUser(payload.BlogOwnerID, EventCommentUpdate, payload)
	}
}

func (d *Dispatcher) handleNotification(c *Client, data json.RawMessage) {
	var payload models.Notification
	if err := json.Unmarshal(data, &payload); err != nil {
		d.log.Warn().Err(err).Msg("malformed notification payload")
		return
	}
	if payload.ToUser == "" {
		return
	}

	if !d.hub.SendToUser(payload.ToUser, EventReceiveNotification, payload) {
		// Recipient offline; the persisted record covers the next poll
		d.log.Debug().Str("to_user", payload.ToUser).Msg("notification recipient not connected")
	}
}
