package realtime

import (
	"encoding/json"

	"github.com/shahriar404/newsblog/backend/internal/models"
)

// Event names carried on the wire. Client-emitted events are routed through
// the Dispatcher; server-emitted events are pushed to rooms or broadcast.
const (
	EventJoin                = "join"
	EventJoined              = "joined"
	EventLikeUpdate          = "likeUpdate"
	EventCommentUpdate       = "commentUpdate"
	EventNotification        = "notification"
	EventReceiveNotification = "receiveNotification"
)

// Envelope is the framing for every websocket message. Data holds the
// event-specific payload and is decoded into one of the typed payload
// structs below; unknown events are dropped by the dispatcher.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinedPayload confirms a successful room registration
type JoinedPayload struct {
	UserID   string `json:"userId"`
	SocketID string `json:"socketId"`
}

// LikeUpdatePayload carries the new like state of a blog
type LikeUpdatePayload struct {
	BlogID      string   `json:"blogId"`
	UserID      string   `json:"userId"`
	Liked       bool     `json:"liked"`
	LikesCount  int      `json:"likesCount"`
	LikedUsers  []string `json:"likedUsers,omitempty"`
	BlogOwnerID string   `json:"blogOwnerId"`
}

// CommentUpdatePayload carries a newly created comment
type CommentUpdatePayload struct {
	BlogID      string         `json:"blogId"`
	Comment     models.Comment `json:"comment"`
	BlogOwnerID string         `json:"blogOwnerId"`
}

// marshalEnvelope encodes an event and its payload into a wire frame
func marshalEnvelope(event string, data interface{}) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
