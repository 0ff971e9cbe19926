package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds. Unrecognized kinds are rejected at creation.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// NotificationWindow is the sliding visibility window for notifications.
// Listings only return records younger than this; the cleanup operation
// deletes records older than it.
const NotificationWindow = time.Hour

// ValidNotificationKind reports whether kind is one of the fixed enumeration
func ValidNotificationKind(kind string) bool {
	switch kind {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}

// Notification represents one actor-triggers-event-affecting-recipient fact
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Kind      string             `json:"type" bson:"type"`
	FromUser  string             `json:"fromUser" bson:"from_user"`
	ToUser    string             `json:"toUser" bson:"to_user"`
	Blog      string             `json:"blog,omitempty" bson:"blog,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`

	// Display fields resolved at read time, never stored
	FromUsername    string `json:"fromUsername,omitempty" bson:"-"`
	BlogDescription string `json:"blogDescription,omitempty" bson:"-"`
}

// CreateNotificationRequest defines the request body for creating a notification
type CreateNotificationRequest struct {
	Kind     string `json:"type" validate:"required,oneof=like comment follow"`
	FromUser string `json:"fromUser" validate:"required"`
	ToUser   string `json:"toUser" validate:"required"`
	Blog     string `json:"blog,omitempty"`
}
