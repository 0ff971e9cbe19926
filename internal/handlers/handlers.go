package handlers

import (
	"github.com/labstack/echo/v4"
)

// LivePusher delivers an event to the room of a connected user. Delivery is
// best effort; a false return means the recipient is currently offline and
// the event was dropped.
type LivePusher interface {
	SendToUser(userID, event string, data interface{}) bool
}

// getUserIDFromContext returns the authenticated user's ID set by the JWT
// middleware, or "" when unauthenticated
func getUserIDFromContext(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}
