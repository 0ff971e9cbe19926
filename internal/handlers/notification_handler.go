package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/realtime"
	"github.com/shahriar404/newsblog/backend/internal/repositories"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	blogRepository         repositories.BlogRepository
	pusher                 LivePusher
	log                    zerolog.Logger
	now                    func() time.Time
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	blogRepo repositories.BlogRepository,
	pusher LivePusher,
	log zerolog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		blogRepository:         blogRepo,
		pusher:                 pusher,
		log:                    log,
		now:                    time.Now,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.POST("/notifications", h.CreateNotification)
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/:id", h.GetNotifications)
	g.DELETE("/cleanup-notifications", h.CleanupNotifications)
}

// CreateNotification validates and persists a notification, then best-effort
// pushes it to the recipient's room. A self-notification, an unknown kind, an
// unknown recipient or a dangling blog reference is rejected and nothing is
// stored or pushed.
func (h *NotificationHandler) CreateNotification(c echo.Context) error {
	var req models.CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if !models.ValidNotificationKind(req.Kind) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification type")
	}

	if req.FromUser == req.ToUser {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot create a notification for yourself")
	}

	fromUser, err := h.userRepository.GetUserByID(c.Request().Context(), req.FromUser)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Sender not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.userRepository.GetUserByID(c.Request().Context(), req.ToUser); err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var blogDescription string
	if req.Blog != "" {
		blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), req.Blog)
		if err != nil {
			if err == repositories.ErrBlogNotFound {
				return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
			}
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid blog reference")
		}
		blogDescription = blog.Description
	}

	notif := &models.Notification{
		Kind:     req.Kind,
		FromUser: req.FromUser,
		ToUser:   req.ToUser,
		Blog:     req.Blog,
	}
	if err := h.notificationRepository.CreateNotification(c.Request().Context(), notif); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notif.FromUsername = fromUser.Username
	notif.BlogDescription = blogDescription

	if h.pusher != nil {
		if !h.pusher.SendToUser(notif.ToUser, realtime.EventReceiveNotification, notif) {
			// Recipient offline; they pick it up on their next fetch
			h.log.Debug().Str("to_user", notif.ToUser).Msg("notification recipient not connected")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"notification": notif,
	})
}

// GetNotifications lists notifications addressed to the user in the sliding
// visibility window, newest first. Lookup failures degrade to an empty list
// instead of an error, so a storage hiccup never breaks the notification UI.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		userID = getUserIDFromContext(c)
	}
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated")
	}

	since := h.now().Add(-models.NotificationWindow)
	notifications, err := h.notificationRepository.ListForUser(c.Request().Context(), userID, since)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list notifications")
		notifications = []models.Notification{}
	}

	h.enrichNotifications(c, notifications)

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// CleanupNotifications permanently deletes all notifications older than the
// visibility window and returns the deleted count. Listing is independently
// window-filtered, so this is storage reclamation rather than the expiry
// mechanism.
func (h *NotificationHandler) CleanupNotifications(c echo.Context) error {
	cutoff := h.now().Add(-models.NotificationWindow)

	deleted, err := h.notificationRepository.DeleteOlderThan(c.Request().Context(), cutoff)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "Expired notifications removed",
		"deletedCount": deleted,
	})
}

// enrichNotifications resolves actor usernames and blog descriptions for
// display. Failed lookups leave the display fields empty.
func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) {
	userCache := make(map[string]string)
	blogCache := make(map[string]string)

	for i := range notifications {
		n := &notifications[i]
		if username, ok := userCache[n.FromUser]; ok {
			n.FromUsername = username
		} else if user, err := h.userRepository.GetUserByID(c.Request().Context(), n.FromUser); err == nil {
			userCache[n.FromUser] = user.Username
			n.FromUsername = user.Username
		}

		if n.Blog == "" {
			continue
		}
		if desc, ok := blogCache[n.Blog]; ok {
			n.BlogDescription = desc
		} else if blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), n.Blog); err == nil {
			blogCache[n.Blog] = blog.Description
			n.BlogDescription = blog.Description
		}
	}
}
