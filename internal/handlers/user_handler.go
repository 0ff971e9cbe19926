package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/realtime"
	"github.com/shahriar404/newsblog/backend/internal/repositories"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	pusher                 LivePusher
	log                    zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, pusher LivePusher, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		pusher:                 pusher,
		log:                    log,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile/:id", h.GetProfile)
	g.GET("/otheruser/:id", h.GetOtherUsers)
	g.POST("/follower/:id", h.Follow)
	g.POST("/unfollow/:id", h.Unfollow)
	g.PUT("/bookmark/:id", h.ToggleBookmark)
	g.PUT("/updateprofile/:id", h.UpdateProfile)
}

// GetProfile retrieves a user's profile by ID
func (h *UserHandler) GetProfile(c echo.Context) error {
	profileID := c.Param("id")
	if profileID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Profile ID is required")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), profileID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// GetOtherUsers retrieves every user except the given one
func (h *UserHandler) GetOtherUsers(c echo.Context) error {
	id := c.Param("id")

	otherUsers, err := h.userRepository.GetOtherUsers(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"otherUsers": otherUsers, "success": true})
}

// followRequest carries the acting user's ID in the body
type followRequest struct {
	UserID string `json:"id" validate:"required"`
}

// Follow makes the acting user follow the target user. A follow notification
// is persisted as part of the request and pushed to the target's room when
// they are connected.
func (h *UserHandler) Follow(c echo.Context) error {
	targetID := c.Param("id")

	var req followRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.UserID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	actor, err := h.userRepository.GetUserByID(c.Request().Context(), req.UserID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	target, err := h.userRepository.GetUserByID(c.Request().Context(), targetID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for _, followerID := range target.Followers {
		if followerID == req.UserID {
			return echo.NewHTTPError(http.StatusBadRequest, "You are already following "+target.Name)
		}
	}

	if err := h.userRepository.Follow(c.Request().Context(), req.UserID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Create notification; the follow itself already succeeded
	notif := &models.Notification{
		Kind:     models.NotificationFollow,
		FromUser: req.UserID,
		ToUser:   targetID,
	}
	if err := h.notificationRepository.CreateNotification(c.Request().Context(), notif); err != nil {
		h.log.Error().Err(err).Str("to_user", targetID).Msg("failed to persist follow notification")
	} else if h.pusher != nil {
		notif.FromUsername = actor.Username
		h.pusher.SendToUser(targetID, realtime.EventReceiveNotification, notif)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": actor.Name + " just followed " + target.Name,
	})
}

// Unfollow makes the acting user unfollow the target user
func (h *UserHandler) Unfollow(c echo.Context) error {
	targetID := c.Param("id")

	var req followRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	actor, err := h.userRepository.GetUserByID(c.Request().Context(), req.UserID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	target, err := h.userRepository.GetUserByID(c.Request().Context(), targetID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	following := false
	for _, id := range actor.Following {
		if id == targetID {
			following = true
			break
		}
	}
	if !following {
		return echo.NewHTTPError(http.StatusBadRequest, "Not yet following the user")
	}

	if err := h.userRepository.Unfollow(c.Request().Context(), req.UserID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": actor.Name + " just unfollowed " + target.Name,
	})
}

// bookmarkRequest carries the acting user's ID in the body
type bookmarkRequest struct {
	UserID string `json:"id" validate:"required"`
}

// ToggleBookmark flips the blog's membership in the user's bookmark set and
// returns the updated bookmark list
func (h *UserHandler) ToggleBookmark(c echo.Context) error {
	blogID := c.Param("id")

	var req bookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), req.UserID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	bookmarked := false
	for _, id := range user.Bookmarks {
		if id == blogID {
			bookmarked = true
			break
		}
	}

	var message string
	var updated []string
	if bookmarked {
		if err := h.userRepository.RemoveBookmark(c.Request().Context(), req.UserID, blogID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		message = "Removed from bookmarks"
		updated = remove(user.Bookmarks, blogID)
	} else {
		if err := h.userRepository.AddBookmark(c.Request().Context(), req.UserID, blogID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		message = "Added to bookmarks"
		updated = append(user.Bookmarks, blogID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":          true,
		"message":          message,
		"updatedBookmarks": updated,
	})
}

// UpdateProfile updates a user's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := c.Param("id")

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.About != "" {
		user.About = req.About
	}
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func remove(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
