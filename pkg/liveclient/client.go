// Package liveclient is a programmatic client for the newsblog API. It
// combines the request/response surface with the live websocket channel and
// reconciles both into a single deduplicated view: entities are merged by
// identity, local like/bookmark toggles are applied optimistically and
// reverted on failure, and a periodic notification poll fills any gaps the
// live channel misses.
package liveclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/realtime"
)

const (
	// DefaultPollInterval is how often the notification list is re-fetched
	// so state converges even when the live channel is down
	DefaultPollInterval = 30 * time.Second

	defaultRequestTimeout = 10 * time.Second
)

// ErrRequestInFlight is returned when a mutating action is already pending
// for the same entity. The second attempt is ignored, not queued.
var ErrRequestInFlight = errors.New("request already in flight for this entity")

// Client talks to the newsblog backend over HTTP and its live channel
type Client struct {
	baseURL string
	userID  string
	token   string
	http    *http.Client
	state   *State
	log     zerolog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}

	socket *socket
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client's logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient overrides the HTTP client used for API calls
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the given user. token is the JWT obtained from
// the login endpoint.
func New(baseURL, userID, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		userID:   userID,
		token:    token,
		http:     &http.Client{Timeout: defaultRequestTimeout},
		state:    NewState(userID),
		log:      zerolog.Nop(),
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.socket = newSocket(c)
	return c
}

// State returns the client's reconciled view
func (c *Client) State() *State { return c.state }

// Connected reports whether the live channel is currently up
func (c *Client) Connected() bool { return c.socket.connected() }

// Connect establishes the live channel and joins the user's room. Dropped
// connections are redialed up to five times with increasing delay; after
// that the channel stays closed until Connect is called again.
func (c *Client) Connect(ctx context.Context) error {
	return c.socket.connect(ctx)
}

// Close tears down the live channel
func (c *Client) Close() {
	c.socket.close()
}

// FetchNotifications re-fetches the notification list and merges it into the
// view. Entities already known (for example via live push) are overwritten in
// place, never duplicated.
func (c *Client) FetchNotifications(ctx context.Context) ([]models.Notification, error) {
	var resp struct {
		Success       bool                  `json:"success"`
		Notifications []models.Notification `json:"notifications"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/user/notifications/"+c.userID, nil, &resp); err != nil {
		return nil, err
	}
	c.state.ApplyNotifications(resp.Notifications)
	return c.state.Notifications(), nil
}

// StartPolling re-fetches notifications on a fixed interval until ctx is
// cancelled. Fetch errors are logged and retried on the next tick.
func (c *Client) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.FetchNotifications(ctx); err != nil {
					c.log.Warn().Err(err).Msg("notification poll failed")
				}
			}
		}
	}()
}

// ToggleLike flips the local user's like on a blog. The flip is applied
// optimistically, confirmed (or reverted) by the server response, then
// propagated over the live channel and recorded as a notification for the
// blog owner.
func (c *Client) ToggleLike(ctx context.Context, blogID, ownerID string) error {
	if !c.acquire("like:" + blogID) {
		return ErrRequestInFlight
	}
	defer c.release("like:" + blogID)

	prev := c.state.Blog(blogID)
	wantLiked := prev == nil || !prev.Liked
	prevLiked, prevCount, prevUsers := c.state.setLike(blogID, ownerID, wantLiked)

	var resp struct {
		Success      bool     `json:"success"`
		Liked        bool     `json:"liked"`
		UpdatedLikes []string `json:"updatedlikes"`
	}
	err := c.doJSON(ctx, http.MethodPut, "/api/v1/blog/likes/"+blogID, map[string]string{"id": c.userID}, &resp)
	if err != nil {
		c.state.restoreLike(blogID, prevLiked, prevCount, prevUsers)
		return err
	}

	c.state.confirmLike(blogID, resp.Liked, resp.UpdatedLikes)

	payload := realtime.LikeUpdatePayload{
		BlogID:      blogID,
		UserID:      c.userID,
		Liked:       resp.Liked,
		LikesCount:  len(resp.UpdatedLikes),
		LikedUsers:  resp.UpdatedLikes,
		BlogOwnerID: ownerID,
	}
	c.socket.emit(realtime.EventLikeUpdate, payload)

	if resp.Liked && ownerID != "" && ownerID != c.userID {
		c.createNotification(ctx, models.NotificationLike, ownerID, blogID)
	}
	return nil
}

// ToggleBookmark flips the blog's membership in the user's bookmarks,
// optimistically and with revert on failure
func (c *Client) ToggleBookmark(ctx context.Context, blogID string) error {
	if !c.acquire("bookmark:" + blogID) {
		return ErrRequestInFlight
	}
	defer c.release("bookmark:" + blogID)

	prev := c.state.setBookmark(blogID, !c.state.Bookmarked(blogID))

	var resp struct {
		Success          bool     `json:"success"`
		UpdatedBookmarks []string `json:"updatedBookmarks"`
	}
	err := c.doJSON(ctx, http.MethodPut, "/api/v1/user/bookmark/"+blogID, map[string]string{"id": c.userID}, &resp)
	if err != nil {
		c.state.setBookmark(blogID, prev)
		return err
	}
	c.state.setBookmark(blogID, contains(resp.UpdatedBookmarks, blogID))
	return nil
}

// AddComment appends a comment to a blog, merges the server-confirmed comment
// into the view, and propagates it over the live channel
func (c *Client) AddComment(ctx context.Context, blogID, ownerID, text string) (*models.Comment, error) {
	var resp struct {
		Success bool        `json:"success"`
		Blog    models.Blog `json:"blog"`
	}
	payload := map[string]string{"text": text, "id": c.userID}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/blog/addComment/"+blogID, payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Blog.Comments) == 0 {
		return nil, fmt.Errorf("server returned no comments")
	}

	comment := resp.Blog.Comments[len(resp.Blog.Comments)-1]
	c.state.ApplyComment(blogID, comment)

	c.socket.emit(realtime.EventCommentUpdate, realtime.CommentUpdatePayload{
		BlogID:      blogID,
		Comment:     comment,
		BlogOwnerID: ownerID,
	})

	if ownerID != "" && ownerID != c.userID {
		c.createNotification(ctx, models.NotificationComment, ownerID, blogID)
	}
	return &comment, nil
}

// createNotification persists a notification for toUser. Failures are logged
// and swallowed; the triggering mutation already succeeded.
func (c *Client) createNotification(ctx context.Context, kind, toUser, blogID string) {
	body := models.CreateNotificationRequest{
		Kind:     kind,
		FromUser: c.userID,
		ToUser:   toUser,
		Blog:     blogID,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/user/notifications", body, nil); err != nil {
		c.log.Warn().Err(err).Str("kind", kind).Msg("failed to create notification")
	}
}

func (c *Client) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}
	return true
}

func (c *Client) release(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return fmt.Errorf("api error: %s", apiErr.Message)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
