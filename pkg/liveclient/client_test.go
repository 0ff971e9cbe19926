package liveclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFetchNotificationsMergesWithPushed(t *testing.T) {
	pushed := notif(models.NotificationLike, "alice", "me")
	fetched := notif(models.NotificationFollow, "bob", "me")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/user/notifications/me", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"notifications": []models.Notification{pushed, fetched},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "me", "tok")
	c.State().ApplyNotification(pushed)

	got, err := c.FetchNotifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestToggleLikeConfirmedByServer(t *testing.T) {
	blogID := primitive.NewObjectID().Hex()
	var notifBody models.CreateNotificationRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/blog/likes/"+blogID:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":      true,
				"liked":        true,
				"updatedlikes": []string{"alice", "me"},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/user/notifications":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&notifBody))
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "me", "tok")
	require.NoError(t, c.ToggleLike(context.Background(), blogID, "owner"))

	b := c.State().Blog(blogID)
	require.NotNil(t, b)
	assert.True(t, b.Liked)
	assert.Equal(t, 2, b.LikesCount)

	// The blog owner got a like notification
	assert.Equal(t, models.NotificationLike, notifBody.Kind)
	assert.Equal(t, "me", notifBody.FromUser)
	assert.Equal(t, "owner", notifBody.ToUser)
	assert.Equal(t, blogID, notifBody.Blog)
}

func TestToggleLikeRevertsOnFailure(t *testing.T) {
	blogID := primitive.NewObjectID().Hex()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "storage down"})
	}))
	defer srv.Close()

	c := New(srv.URL, "me", "tok")

	err := c.ToggleLike(context.Background(), blogID, "owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage down")

	// The optimistic flip was rolled back
	b := c.State().Blog(blogID)
	require.NotNil(t, b)
	assert.False(t, b.Liked)
	assert.Equal(t, 0, b.LikesCount)
}

func TestToggleLikeRejectsConcurrentDuplicate(t *testing.T) {
	blogID := primitive.NewObjectID().Hex()
	c := New("http://unused", "me", "tok")

	require.True(t, c.acquire("like:"+blogID))
	defer c.release("like:" + blogID)

	err := c.ToggleLike(context.Background(), blogID, "owner")
	assert.ErrorIs(t, err, ErrRequestInFlight)
}

func TestToggleLikeOwnBlogSkipsNotification(t *testing.T) {
	blogID := primitive.NewObjectID().Hex()
	notified := false

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/notifications") {
			notified = true
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":      true,
			"liked":        true,
			"updatedlikes": []string{"me"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "me", "tok")
	require.NoError(t, c.ToggleLike(context.Background(), blogID, "me"))
	assert.False(t, notified)
}

func TestToggleBookmarkRoundTrip(t *testing.T) {
	blogID := primitive.NewObjectID().Hex()
	bookmarks := []string{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contains(bookmarks, blogID) {
			bookmarks = removeString(bookmarks, blogID)
		} else {
			bookmarks = append(bookmarks, blogID)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":          true,
			"updatedBookmarks": bookmarks,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "me", "tok")

	require.NoError(t, c.ToggleBookmark(context.Background(), blogID))
	assert.True(t, c.State().Bookmarked(blogID))

	require.NoError(t, c.ToggleBookmark(context.Background(), blogID))
	assert.False(t, c.State().Bookmarked(blogID))
}

func TestAddCommentMergesServerCopy(t *testing.T) {
	blogID := primitive.NewObjectID().Hex()
	confirmed := models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      "great post",
		PostedBy:  "me",
		CreatedAt: time.Now(),
	}
	var notifBody models.CreateNotificationRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/blog/addComment/"+blogID:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"blog": models.Blog{
					Description: "a post",
					UserID:      "owner",
					Comments:    []models.Comment{confirmed},
				},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/user/notifications":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&notifBody))
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "me", "tok")

	comment, err := c.AddComment(context.Background(), blogID, "owner", "great post")
	require.NoError(t, err)
	assert.Equal(t, confirmed.ID, comment.ID)

	got := c.State().Blog(blogID).Comments()
	require.Len(t, got, 1)
	assert.Equal(t, "great post", got[0].Text)

	assert.Equal(t, models.NotificationComment, notifBody.Kind)
	assert.Equal(t, "owner", notifBody.ToUser)
}

func TestStartPollingFetchesOnInterval(t *testing.T) {
	hits := make(chan struct{}, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"notifications": []models.Notification{},
		})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(srv.URL, "me", "tok")
	c.StartPolling(ctx, 10*time.Millisecond)

	for i := 0; i < 2; i++ {
		select {
		case <-hits:
		case <-time.After(2 * time.Second):
			t.Fatal("poll never fired")
		}
	}
}
