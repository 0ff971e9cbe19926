package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFollowCreatesAndPushesNotification(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	userRepo := newMockUserRepo(alice, bob)
	notifRepo := &mockNotifRepo{}
	pusher := &mockPusher{online: map[string]bool{bob.ID.Hex(): true}}

	h := NewUserHandler(userRepo, notifRepo, pusher, zerolog.Nop())

	body, _ := json.Marshal(map[string]string{"id": alice.ID.Hex()})
	c, rec := newTestContext(http.MethodPost, string(body))
	c.SetParamNames("id")
	c.SetParamValues(bob.ID.Hex())

	require.NoError(t, h.Follow(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, bob.Followers, alice.ID.Hex())
	assert.Contains(t, alice.Following, bob.ID.Hex())

	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, models.NotificationFollow, notifRepo.created[0].Kind)
	assert.Equal(t, alice.ID.Hex(), notifRepo.created[0].FromUser)
	assert.Equal(t, bob.ID.Hex(), notifRepo.created[0].ToUser)

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, bob.ID.Hex(), pusher.sent[0].userID)
	assert.Equal(t, realtime.EventReceiveNotification, pusher.sent[0].event)
}

func TestFollowRejectsSelfAndDuplicate(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	bob.Followers = []string{alice.ID.Hex()}
	alice.Following = []string{bob.ID.Hex()}

	notifRepo := &mockNotifRepo{}
	h := NewUserHandler(newMockUserRepo(alice, bob), notifRepo, &mockPusher{}, zerolog.Nop())

	body, _ := json.Marshal(map[string]string{"id": alice.ID.Hex()})

	c, _ := newTestContext(http.MethodPost, string(body))
	c.SetParamNames("id")
	c.SetParamValues(alice.ID.Hex())
	err := h.Follow(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	c, _ = newTestContext(http.MethodPost, string(body))
	c.SetParamNames("id")
	c.SetParamValues(bob.ID.Hex())
	err = h.Follow(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	assert.Empty(t, notifRepo.created)
}

func TestUnfollowRequiresExistingFollow(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	h := NewUserHandler(newMockUserRepo(alice, bob), &mockNotifRepo{}, &mockPusher{}, zerolog.Nop())

	body, _ := json.Marshal(map[string]string{"id": alice.ID.Hex()})
	c, _ := newTestContext(http.MethodPost, string(body))
	c.SetParamNames("id")
	c.SetParamValues(bob.ID.Hex())

	err := h.Unfollow(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestToggleBookmark(t *testing.T) {
	alice := testUser("alice")
	blogID := primitive.NewObjectID().Hex()
	h := NewUserHandler(newMockUserRepo(alice), &mockNotifRepo{}, &mockPusher{}, zerolog.Nop())

	toggle := func() []string {
		body, _ := json.Marshal(map[string]string{"id": alice.ID.Hex()})
		c, rec := newTestContext(http.MethodPut, string(body))
		c.SetParamNames("id")
		c.SetParamValues(blogID)
		require.NoError(t, h.ToggleBookmark(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			UpdatedBookmarks []string `json:"updatedBookmarks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.UpdatedBookmarks
	}

	assert.Equal(t, []string{blogID}, toggle())
	assert.Empty(t, toggle())
}

func TestUpdateProfilePartialFields(t *testing.T) {
	alice := testUser("alice")
	alice.About = "old about"
	h := NewUserHandler(newMockUserRepo(alice), &mockNotifRepo{}, &mockPusher{}, zerolog.Nop())

	body, _ := json.Marshal(models.UpdateProfileRequest{Username: "alice2"})
	c, rec := newTestContext(http.MethodPut, string(body))
	c.SetParamNames("id")
	c.SetParamValues(alice.ID.Hex())

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice2", alice.Username)
	assert.Equal(t, "old about", alice.About)
}
