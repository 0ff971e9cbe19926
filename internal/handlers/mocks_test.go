package handlers

import (
	"context"
	"time"

	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockUserRepo implements repositories.UserRepository for testing
type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		m.users[u.ID.Hex()] = u
	}
	return m
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID.Hex()] = user
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *mockUserRepo) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	for _, u := range m.users {
		if u.FirebaseUID == uid {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *mockUserRepo) GetOtherUsers(_ context.Context, excludeID string) ([]models.User, error) {
	var out []models.User
	for id, u := range m.users {
		if id != excludeID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID.Hex()]; !ok {
		return repositories.ErrUserNotFound
	}
	m.users[user.ID.Hex()] = user
	return nil
}

func (m *mockUserRepo) Follow(_ context.Context, followerID, targetID string) error {
	target := m.users[targetID]
	follower := m.users[followerID]
	target.Followers = append(target.Followers, followerID)
	follower.Following = append(follower.Following, targetID)
	return nil
}

func (m *mockUserRepo) Unfollow(_ context.Context, followerID, targetID string) error {
	target := m.users[targetID]
	follower := m.users[followerID]
	target.Followers = removeIDs(target.Followers, followerID)
	follower.Following = removeIDs(follower.Following, targetID)
	return nil
}

func (m *mockUserRepo) AddBookmark(_ context.Context, userID, blogID string) error {
	u := m.users[userID]
	u.Bookmarks = append(u.Bookmarks, blogID)
	return nil
}

func (m *mockUserRepo) RemoveBookmark(_ context.Context, userID, blogID string) error {
	u := m.users[userID]
	u.Bookmarks = removeIDs(u.Bookmarks, blogID)
	return nil
}

func removeIDs(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

// mockBlogRepo implements repositories.BlogRepository for testing
type mockBlogRepo struct {
	blogs map[string]*models.Blog
}

func newMockBlogRepo(blogs ...*models.Blog) *mockBlogRepo {
	m := &mockBlogRepo{blogs: make(map[string]*models.Blog)}
	for _, b := range blogs {
		m.blogs[b.ID.Hex()] = b
	}
	return m
}

func (m *mockBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	if blog.Likes == nil {
		blog.Likes = []string{}
	}
	m.blogs[blog.ID.Hex()] = blog
	return nil
}

func (m *mockBlogRepo) GetBlogByID(_ context.Context, id string) (*models.Blog, error) {
	b, ok := m.blogs[id]
	if !ok {
		return nil, repositories.ErrBlogNotFound
	}
	return b, nil
}

func (m *mockBlogRepo) GetBlogsByUserIDs(_ context.Context, userIDs []string) ([]models.Blog, error) {
	var out []models.Blog
	for _, b := range m.blogs {
		for _, id := range userIDs {
			if b.UserID == id {
				out = append(out, *b)
				break
			}
		}
	}
	return out, nil
}

func (m *mockBlogRepo) DeleteBlog(_ context.Context, id string) error {
	if _, ok := m.blogs[id]; !ok {
		return repositories.ErrBlogNotFound
	}
	delete(m.blogs, id)
	return nil
}

func (m *mockBlogRepo) ToggleLike(_ context.Context, blogID, userID string) (bool, []string, error) {
	b, ok := m.blogs[blogID]
	if !ok {
		return false, nil, repositories.ErrBlogNotFound
	}
	for _, id := range b.Likes {
		if id == userID {
			b.Likes = removeIDs(b.Likes, userID)
			return false, b.Likes, nil
		}
	}
	b.Likes = append(b.Likes, userID)
	return true, b.Likes, nil
}

func (m *mockBlogRepo) AddComment(_ context.Context, blogID string, comment *models.Comment) error {
	b, ok := m.blogs[blogID]
	if !ok {
		return repositories.ErrBlogNotFound
	}
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	b.Comments = append(b.Comments, *comment)
	return nil
}

// mockNotifRepo implements repositories.NotificationRepository for testing
type mockNotifRepo struct {
	created []*models.Notification
	listErr error
}

func (m *mockNotifRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotifRepo) ListForUser(_ context.Context, userID string, since time.Time) ([]models.Notification, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Notification
	for _, n := range m.created {
		if n.ToUser == userID && !n.CreatedAt.Before(since) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *mockNotifRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []*models.Notification
	var deleted int64
	for _, n := range m.created {
		if n.CreatedAt.Before(cutoff) {
			deleted++
		} else {
			kept = append(kept, n)
		}
	}
	m.created = kept
	return deleted, nil
}

// mockPusher records room sends
type mockPusher struct {
	online map[string]bool
	sent   []pushedEvent
}

type pushedEvent struct {
	userID string
	event  string
	data   interface{}
}

func (m *mockPusher) SendToUser(userID, event string, data interface{}) bool {
	m.sent = append(m.sent, pushedEvent{userID: userID, event: event, data: data})
	return m.online[userID]
}
