package liveclient

import (
	"sync"

	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/realtime"
)

// mergeList is an identity-keyed ordered collection. Inserting an entity
// whose key is already present overwrites it in place (last write wins);
// new keys append. The same entity arriving via live push and via a fetch
// therefore yields exactly one visible copy.
type mergeList[T any] struct {
	key   func(T) string
	order []string
	items map[string]T
}

func newMergeList[T any](key func(T) string) *mergeList[T] {
	return &mergeList[T]{
		key:   key,
		items: make(map[string]T),
	}
}

func (l *mergeList[T]) Upsert(v T) {
	k := l.key(v)
	if k == "" {
		return
	}
	if _, exists := l.items[k]; !exists {
		l.order = append(l.order, k)
	}
	l.items[k] = v
}

func (l *mergeList[T]) Values() []T {
	out := make([]T, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, l.items[k])
	}
	return out
}

func (l *mergeList[T]) Len() int { return len(l.order) }

// BlogState is the client's view of one blog's live-updatable fields
type BlogState struct {
	OwnerID    string
	Liked      bool
	LikesCount int
	LikedUsers []string
	comments   *mergeList[models.Comment]
}

// Comments returns the blog's comments in arrival order, deduplicated by id
func (b *BlogState) Comments() []models.Comment {
	return b.comments.Values()
}

// State merges entities obtained by request/response fetch with the same
// kinds of entities pushed over the live channel into one consistent view.
// All methods are safe for concurrent use.
type State struct {
	mu            sync.Mutex
	userID        string
	notifications *mergeList[models.Notification]
	blogs         map[string]*BlogState
	bookmarks     map[string]bool
}

// NewState creates a State reconciling views for the given local user
func NewState(userID string) *State {
	return &State{
		userID: userID,
		notifications: newMergeList(func(n models.Notification) string {
			return n.ID.Hex()
		}),
		blogs:     make(map[string]*BlogState),
		bookmarks: make(map[string]bool),
	}
}

// ApplyNotification merges one pushed notification into the view
func (s *State) ApplyNotification(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications.Upsert(n)
}

// ApplyNotifications merges a fetched batch into the view
func (s *State) ApplyNotifications(batch []models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range batch {
		s.notifications.Upsert(n)
	}
}

// Notifications returns the merged notification view
func (s *State) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications.Values()
}

// TrackBlog ensures a blog is present in the view, seeding its like state.
// An already tracked blog keeps its current state.
func (s *State) TrackBlog(blog models.Blog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := blog.ID.Hex()
	if _, ok := s.blogs[id]; ok {
		return
	}
	b := s.newBlogState(blog.UserID)
	b.LikedUsers = append([]string{}, blog.Likes...)
	b.LikesCount = len(blog.Likes)
	b.Liked = contains(blog.Likes, s.userID)
	for _, c := range blog.Comments {
		b.comments.Upsert(c)
	}
	s.blogs[id] = b
}

// Blog returns the tracked state for a blog, or nil when untracked
func (s *State) Blog(blogID string) *BlogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blogs[blogID]
}

// ApplyLikeUpdate replaces a tracked blog's like state wholesale. The liker
// list replaces any previous one, which makes duplicate delivery harmless.
func (s *State) ApplyLikeUpdate(p realtime.LikeUpdatePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[p.BlogID]
	if !ok {
		b = s.newBlogState(p.BlogOwnerID)
		s.blogs[p.BlogID] = b
	}
	if p.LikedUsers != nil {
		b.LikedUsers = p.LikedUsers
		b.LikesCount = len(p.LikedUsers)
		b.Liked = contains(p.LikedUsers, s.userID)
		return
	}
	b.LikesCount = p.LikesCount
	if p.UserID == s.userID {
		b.Liked = p.Liked
	}
}

// ApplyComment merges one comment into a blog's view, deduplicating by the
// comment's own id
func (s *State) ApplyComment(blogID string, c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[blogID]
	if !ok {
		b = s.newBlogState("")
		s.blogs[blogID] = b
	}
	b.comments.Upsert(c)
}

// setLike records an optimistic or confirmed like state for a blog and
// returns the previous state so a failed request can revert.
func (s *State) setLike(blogID, ownerID string, liked bool) (prevLiked bool, prevCount int, prevUsers []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[blogID]
	if !ok {
		b = s.newBlogState(ownerID)
		s.blogs[blogID] = b
	}
	prevLiked, prevCount, prevUsers = b.Liked, b.LikesCount, b.LikedUsers
	b.Liked = liked
	if liked {
		// The user may already appear in a fetched liker list; appending
		// again would show them twice until the server confirm replaces it
		if !contains(prevUsers, s.userID) {
			b.LikesCount = prevCount + 1
			b.LikedUsers = append(append([]string{}, prevUsers...), s.userID)
		}
	} else {
		if prevCount > 0 {
			b.LikesCount = prevCount - 1
		}
		b.LikedUsers = removeString(prevUsers, s.userID)
	}
	return prevLiked, prevCount, prevUsers
}

// restoreLike reverts a blog's like state to a snapshot taken by setLike
func (s *State) restoreLike(blogID string, liked bool, count int, users []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[blogID]
	if !ok {
		return
	}
	b.Liked = liked
	b.LikesCount = count
	b.LikedUsers = users
}

// confirmLike replaces the optimistic like state with the server's answer
func (s *State) confirmLike(blogID string, liked bool, users []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[blogID]
	if !ok {
		return
	}
	b.Liked = liked
	b.LikedUsers = users
	b.LikesCount = len(users)
}

// Bookmarked reports whether a blog is in the local bookmark view
func (s *State) Bookmarked(blogID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks[blogID]
}

func (s *State) setBookmark(blogID string, on bool) (prev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev = s.bookmarks[blogID]
	s.bookmarks[blogID] = on
	return prev
}

func (s *State) newBlogState(ownerID string) *BlogState {
	return &BlogState{
		OwnerID: ownerID,
		comments: newMergeList(func(c models.Comment) string {
			return c.ID.Hex()
		}),
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func removeString(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
