package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLikeRoundTrip(t *testing.T) {
	author := testUser("author")
	liker := testUser("liker")
	blog := &models.Blog{ID: primitive.NewObjectID(), Description: "a post", UserID: author.ID.Hex(), Likes: []string{}}

	h := NewBlogHandler(newMockBlogRepo(blog), newMockUserRepo(author, liker))

	like := func() (bool, []string) {
		body, _ := json.Marshal(models.LikeRequest{UserID: liker.ID.Hex()})
		c, rec := newTestContext(http.MethodPut, string(body))
		c.SetParamNames("id")
		c.SetParamValues(blog.ID.Hex())
		require.NoError(t, h.ToggleLike(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Liked        bool     `json:"liked"`
			UpdatedLikes []string `json:"updatedlikes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Liked, resp.UpdatedLikes
	}

	liked, likes := like()
	assert.True(t, liked)
	assert.Equal(t, []string{liker.ID.Hex()}, likes)

	liked, likes = like()
	assert.False(t, liked)
	assert.Empty(t, likes)
}

func TestToggleLikeUnknownBlog(t *testing.T) {
	liker := testUser("liker")
	h := NewBlogHandler(newMockBlogRepo(), newMockUserRepo(liker))

	body, _ := json.Marshal(models.LikeRequest{UserID: liker.ID.Hex()})
	c, _ := newTestContext(http.MethodPut, string(body))
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	err := h.ToggleLike(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateBlogRequiresContent(t *testing.T) {
	author := testUser("author")
	h := NewBlogHandler(newMockBlogRepo(), newMockUserRepo(author))

	body, _ := json.Marshal(models.CreateBlogRequest{UserID: author.ID.Hex()})
	c, _ := newTestContext(http.MethodPost, string(body))

	err := h.CreateBlog(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBlogSuccess(t *testing.T) {
	author := testUser("author")
	blogRepo := newMockBlogRepo()
	h := NewBlogHandler(blogRepo, newMockUserRepo(author))

	body, _ := json.Marshal(models.CreateBlogRequest{Description: "first post", UserID: author.ID.Hex()})
	c, rec := newTestContext(http.MethodPost, string(body))

	require.NoError(t, h.CreateBlog(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, blogRepo.blogs, 1)
}

func TestAddCommentResolvesAuthors(t *testing.T) {
	author := testUser("author")
	commenter := testUser("commenter")
	blog := &models.Blog{ID: primitive.NewObjectID(), Description: "a post", UserID: author.ID.Hex()}

	h := NewBlogHandler(newMockBlogRepo(blog), newMockUserRepo(author, commenter))

	body, _ := json.Marshal(models.AddCommentRequest{Text: "nice one", UserID: commenter.ID.Hex()})
	c, rec := newTestContext(http.MethodPut, string(body))
	c.SetParamNames("id")
	c.SetParamValues(blog.ID.Hex())

	require.NoError(t, h.AddComment(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Blog models.Blog `json:"blog"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Blog.Comments, 1)
	got := resp.Blog.Comments[0]
	assert.Equal(t, "nice one", got.Text)
	assert.Equal(t, commenter.ID.Hex(), got.PostedBy)
	require.NotNil(t, got.Author)
	assert.Equal(t, "commenter", got.Author.Username)
}

func TestAddCommentUnknownUser(t *testing.T) {
	author := testUser("author")
	blog := &models.Blog{ID: primitive.NewObjectID(), Description: "a post", UserID: author.ID.Hex()}
	blogRepo := newMockBlogRepo(blog)
	h := NewBlogHandler(blogRepo, newMockUserRepo(author))

	body, _ := json.Marshal(models.AddCommentRequest{Text: "hello", UserID: primitive.NewObjectID().Hex()})
	c, _ := newTestContext(http.MethodPut, string(body))
	c.SetParamNames("id")
	c.SetParamValues(blog.ID.Hex())

	err := h.AddComment(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Empty(t, blogRepo.blogs[blog.ID.Hex()].Comments)
}
