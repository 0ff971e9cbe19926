package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shahriar404/newsblog/backend/internal/models"
	"github.com/shahriar404/newsblog/backend/internal/repositories"
)

// BlogHandler handles HTTP requests related to blogs
type BlogHandler struct {
	blogRepository repositories.BlogRepository
	userRepository repositories.UserRepository
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository) *BlogHandler {
	return &BlogHandler{
		blogRepository: blogRepo,
		userRepository: userRepo,
	}
}

// RegisterBlogRoutes registers blog-related routes on the protected group
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.POST("/create", h.CreateBlog)
	g.DELETE("/delete/:id", h.DeleteBlog)
	g.PUT("/likes/:id", h.ToggleLike)
	g.GET("/getallblogs/:id", h.GetAllBlogs)
	g.GET("/getfollowingblog/:id", h.GetFollowingBlogs)
	g.PUT("/addComment/:id", h.AddComment)
}

// RegisterPublicBlogRoutes registers blog routes that do not require auth
func (h *BlogHandler) RegisterPublicBlogRoutes(g *echo.Group) {
	g.GET("/getBlogById/:id", h.GetBlogByID)
}

// CreateBlog creates a new blog post. At least one of description or image
// must be provided.
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Description == "" && req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide at least a description or an image")
	}

	if _, err := h.userRepository.GetUserByID(c.Request().Context(), req.UserID); err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blog := &models.Blog{
		Description: req.Description,
		Image:       req.Image,
		UserID:      req.UserID,
	}

	if err := h.blogRepository.CreateBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Blog created successfully",
		"blog":    blog,
	})
}

// DeleteBlog deletes a blog by ID
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	id := c.Param("id")

	if err := h.blogRepository.DeleteBlog(c.Request().Context(), id); err != nil {
		if err == repositories.ErrBlogNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Blog deleted successfully",
	})
}

// ToggleLike flips the acting user's like on a blog and returns the updated
// like list. Membership changes are atomic set operations in the store, so
// concurrent likes from different users cannot overwrite each other.
func (h *BlogHandler) ToggleLike(c echo.Context) error {
	blogID := c.Param("id")

	var req models.LikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request. Missing required parameters.")
	}

	liked, likes, err := h.blogRepository.ToggleLike(c.Request().Context(), blogID, req.UserID)
	if err != nil {
		if err == repositories.ErrBlogNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := "You disliked the blog post"
	if liked {
		message = "You liked the blog post"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      message,
		"liked":        liked,
		"updatedlikes": likes,
	})
}

// GetAllBlogs returns the user's own blogs plus those of everyone they follow
func (h *BlogHandler) GetAllBlogs(c echo.Context) error {
	id := c.Param("id")

	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blogs, err := h.blogRepository.GetBlogsByUserIDs(c.Request().Context(), append([]string{id}, user.Following...))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "blogs": blogs})
}

// GetFollowingBlogs returns only the blogs of users the given user follows
func (h *BlogHandler) GetFollowingBlogs(c echo.Context) error {
	id := c.Param("id")

	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blogs, err := h.blogRepository.GetBlogsByUserIDs(c.Request().Context(), user.Following)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "blogs": blogs})
}

// AddComment appends a comment to a blog and returns the blog with comment
// authors resolved to display fields
func (h *BlogHandler) AddComment(c echo.Context) error {
	blogID := c.Param("id")

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text and user ID are required")
	}

	if _, err := h.userRepository.GetUserByID(c.Request().Context(), req.UserID); err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid blog or user ID")
	}

	comment := &models.Comment{
		Text:     req.Text,
		PostedBy: req.UserID,
	}

	if err := h.blogRepository.AddComment(c.Request().Context(), blogID, comment); err != nil {
		if err == repositories.ErrBlogNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.resolveCommentAuthors(c, blog)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Comment added successfully",
		"blog":    blog,
	})
}

// GetBlogByID fetches a single blog with comment authors resolved
func (h *BlogHandler) GetBlogByID(c echo.Context) error {
	blogID := c.Param("id")

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), blogID)
	if err != nil {
		if err == repositories.ErrBlogNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid blog ID")
	}
	h.resolveCommentAuthors(c, blog)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "blog": blog})
}

// resolveCommentAuthors fills in display info for each comment's author.
// Lookup failures leave the author unset rather than failing the request.
func (h *BlogHandler) resolveCommentAuthors(c echo.Context, blog *models.Blog) {
	userCache := make(map[string]models.UserCompact)

	for i := range blog.Comments {
		posterID := blog.Comments[i].PostedBy
		if compact, ok := userCache[posterID]; ok {
			blog.Comments[i].Author = &compact
			continue
		}
		user, err := h.userRepository.GetUserByID(c.Request().Context(), posterID)
		if err != nil {
			continue
		}
		compact := user.ToCompact()
		userCache[posterID] = compact
		blog.Comments[i].Author = &compact
	}
}
