package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a comment embedded in a blog document
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Text      string             `json:"text" bson:"text"`
	PostedBy  string             `json:"postedBy" bson:"posted_by"` // user ID of the commenter
	Author    *UserCompact       `json:"author,omitempty" bson:"-"` // resolved at read time
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// Blog represents a blog post stored in MongoDB. Likes are stored as a set of
// user IDs on the document itself so membership changes can use atomic
// $addToSet/$pull operators.
type Blog struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Likes       []string           `json:"likes" bson:"likes"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	UserID      string             `json:"userId" bson:"user_id"` // ID of the user who created the blog
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateBlogRequest defines the request body for creating a new blog.
// Either a description or an image must be present.
type CreateBlogRequest struct {
	Description string `json:"description" validate:"omitempty,max=2000"`
	Image       string `json:"image" validate:"omitempty,url"`
	UserID      string `json:"id" validate:"required"`
}

// LikeRequest defines the request body for toggling a like on a blog
type LikeRequest struct {
	UserID string `json:"id" validate:"required"`
}

// AddCommentRequest defines the request body for appending a comment
type AddCommentRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=500"`
	UserID string `json:"id" validate:"required"`
}
