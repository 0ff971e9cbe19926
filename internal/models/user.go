package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user stored in MongoDB
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Username    string             `json:"username" bson:"username"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"` // Store hashed password, ignore for JSON serialization
	Followers   []string           `json:"followers" bson:"followers"`
	Following   []string           `json:"following" bson:"following"`
	Bookmarks   []string           `json:"bookmarks" bson:"bookmarks"`
	ProfilePic  string             `json:"profilePic,omitempty" bson:"profile_pic,omitempty"`
	About       string             `json:"about,omitempty" bson:"about,omitempty"`
	FirebaseUID string             `json:"firebase_uid,omitempty" bson:"firebase_uid,omitempty"` // Link to Firebase User UID
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the reduced user shape embedded in enriched responses
type UserCompact struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// ToCompact converts a User into its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID.Hex(),
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	Username   string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	About      string `json:"about,omitempty" validate:"omitempty,max=500"`
	ProfilePic string `json:"profilePic,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
