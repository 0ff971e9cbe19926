package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shahriar404/newsblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound is returned when a user lookup matches no document
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	GetOtherUsers(ctx context.Context, excludeID string) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	AddBookmark(ctx context.Context, userID, blogID string) error
	RemoveBookmark(ctx context.Context, userID, blogID string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	if user.Bookmarks == nil {
		user.Bookmarks = []string{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"firebase_uid": uid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetOtherUsers retrieves every user except the one with excludeID
func (r *MongoUserRepository) GetOtherUsers(ctx context.Context, excludeID string) ([]models.User, error) {
	objID, err := primitive.ObjectIDFromHex(excludeID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$ne": objID}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates the mutable profile fields of a user
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":         user.Name,
			"username":     user.Username,
			"email":        user.Email,
			"about":        user.About,
			"profile_pic":  user.ProfilePic,
			"firebase_uid": user.FirebaseUID,
			"updated_at":   user.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Follow adds followerID to target's followers and targetID to the follower's
// following list. Both writes use $addToSet so repeated follows are idempotent
// and concurrent follows never lose entries.
func (r *MongoUserRepository) Follow(ctx context.Context, followerID, targetID string) error {
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	followerObjID, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": targetObjID}, bson.M{"$addToSet": bson.M{"followers": followerID}}); err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": followerObjID}, bson.M{"$addToSet": bson.M{"following": targetID}})
	return err
}

// Unfollow removes the follower/following pair with atomic $pull updates
func (r *MongoUserRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	followerObjID, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": targetObjID}, bson.M{"$pull": bson.M{"followers": followerID}}); err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": followerObjID}, bson.M{"$pull": bson.M{"following": targetID}})
	return err
}

// AddBookmark adds a blog to the user's bookmark set
func (r *MongoUserRepository) AddBookmark(ctx context.Context, userID, blogID string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$addToSet": bson.M{"bookmarks": blogID}})
	return err
}

// RemoveBookmark removes a blog from the user's bookmark set
func (r *MongoUserRepository) RemoveBookmark(ctx context.Context, userID, blogID string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$pull": bson.M{"bookmarks": blogID}})
	return err
}
