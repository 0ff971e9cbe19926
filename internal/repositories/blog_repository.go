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

// ErrBlogNotFound is returned when a blog lookup matches no document
var ErrBlogNotFound = errors.New("blog not found")

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	GetBlogsByUserIDs(ctx context.Context, userIDs []string) ([]models.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, blogID, userID string) (liked bool, likes []string, err error)
	AddComment(ctx context.Context, blogID string, comment *models.Comment) error
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// CreateBlog creates a new blog in MongoDB
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	if blog.Likes == nil {
		blog.Likes = []string{}
	}
	if blog.Comments == nil {
		blog.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, blog)
	return err
}

// GetBlogByID retrieves a blog by ID from MongoDB
func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", err)
	}

	var blog models.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetBlogsByUserIDs retrieves blogs authored by any of the given users,
// newest first
func (r *MongoBlogRepository) GetBlogsByUserIDs(ctx context.Context, userIDs []string) ([]models.Blog, error) {
	if len(userIDs) == 0 {
		return []models.Blog{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// DeleteBlog deletes a blog by ID from MongoDB
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid blog ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// ToggleLike flips userID's membership in the blog's like set. Both directions
// are single atomic update operators ($addToSet, then $pull only when the add
// matched an existing member), so concurrent toggles from different users
// cannot lose each other's writes.
func (r *MongoBlogRepository) ToggleLike(ctx context.Context, blogID, userID string) (bool, []string, error) {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return false, nil, fmt.Errorf("invalid blog ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return false, nil, err
	}
	if res.MatchedCount == 0 {
		return false, nil, ErrBlogNotFound
	}

	liked := res.ModifiedCount == 1
	if !liked {
		// Already a member, so this toggle is a removal
		if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$pull": bson.M{"likes": userID}}); err != nil {
			return false, nil, err
		}
	}

	var blog models.Blog
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&blog); err != nil {
		return liked, nil, err
	}
	return liked, blog.Likes, nil
}

// AddComment appends a comment to the blog's embedded comment list
func (r *MongoBlogRepository) AddComment(ctx context.Context, blogID string, comment *models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return fmt.Errorf("invalid blog ID format: %w", err)
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": comment.CreatedAt},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBlogNotFound
	}
	return nil
}
