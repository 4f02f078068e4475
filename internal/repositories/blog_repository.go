package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anvesh42/foodblog/internal/models"
)

// BlogRepository defines the interface for blog data operations.
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	GetAllBlogs(ctx context.Context) ([]models.Blog, error)
	SearchBlogs(ctx context.Context, query string) ([]models.Blog, error)
	GetBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Blog, error)
	GetBlogsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Blog, error)
	UpdateBlog(ctx context.Context, blog *models.Blog) error
	DeleteBlog(ctx context.Context, id primitive.ObjectID) error
	AddComment(ctx context.Context, blogID, commentID primitive.ObjectID) error
	RemoveComment(ctx context.Context, blogID, commentID primitive.ObjectID) error
}

// MongoBlogRepository implements BlogRepository for MongoDB.
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository.
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// CreateBlog inserts a new blog post.
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.Created = time.Now()
	if blog.Comments == nil {
		blog.Comments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, blog)
	return wrapMongoErr(err)
}

// GetBlogByID retrieves a blog by ID.
func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &blog, nil
}

func (r *MongoBlogRepository) findSorted(ctx context.Context, filter interface{}) ([]models.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	blogs := []models.Blog{}
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// GetAllBlogs retrieves every blog, newest first.
func (r *MongoBlogRepository) GetAllBlogs(ctx context.Context) ([]models.Blog, error) {
	return r.findSorted(ctx, bson.D{})
}

// SearchBlogs matches titles against the query as a case-insensitive
// literal substring, newest first.
func (r *MongoBlogRepository) SearchBlogs(ctx context.Context, query string) ([]models.Blog, error) {
	return r.findSorted(ctx, bson.M{"title": SearchPattern(query)})
}

// GetBlogsByAuthor retrieves one author's blogs, newest first.
func (r *MongoBlogRepository) GetBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Blog, error) {
	return r.findSorted(ctx, bson.M{"author.id": authorID})
}

// GetBlogsByAuthors retrieves the blogs of every author in the set in one
// query, sorted newest first by the store. This is the feed read path.
func (r *MongoBlogRepository) GetBlogsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Blog, error) {
	if len(authorIDs) == 0 {
		return []models.Blog{}, nil
	}
	return r.findSorted(ctx, bson.M{"author.id": bson.M{"$in": authorIDs}})
}

// UpdateBlog updates the mutable fields of a blog. The author reference is
// immutable after creation and is deliberately not part of the update.
func (r *MongoBlogRepository) UpdateBlog(ctx context.Context, blog *models.Blog) error {
	update := bson.M{"$set": bson.M{
		"title":   blog.Title,
		"body":    blog.Body,
		"image":   blog.Image,
		"imageId": blog.ImageID,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": blog.ID}, update)
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlog deletes a blog by ID.
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddComment appends a comment id to the blog's comment list. Concurrent
// appends on the same blog resolve at the storage layer; both survive in
// storage order.
func (r *MongoBlogRepository) AddComment(ctx context.Context, blogID, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": blogID},
		bson.M{"$push": bson.M{"comments": commentID}})
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveComment pulls a comment id from the blog's comment list.
func (r *MongoBlogRepository) RemoveComment(ctx context.Context, blogID, commentID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": blogID},
		bson.M{"$pull": bson.M{"comments": commentID}})
	return wrapMongoErr(err)
}
