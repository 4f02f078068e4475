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

// NotificationRepository defines the interface for the three notification
// kinds. Reads and read-flag updates are separate operations: the list
// endpoint fetches first, then marks, so the mutate-on-read behavior stays
// an explicit two-step in the handler.
type NotificationRepository interface {
	CreatePostNotification(ctx context.Context, n *models.PostNotification) error
	CreateCommentNotification(ctx context.Context, n *models.CommentNotification) error
	CreateFollowerNotification(ctx context.Context, n *models.FollowerNotification) error

	GetPostNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.PostNotification, error)
	GetCommentNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.CommentNotification, error)
	GetFollowerNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.FollowerNotification, error)

	GetPostNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.PostNotification, error)
	GetCommentNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.CommentNotification, error)
	GetFollowerNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.FollowerNotification, error)

	MarkPostNotificationRead(ctx context.Context, id primitive.ObjectID) error
	MarkCommentNotificationRead(ctx context.Context, id primitive.ObjectID) error
	MarkFollowerNotificationSeen(ctx context.Context, id primitive.ObjectID) error

	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error

	DeletePostNotificationsByBlog(ctx context.Context, blogID primitive.ObjectID) error
	DeleteCommentNotificationsByComment(ctx context.Context, commentID primitive.ObjectID) error
}

// MongoNotificationRepository implements NotificationRepository over the
// three notification collections.
type MongoNotificationRepository struct {
	posts     *mongo.Collection
	comments  *mongo.Collection
	followers *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository.
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{
		posts:     db.Collection("postNotifications"),
		comments:  db.Collection("commentNotifications"),
		followers: db.Collection("followerNotifications"),
	}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
}

func (r *MongoNotificationRepository) CreatePostNotification(ctx context.Context, n *models.PostNotification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	_, err := r.posts.InsertOne(ctx, n)
	return wrapMongoErr(err)
}

func (r *MongoNotificationRepository) CreateCommentNotification(ctx context.Context, n *models.CommentNotification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	_, err := r.comments.InsertOne(ctx, n)
	return wrapMongoErr(err)
}

func (r *MongoNotificationRepository) CreateFollowerNotification(ctx context.Context, n *models.FollowerNotification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	_, err := r.followers.InsertOne(ctx, n)
	return wrapMongoErr(err)
}

func (r *MongoNotificationRepository) GetPostNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.PostNotification, error) {
	cursor, err := r.posts.Find(ctx, bson.M{"recipient": recipient}, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.PostNotification{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoNotificationRepository) GetCommentNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.CommentNotification, error) {
	cursor, err := r.comments.Find(ctx, bson.M{"recipient": recipient}, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.CommentNotification{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoNotificationRepository) GetFollowerNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.FollowerNotification, error) {
	cursor, err := r.followers.Find(ctx, bson.M{"recipient": recipient}, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.FollowerNotification{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoNotificationRepository) GetPostNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.PostNotification, error) {
	var n models.PostNotification
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &n, nil
}

func (r *MongoNotificationRepository) GetCommentNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.CommentNotification, error) {
	var n models.CommentNotification
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &n, nil
}

func (r *MongoNotificationRepository) GetFollowerNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.FollowerNotification, error) {
	var n models.FollowerNotification
	if err := r.followers.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, wrapMongoErr(err)
	}
	return &n, nil
}

func markOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, field string) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{field: true}})
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNotificationRepository) MarkPostNotificationRead(ctx context.Context, id primitive.ObjectID) error {
	return markOne(ctx, r.posts, id, "isBlogRead")
}

func (r *MongoNotificationRepository) MarkCommentNotificationRead(ctx context.Context, id primitive.ObjectID) error {
	return markOne(ctx, r.comments, id, "isCommentRead")
}

func (r *MongoNotificationRepository) MarkFollowerNotificationSeen(ctx context.Context, id primitive.ObjectID) error {
	return markOne(ctx, r.followers, id, "isFollowerSeen")
}

// MarkAllRead flips the read flag on every notification of every kind for
// the recipient.
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	filter := bson.M{"recipient": recipient}
	if _, err := r.posts.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isBlogRead": true}}); err != nil {
		return wrapMongoErr(err)
	}
	if _, err := r.comments.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isCommentRead": true}}); err != nil {
		return wrapMongoErr(err)
	}
	if _, err := r.followers.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isFollowerSeen": true}}); err != nil {
		return wrapMongoErr(err)
	}
	return nil
}

// DeletePostNotificationsByBlog removes the post-notifications that
// reference a deleted blog. Comment and follower notifications are left
// alone.
func (r *MongoNotificationRepository) DeletePostNotificationsByBlog(ctx context.Context, blogID primitive.ObjectID) error {
	_, err := r.posts.DeleteMany(ctx, bson.M{"blogId": blogID})
	return wrapMongoErr(err)
}

// DeleteCommentNotificationsByComment removes the comment-notifications
// that reference a deleted comment.
func (r *MongoNotificationRepository) DeleteCommentNotificationsByComment(ctx context.Context, commentID primitive.ObjectID) error {
	_, err := r.comments.DeleteMany(ctx, bson.M{"commentId": commentID})
	return wrapMongoErr(err)
}
