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

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)

	// AddFollower and RemoveFollower maintain both sides of the symmetric
	// follow relation in one call each.
	AddFollower(ctx context.Context, targetID, followerID primitive.ObjectID) error
	RemoveFollower(ctx context.Context, targetID, followerID primitive.ObjectID) error
	AddCommenter(ctx context.Context, userID, commenterID primitive.ObjectID) error

	SetResetToken(ctx context.Context, email, token string, expires time.Time) (*models.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// MongoUserRepository implements UserRepository for MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository and ensures the
// unique indexes on username and email.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	coll := db.Collection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &MongoUserRepository{collection: coll}
}

// CreateUser inserts a new user. Duplicate username or email surfaces as
// ErrDuplicateKey.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.IsFollowerOf == nil {
		user.IsFollowerOf = []primitive.ObjectID{}
	}
	if user.Commenters == nil {
		user.Commenters = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return wrapMongoErr(err)
}

// GetUserByID retrieves a user by ID.
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact username.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by exact email.
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

// UpdateUser replaces the stored user document.
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchUsers matches usernames against the query as a case-insensitive
// literal substring.
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"username": SearchPattern(query)})
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

// GetUsersByIDs retrieves the users for a list of ids, e.g. a follower set.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
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

// AddFollower records followerID on target.followers and targetID on
// follower.isFollowerOf. $addToSet keeps both sides duplicate-free.
func (r *MongoUserRepository) AddFollower(ctx context.Context, targetID, followerID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}})
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"isFollowerOf": targetID}})
	return wrapMongoErr(err)
}

// RemoveFollower pulls both sides of the relation. Unfollowing someone who
// was never followed is a no-op, not an error.
func (r *MongoUserRepository) RemoveFollower(ctx context.Context, targetID, followerID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}})
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"isFollowerOf": targetID}})
	return wrapMongoErr(err)
}

// AddCommenter appends a commenter reference to the blog author's record.
func (r *MongoUserRepository) AddCommenter(ctx context.Context, userID, commenterID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$push": bson.M{"commenters": commenterID}})
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores a reset token and its expiry on the user with the
// given email and returns the user, or ErrNotFound for an unknown email.
func (r *MongoUserRepository) SetResetToken(ctx context.Context, email, token string, expires time.Time) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"resetPasswordToken": token, "resetPasswordExpires": expires}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

// GetUserByResetToken retrieves the user holding an unexpired reset token.
// A missing or expired token is ErrNotFound.
func (r *MongoUserRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	return &user, nil
}

// ResetPassword replaces the password hash and clears the token and expiry
// in a single document update.
func (r *MongoUserRepository) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
	if err != nil {
		return wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
