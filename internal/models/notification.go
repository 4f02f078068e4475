package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The three notification kinds live in separate collections and carry
// enough denormalized data (acting username, target id, blog title for
// comments) to render without a join. Read flags start false and are
// flipped true exactly once when the notification is viewed.

// PostNotification tells a follower that someone they follow posted.
type PostNotification struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient  primitive.ObjectID `json:"-" bson:"recipient"`
	Username   string             `json:"username" bson:"username"`
	BlogID     primitive.ObjectID `json:"blog_id" bson:"blogId"`
	IsBlogRead bool               `json:"is_blog_read" bson:"isBlogRead"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// CommentNotification tells a blog author that someone commented.
type CommentNotification struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient     primitive.ObjectID `json:"-" bson:"recipient"`
	Username      string             `json:"username" bson:"username"`
	CommentID     primitive.ObjectID `json:"comment_id" bson:"commentId"`
	BlogID        primitive.ObjectID `json:"blog_id" bson:"blogId"`
	BlogTitle     string             `json:"blog_title" bson:"blogTitle"`
	IsCommentRead bool               `json:"is_comment_read" bson:"isCommentRead"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// FollowerNotification tells a user that someone followed them.
type FollowerNotification struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient      primitive.ObjectID `json:"-" bson:"recipient"`
	Username       string             `json:"username" bson:"username"`
	FollowerID     primitive.ObjectID `json:"follower_id" bson:"followerId"`
	IsFollowerSeen bool               `json:"is_follower_seen" bson:"isFollowerSeen"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
