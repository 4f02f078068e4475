package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a blog. The author is taken from the
// session user at creation time.
type Comment struct {
	ID      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Body    string             `json:"body" bson:"body"`
	Author  Author             `json:"author" bson:"author"`
	Created time.Time          `json:"created" bson:"created"`
}

// CreateCommentRequest defines the form for creating a comment.
type CreateCommentRequest struct {
	Body string `form:"body" validate:"required,min=1,max=2000"`
}

// UpdateCommentRequest defines the form for editing a comment.
type UpdateCommentRequest struct {
	Body string `form:"body" validate:"required,min=1,max=2000"`
}
