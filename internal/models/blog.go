package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the denormalized author reference embedded in blogs and
// comments so list views render without a join.
type Author struct {
	ID       primitive.ObjectID `json:"id" bson:"id"`
	Username string             `json:"username" bson:"username"`
}

// Blog represents a blog post stored in MongoDB. Author is set once at
// creation and never changes afterwards.
type Blog struct {
	ID       primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title    string               `json:"title" bson:"title"`
	Body     string               `json:"body" bson:"body"`
	Image    string               `json:"image,omitempty" bson:"image,omitempty"`
	ImageID  string               `json:"-" bson:"imageId,omitempty"`
	Created  time.Time            `json:"created" bson:"created"`
	Comments []primitive.ObjectID `json:"-" bson:"comments"`
	Author   Author               `json:"author" bson:"author"`
}

// BlogDetail is the show-page aggregate: a blog with its comments joined
// by the repository.
type BlogDetail struct {
	Blog     Blog      `json:"blog"`
	Comments []Comment `json:"comments"`
}

// CreateBlogRequest defines the multipart form for creating a blog.
type CreateBlogRequest struct {
	Title string `form:"title" validate:"required,min=1,max=200"`
	Body  string `form:"body" validate:"required,min=1"`
}

// UpdateBlogRequest defines the multipart form for editing a blog.
type UpdateBlogRequest struct {
	Title string `form:"title" validate:"required,min=1,max=200"`
	Body  string `form:"body" validate:"required,min=1"`
}
