package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account stored in MongoDB.
//
// Followers and IsFollowerOf are the two sides of the follow relation and
// must stay symmetric: A follows B means B.Followers contains A and
// A.IsFollowerOf contains B. Both sides are always written together.
type User struct {
	ID                   primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username             string               `json:"username" bson:"username"`
	Email                string               `json:"email" bson:"email"`
	Password             string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	FirstName            string               `json:"first_name,omitempty" bson:"firstName,omitempty"`
	LastName             string               `json:"last_name,omitempty" bson:"lastName,omitempty"`
	IsAdmin              bool                 `json:"is_admin" bson:"isAdmin"`
	Image                string               `json:"image,omitempty" bson:"image,omitempty"`
	ImageID              string               `json:"-" bson:"imageId,omitempty"`
	Followers            []primitive.ObjectID `json:"followers" bson:"followers"`
	IsFollowerOf         []primitive.ObjectID `json:"is_follower_of" bson:"isFollowerOf"`
	Commenters           []primitive.ObjectID `json:"-" bson:"commenters"`
	ResetPasswordToken   string               `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires time.Time            `json:"-" bson:"resetPasswordExpires,omitempty"`
	CreatedAt            time.Time            `json:"created_at" bson:"created_at"`
}

// UserCompact is the denormalized shape embedded in view payloads.
type UserCompact struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Image    string             `json:"image,omitempty"`
}

// ToCompact returns the embeddable projection of a user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Image: u.Image}
}

// IsFollowedBy reports whether followerID is in the user's follower set.
func (u *User) IsFollowedBy(followerID primitive.ObjectID) bool {
	for _, id := range u.Followers {
		if id == followerID {
			return true
		}
	}
	return false
}

// RegisterRequest defines the multipart form for account creation.
type RegisterRequest struct {
	Username  string `form:"username" validate:"required,min=2,max=30"`
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"firstName" validate:"omitempty,max=50"`
	LastName  string `form:"lastName" validate:"omitempty,max=50"`
	Password  string `form:"password" validate:"required,min=8"`
	AdminCode string `form:"adminCode"`
}

// LoginRequest defines the form for session creation.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// UpdateProfileRequest defines the form for profile edits.
type UpdateProfileRequest struct {
	Username  string `form:"username" validate:"omitempty,min=2,max=30"`
	Email     string `form:"email" validate:"omitempty,email"`
	FirstName string `form:"firstName" validate:"omitempty,max=50"`
	LastName  string `form:"lastName" validate:"omitempty,max=50"`
	AdminCode string `form:"adminCode"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm" validate:"required"`
}
