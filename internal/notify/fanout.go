package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/monitoring"
	"github.com/anvesh42/foodblog/internal/repositories"
)

// Fanout creates notification records for the actions that produce them.
// All fan-out runs synchronously inside the triggering request, and the
// per-follower loop is sequential so notification ordering is
// deterministic.
type Fanout struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

// NewFanout creates a Fanout service.
func NewFanout(users repositories.UserRepository, notifications repositories.NotificationRepository) *Fanout {
	return &Fanout{users: users, notifications: notifications}
}

// BlogPosted creates one post-notification per follower of the author.
func (f *Fanout) BlogPosted(ctx context.Context, author *models.User, blog *models.Blog) error {
	for _, followerID := range author.Followers {
		n := &models.PostNotification{
			Recipient: followerID,
			Username:  author.Username,
			BlogID:    blog.ID,
		}
		if err := f.notifications.CreatePostNotification(ctx, n); err != nil {
			return fmt.Errorf("post notification for follower %s: %w", followerID.Hex(), err)
		}
		monitoring.NotificationsFanned.WithLabelValues("post").Inc()
	}
	if len(author.Followers) > 0 {
		logrus.WithFields(logrus.Fields{
			"blog":      blog.ID.Hex(),
			"followers": len(author.Followers),
		}).Info("fanned out post notifications")
	}
	return nil
}

// CommentAdded notifies the blog author about a new comment, unless the
// commenter is the author.
func (f *Fanout) CommentAdded(ctx context.Context, commenter *models.User, blog *models.Blog, comment *models.Comment) error {
	if commenter.Username == blog.Author.Username {
		return nil
	}
	n := &models.CommentNotification{
		Recipient: blog.Author.ID,
		Username:  commenter.Username,
		CommentID: comment.ID,
		BlogID:    blog.ID,
		BlogTitle: blog.Title,
	}
	if err := f.notifications.CreateCommentNotification(ctx, n); err != nil {
		return fmt.Errorf("comment notification: %w", err)
	}
	monitoring.NotificationsFanned.WithLabelValues("comment").Inc()
	return nil
}

// Followed notifies the followee about a new follower, unless the actor
// followed themselves.
func (f *Fanout) Followed(ctx context.Context, follower, target *models.User) error {
	if follower.Username == target.Username {
		return nil
	}
	n := &models.FollowerNotification{
		Recipient:  target.ID,
		Username:   follower.Username,
		FollowerID: follower.ID,
	}
	if err := f.notifications.CreateFollowerNotification(ctx, n); err != nil {
		return fmt.Errorf("follower notification: %w", err)
	}
	monitoring.NotificationsFanned.WithLabelValues("follower").Inc()
	return nil
}
