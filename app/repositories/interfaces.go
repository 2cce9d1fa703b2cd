package repositories

import (
	"context"
	"errors"

	"myblog/app/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("record already exists")
)

// ListOptions filters and pages a post listing. A zero Limit means no limit.
type ListOptions struct {
	AuthorID string
	Limit    int
	Offset   int
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID returns the post with its author profile and comment count joined.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// GetRawByID returns the post with only the author identity populated.
	GetRawByID(ctx context.Context, id string) (*models.Post, error)
	// List returns posts most recent first, each with its author profile joined.
	List(ctx context.Context, opts ListOptions) ([]*models.Post, error)
	Update(ctx context.Context, id, title, content string) error
	IncPV(ctx context.Context, id string) error
	// Delete is a no-op when the post does not exist.
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns comments oldest first, each with its author profile joined.
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	// Delete is a no-op when the comment does not exist.
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
}
