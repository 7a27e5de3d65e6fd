package ports

import (
	"context"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
//
// A missing row is domain.ErrPostNotFound. Create reports an author that no
// longer exists as domain.ErrUserNotFound.
type PostRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Update(ctx context.Context, id string, changes domain.PostChanges) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}
