package ports

import (
	"context"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// CreatePostInput carries a validated PostCreate payload.
type CreatePostInput struct {
	Title    string
	Content  string
	AuthorID string
}

// UpdatePostInput carries a validated PostUpdate payload.
// AuthorID is accepted only when it matches the current owner.
type UpdatePostInput struct {
	Title    *string
	Content  *string
	AuthorID *string
}

// PostService defines use-case operations for posts.
type PostService interface {
	ListPosts(ctx context.Context, p domain.Principal, filter domain.PostFilter) ([]*domain.Post, error)
	GetPost(ctx context.Context, p domain.Principal, id string) (*domain.Post, error)
	CreatePost(ctx context.Context, p domain.Principal, input CreatePostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, p domain.Principal, id string, input UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, p domain.Principal, id string) error
}
