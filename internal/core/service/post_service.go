package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

type PostService struct {
	posts    ports.PostRepository
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, notifier ports.Notifier, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, notifier: notifier, log: log}
}

func (s *PostService) ListPosts(ctx context.Context, p domain.Principal, filter domain.PostFilter) ([]*domain.Post, error) {
	if err := domain.Authorize(p, domain.ActionListPosts, ""); err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, p domain.Principal, id string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if err := domain.Authorize(p, domain.ActionReadPost, post.AuthorID); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost publishes a post for input.AuthorID, which must be an existing user.
func (s *PostService) CreatePost(ctx context.Context, p domain.Principal, input ports.CreatePostInput) (*domain.Post, error) {
	if err := domain.Authorize(p, domain.ActionCreatePost, input.AuthorID); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, input.AuthorID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, unknownAuthor()
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.posts.Create(ctx, &domain.Post{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  input.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// the author may vanish between the check and the insert
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, unknownAuthor()
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", created.ID).Str("author_id", created.AuthorID).Msg("post created")
	s.notifier.Notify(domain.PostCreatedNotification(created))
	return created, nil
}

// UpdatePost edits title and content. The author of a post never changes.
func (s *PostService) UpdatePost(ctx context.Context, p domain.Principal, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	current, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if err := domain.Authorize(p, domain.ActionUpdatePost, current.AuthorID); err != nil {
		return nil, err
	}
	if input.AuthorID != nil && *input.AuthorID != current.AuthorID {
		return nil, domain.NewValidationError("authorId", "post ownership cannot be transferred")
	}

	changes := domain.PostChanges{Title: input.Title, Content: input.Content}
	if changes.IsEmpty() {
		return current, nil
	}

	updated, err := s.posts.Update(ctx, current.ID, changes)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.notifier.Notify(domain.PostUpdatedNotification(updated))
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, p domain.Principal, id string) error {
	current, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if err := domain.Authorize(p, domain.ActionDeletePost, current.AuthorID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.Info().Str("post_id", current.ID).Str("by", p.ID).Msg("post deleted")
	return nil
}

func unknownAuthor() error {
	return domain.NewValidationError("authorId", "author does not exist")
}
