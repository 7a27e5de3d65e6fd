package ports

import (
	"context"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// CreateUserInput carries a validated UserCreate payload. Role is already
// defaulted to domain.RoleUser when the client omitted it.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// UpdateUserInput carries a validated UserUpdate payload; nil means absent.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
	Role     *domain.Role
}

// ProfilePicture is an uploaded image ready to be stored.
type ProfilePicture struct {
	Content     []byte
	ContentType string
}

// UserService defines use-case operations for users.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	CreateUser(ctx context.Context, p domain.Principal, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, p domain.Principal, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, p domain.Principal, id string) error
	UploadProfilePicture(ctx context.Context, p domain.Principal, id string, pic ProfilePicture) (*domain.User, error)
}
