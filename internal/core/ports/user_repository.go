package ports

import (
	"context"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Implementations report a missing row as domain.ErrUserNotFound and a
// duplicate email as domain.ErrEmailExists; anything else is wrapped as is.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update applies the non-nil fields of changes and returns the stored row.
	Update(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error)
	// Delete removes the user together with the posts it authored.
	Delete(ctx context.Context, id string) error
}
