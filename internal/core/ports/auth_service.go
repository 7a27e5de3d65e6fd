package ports

import (
	"context"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// RegisterInput carries validated registration data.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

type AuthService interface {
	// Register creates a plain user account and returns it with a signed token.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// CredentialService hashes secrets and issues/verifies bearer tokens.
type CredentialService interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) (bool, error)
	IssueToken(p domain.Principal) (string, error)
	VerifyToken(token string) (domain.Principal, error)
}
