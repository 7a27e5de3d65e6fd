package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo        ports.UserRepository
	credentials ports.CredentialService
	notifier    ports.Notifier
	log         zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, credentials ports.CredentialService, notifier ports.Notifier, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, credentials: credentials, notifier: notifier, log: log}
}

// Register creates a plain user and signs a token for it. Elevated roles can
// only be granted through the privileged user endpoints.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser {
		return nil, "", fmt.Errorf("%w: self-registration cannot grant role %q", domain.ErrForbidden, role)
	}

	hash, err := s.credentials.Hash(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	token, err := s.credentials.IssueToken(domain.Principal{ID: created.ID, Role: created.Role})
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	s.notifier.Notify(domain.UserCreatedNotification(created))
	return created, token, nil
}

// Login checks the credentials and returns a fresh token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.burnVerify(password)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.credentials.Verify(user.PasswordHash, password)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.credentials.IssueToken(domain.Principal{ID: user.ID, Role: user.Role})
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return token, user, nil
}

// burnVerify spends the same work as a real verification.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.credentials.Hash(uuid.NewString())
	})
	if s.dummyHash != "" {
		_, _ = s.credentials.Verify(s.dummyHash, password)
	}
}
