package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

// ErrStorageDisabled is returned by UploadProfilePicture when no object
// storage is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

type UserService struct {
	repo        ports.UserRepository
	credentials ports.CredentialService
	storage     ports.ObjectStorage
	notifier    ports.Notifier
	log         zerolog.Logger
}

// NewUserService wires the user use cases. storage may be nil.
func NewUserService(
	repo ports.UserRepository,
	credentials ports.CredentialService,
	storage ports.ObjectStorage,
	notifier ports.Notifier,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:        repo,
		credentials: credentials,
		storage:     storage,
		notifier:    notifier,
		log:         log,
	}
}

// ListUsers returns every account. Route-level authorization guards it.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := domain.Authorize(p, domain.ActionReadUser, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser is the privileged counterpart of registration: the caller may
// choose any role.
func (s *UserService) CreateUser(ctx context.Context, p domain.Principal, input ports.CreateUserInput) (*domain.User, error) {
	if err := domain.Authorize(p, domain.ActionCreateUser, ""); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	hash, err := s.credentials.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
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
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Str("by", p.ID).Msg("user created")
	s.notifier.Notify(domain.UserCreatedNotification(created))
	return created, nil
}

// UpdateUser applies a partial update. A role change needs its own grant on
// top of update-user; when it is missing nothing is written.
func (s *UserService) UpdateUser(ctx context.Context, p domain.Principal, id string, input ports.UpdateUserInput) (*domain.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := domain.Authorize(p, domain.ActionUpdateUser, current.ID); err != nil {
		return nil, err
	}
	if input.Role != nil {
		if err := domain.Authorize(p, domain.ActionChangeRole, current.ID); err != nil {
			return nil, err
		}
	}

	changes := domain.UserChanges{
		Email: input.Email,
		Name:  input.Name,
		Role:  input.Role,
	}
	if input.Password != nil {
		hash, err := s.credentials.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		changes.PasswordHash = &hash
	}
	if changes.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, current.ID, changes)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// DeleteUser removes the account and every post it authored.
func (s *UserService) DeleteUser(ctx context.Context, p domain.Principal, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := domain.Authorize(p, domain.ActionDeleteUser, current.ID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", current.ID).Str("by", p.ID).Msg("user deleted")
	return nil
}

// UploadProfilePicture stores the image and records its public URL on the user.
func (s *UserService) UploadProfilePicture(ctx context.Context, p domain.Principal, id string, pic ports.ProfilePicture) (*domain.User, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}
	if err := domain.Authorize(p, domain.ActionUpdateUser, current.ID); err != nil {
		return nil, err
	}

	url, err := s.storage.Store(ctx, profilePictureKey(current.ID, pic.ContentType), pic.Content, pic.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}

	updated, err := s.repo.Update(ctx, current.ID, domain.UserChanges{ProfilePictureURL: &url})
	if err != nil {
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}
	return updated, nil
}

func profilePictureKey(userID, contentType string) string {
	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	default:
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return fmt.Sprintf("profile-pictures/%s/%s%s", userID, uuid.NewString(), ext)
}
