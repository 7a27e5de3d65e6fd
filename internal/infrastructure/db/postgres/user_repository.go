package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository with GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := newUserModel(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toEntity())
	}
	return users, nil
}

// Update writes the present fields and reads the row back in one transaction.
func (r *UserRepository) Update(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userModel{}).Where("id = ?", id).Updates(userUpdates(changes, time.Now().UTC()))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	switch {
	case err == nil:
		return row.toEntity(), nil
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrUserNotFound
	case isUniqueViolation(err):
		return nil, domain.ErrEmailExists
	default:
		return nil, fmt.Errorf("update user: %w", err)
	}
}

// Delete removes the user; posts follow through the cascading foreign key.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userModel{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
