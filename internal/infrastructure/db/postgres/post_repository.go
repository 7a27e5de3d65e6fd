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

// PostRepository implements ports.PostRepository with GORM.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	row := newPostModel(post)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var row postModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.AuthorID != "" {
		q = q.Where("author_id = ?", filter.AuthorID)
	}

	var rows []postModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]*domain.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toEntity())
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, changes domain.PostChanges) (*domain.Post, error) {
	var row postModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&postModel{}).Where("id = ?", id).Updates(postUpdates(changes, time.Now().UTC()))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrPostNotFound
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	switch {
	case err == nil:
		return row.toEntity(), nil
	case errors.Is(err, domain.ErrPostNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrPostNotFound
	default:
		return nil, fmt.Errorf("update post: %w", err)
	}
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&postModel{})
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

var _ ports.PostRepository = (*PostRepository)(nil)
