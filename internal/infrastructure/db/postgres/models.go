package postgres

import (
	"time"

	"github.com/postboard/postboard-api/internal/core/domain"
)

type userModel struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	Email             string    `gorm:"uniqueIndex;not null"`
	Name              string    `gorm:"not null"`
	PasswordHash      string    `gorm:"not null"`
	Role              string    `gorm:"type:varchar(16);not null;default:user"`
	ProfilePictureURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Posts             []postModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (userModel) TableName() string {
	return "users"
}

func newUserModel(u *domain.User) *userModel {
	return &userModel{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		PasswordHash:      u.PasswordHash,
		Role:              string(u.Role),
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt.UTC(),
		UpdatedAt:         u.UpdatedAt.UTC(),
	}
}

func (m *userModel) toEntity() *domain.User {
	return &domain.User{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		PasswordHash:      m.PasswordHash,
		Role:              domain.Role(m.Role),
		ProfilePictureURL: m.ProfilePictureURL,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type postModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	AuthorID  string `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (postModel) TableName() string {
	return "posts"
}

func newPostModel(p *domain.Post) *postModel {
	return &postModel{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func (m *postModel) toEntity() *domain.Post {
	return &domain.Post{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// userUpdates maps the present fields to column updates.
func userUpdates(c domain.UserChanges, now time.Time) map[string]any {
	updates := map[string]any{"updated_at": now}
	if c.Email != nil {
		updates["email"] = *c.Email
	}
	if c.Name != nil {
		updates["name"] = *c.Name
	}
	if c.PasswordHash != nil {
		updates["password_hash"] = *c.PasswordHash
	}
	if c.Role != nil {
		updates["role"] = string(*c.Role)
	}
	if c.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *c.ProfilePictureURL
	}
	return updates
}

func postUpdates(c domain.PostChanges, now time.Time) map[string]any {
	updates := map[string]any{"updated_at": now}
	if c.Title != nil {
		updates["title"] = *c.Title
	}
	if c.Content != nil {
		updates["content"] = *c.Content
	}
	return updates
}
