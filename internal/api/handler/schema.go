package handler

import (
	"github.com/postboard/postboard-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string                  `json:"error"`
	Details []domain.FieldViolation `json:"details,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=god admin user"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// --- Users ---

// createUserRequest is the UserCreate payload; role defaults to user.
type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=god admin user"`
}

// updateUserRequest is the UserUpdate payload. A present field is validated
// even when empty.
type updateUserRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role"     validate:"omitempty,oneof=god admin user"`
}

type profilePictureResponse struct {
	ImageURL string       `json:"imageUrl"`
	User     *domain.User `json:"user"`
}

// --- Posts ---

type createPostRequest struct {
	Title    string `json:"title"    validate:"required"`
	Content  string `json:"content"  validate:"required"`
	AuthorID string `json:"authorId" validate:"required,uuid"`
}

type updatePostRequest struct {
	Title    *string `json:"title"    validate:"omitempty,min=1"`
	Content  *string `json:"content"  validate:"omitempty,min=1"`
	AuthorID *string `json:"authorId" validate:"omitempty,uuid"`
}

type listPostsQuery struct {
	AuthorID string `query:"authorId" validate:"omitempty,uuid"`
}

// --- Shared ---

type idParam struct {
	ID string `param:"id" validate:"required,uuid"`
}
