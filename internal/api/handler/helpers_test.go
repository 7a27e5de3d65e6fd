package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/postboard/postboard-api/internal/api/middleware"
	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

const (
	aliceID = "5b0c2f43-3d7e-4a57-9f55-1f6a2c8d4e01"
	bobID   = "7c1d3a54-4e8f-4b68-8a66-2a7b3d9e5f02"
	postID  = "9e2f4b65-5f90-4c79-9b77-3b8c4eaf6a03"
)

var (
	alice = domain.Principal{ID: aliceID, Role: domain.RoleUser}
	admin = domain.Principal{ID: bobID, Role: domain.RoleAdmin}
)

// newTestContext builds an echo context the way the router would: validator
// installed, optional principal, and optional :id path param.
func newTestContext(method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, p domain.Principal) echo.Context {
	middleware.SetPrincipal(c, p)
	return c
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

// requireViolation asserts err is a ValidationError that names field.
func requireViolation(t *testing.T, err error, field string) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, v := range ve.Violations {
		if v.Field == field {
			return ve
		}
	}
	t.Fatalf("expected violation for %q, got %+v", field, ve.Violations)
	return nil
}

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	getFn    func(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	createFn func(ctx context.Context, p domain.Principal, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, p domain.Principal, id string) error
	uploadFn func(ctx context.Context, p domain.Principal, id string, pic ports.ProfilePicture) (*domain.User, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, p domain.Principal, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubUserService) UpdateUser(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, p domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubUserService) UploadProfilePicture(ctx context.Context, p domain.Principal, id string, pic ports.ProfilePicture) (*domain.User, error) {
	return s.uploadFn(ctx, p, id, pic)
}

type stubPostService struct {
	listFn   func(ctx context.Context, p domain.Principal, f domain.PostFilter) ([]*domain.Post, error)
	getFn    func(ctx context.Context, p domain.Principal, id string) (*domain.Post, error)
	createFn func(ctx context.Context, p domain.Principal, in ports.CreatePostInput) (*domain.Post, error)
	updateFn func(ctx context.Context, p domain.Principal, id string, in ports.UpdatePostInput) (*domain.Post, error)
	deleteFn func(ctx context.Context, p domain.Principal, id string) error
}

func (s *stubPostService) ListPosts(ctx context.Context, p domain.Principal, f domain.PostFilter) ([]*domain.Post, error) {
	return s.listFn(ctx, p, f)
}

func (s *stubPostService) GetPost(ctx context.Context, p domain.Principal, id string) (*domain.Post, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubPostService) CreatePost(ctx context.Context, p domain.Principal, in ports.CreatePostInput) (*domain.Post, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubPostService) UpdatePost(ctx context.Context, p domain.Principal, id string, in ports.UpdatePostInput) (*domain.Post, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubPostService) DeletePost(ctx context.Context, p domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}
