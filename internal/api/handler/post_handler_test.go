package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

func TestPostHandler_List_FilterByAuthor(t *testing.T) {
	stub := &stubPostService{
		listFn: func(ctx context.Context, p domain.Principal, f domain.PostFilter) ([]*domain.Post, error) {
			if f.AuthorID != aliceID {
				t.Fatalf("expected author filter %s, got %q", aliceID, f.AuthorID)
			}
			return []*domain.Post{{ID: postID, AuthorID: aliceID}}, nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/posts?authorId="+aliceID, nil, "")
	withPrincipal(c, alice)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var posts []domain.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(posts) != 1 || posts[0].AuthorID != aliceID {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestPostHandler_List_NoFilter(t *testing.T) {
	stub := &stubPostService{
		listFn: func(ctx context.Context, p domain.Principal, f domain.PostFilter) ([]*domain.Post, error) {
			if f.AuthorID != "" {
				t.Fatalf("expected empty filter, got %+v", f)
			}
			return []*domain.Post{}, nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/posts", nil, "")
	withPrincipal(c, alice)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestPostHandler_List_InvalidAuthorID(t *testing.T) {
	handler := NewPostHandler(&stubPostService{})

	c, _ := newTestContext(http.MethodGet, "/api/posts?authorId=nope", nil, "")
	withPrincipal(c, alice)

	requireViolation(t, handler.List(c), "authorId")
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	stub := &stubPostService{
		getFn: func(ctx context.Context, p domain.Principal, id string) (*domain.Post, error) {
			return nil, domain.ErrPostNotFound
		},
	}
	handler := NewPostHandler(stub)

	c, _ := newTestContext(http.MethodGet, "/api/posts/"+postID, nil, "")
	withID(withPrincipal(c, alice), postID)

	if err := handler.Get(c); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostHandler_Create(t *testing.T) {
	stub := &stubPostService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreatePostInput) (*domain.Post, error) {
			if in.AuthorID != aliceID || in.Title != "Hello" || in.Content != "World" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Post{ID: postID, Title: in.Title, Content: in.Content, AuthorID: in.AuthorID}, nil
		},
	}
	handler := NewPostHandler(stub)

	body := strings.NewReader(`{"title":"Hello","content":"World","authorId":"` + aliceID + `"}`)
	c, rec := newTestContext(http.MethodPost, "/api/posts", body, echo.MIMEApplicationJSON)
	withPrincipal(c, alice)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var post domain.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if post.ID != postID || post.AuthorID != aliceID {
		t.Fatalf("unexpected post: %+v", post)
	}
}

func TestPostHandler_Create_Validation(t *testing.T) {
	handler := NewPostHandler(&stubPostService{})

	body := strings.NewReader(`{"title":"","authorId":"not-a-uuid"}`)
	c, _ := newTestContext(http.MethodPost, "/api/posts", body, echo.MIMEApplicationJSON)
	withPrincipal(c, alice)

	err := handler.Create(c)
	requireViolation(t, err, "title")
	requireViolation(t, err, "content")
	requireViolation(t, err, "authorId")
}

func TestPostHandler_Update(t *testing.T) {
	stub := &stubPostService{
		updateFn: func(ctx context.Context, p domain.Principal, id string, in ports.UpdatePostInput) (*domain.Post, error) {
			if id != postID || in.Title == nil || *in.Title != "New" || in.Content != nil {
				t.Fatalf("unexpected args: %s %+v", id, in)
			}
			return &domain.Post{ID: id, Title: *in.Title, AuthorID: aliceID}, nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := newTestContext(http.MethodPut, "/api/posts/"+postID, strings.NewReader(`{"title":"New"}`), echo.MIMEApplicationJSON)
	withID(withPrincipal(c, alice), postID)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPostHandler_Delete(t *testing.T) {
	stub := &stubPostService{
		deleteFn: func(ctx context.Context, p domain.Principal, id string) error {
			return domain.Authorize(p, domain.ActionDeletePost, aliceID)
		},
	}
	handler := NewPostHandler(stub)

	c, _ := newTestContext(http.MethodDelete, "/api/posts/"+postID, nil, "")
	withID(withPrincipal(c, alice), postID)
	if err := handler.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain user, got %v", err)
	}

	c, rec := newTestContext(http.MethodDelete, "/api/posts/"+postID, nil, "")
	withID(withPrincipal(c, admin), postID)
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestPostHandler_Update_ReportsIDAndBodyTogether(t *testing.T) {
	handler := NewPostHandler(&stubPostService{})

	body := strings.NewReader(`{"title":"","authorId":"nope"}`)
	c, _ := newTestContext(http.MethodPut, "/api/posts/42", body, echo.MIMEApplicationJSON)
	withID(withPrincipal(c, alice), "42")

	err := handler.Update(c)
	requireViolation(t, err, "id")
	requireViolation(t, err, "title")
	requireViolation(t, err, "authorId")
}
