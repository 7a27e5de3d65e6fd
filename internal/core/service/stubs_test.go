package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User
	updates int
	deletes int
	posts   *stubPostRepo // cascade target, optional
	err     error         // forced failure for every call when set
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, c domain.UserChanges) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if c.Email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *c.Email {
				return nil, domain.ErrEmailExists
			}
		}
		u.Email = *c.Email
	}
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.Role != nil {
		u.Role = *c.Role
	}
	if c.ProfilePictureURL != nil {
		u.ProfilePictureURL = *c.ProfilePictureURL
	}
	u.UpdatedAt = time.Now().UTC()
	r.updates++
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	r.deletes++
	if r.posts != nil {
		for pid, p := range r.posts.posts {
			if p.AuthorID == id {
				delete(r.posts.posts, pid)
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory post repository
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	posts     map[string]*domain.Post
	updates   int
	createErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPostRepo) seed(p *domain.Post) *domain.Post {
	r.posts[p.ID] = clonePost(p)
	return clonePost(p)
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) List(_ context.Context, f domain.PostFilter) ([]*domain.Post, error) {
	out := []*domain.Post{}
	for _, p := range r.posts {
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (r *stubPostRepo) Update(_ context.Context, id string, c domain.PostChanges) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Content != nil {
		p.Content = *c.Content
	}
	p.UpdatedAt = time.Now().UTC()
	r.updates++
	return clonePost(p), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

// ---------------------------------------------------------------------------
// Notifier / storage / credentials
// ---------------------------------------------------------------------------

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(msg domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) kinds() []domain.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.NotificationKind, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Kind)
	}
	return out
}

type stubStorage struct {
	storeFn func(ctx context.Context, key string, content []byte, contentType string) (string, error)
	keys    []string
}

func (s *stubStorage) Store(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	s.keys = append(s.keys, key)
	if s.storeFn != nil {
		return s.storeFn(ctx, key, content, contentType)
	}
	return s.URL(key), nil
}

func (s *stubStorage) URL(key string) string {
	return "https://cdn.example.com/" + key
}

// failingHasher breaks Hash while delegating the rest.
type failingHasher struct {
	*CredentialService
}

func (failingHasher) Hash(string) (string, error) {
	return "", errors.Join(domain.ErrHashingFailure, errors.New("boom"))
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const (
	godID   = "11111111-1111-4111-8111-111111111111"
	adminID = "22222222-2222-4222-8222-222222222222"
	aliceID = "33333333-3333-4333-8333-333333333333"
	bobID   = "44444444-4444-4444-8444-444444444444"
	missing = "99999999-9999-4999-8999-999999999999"
)

var (
	godPrincipal   = domain.Principal{ID: godID, Role: domain.RoleGod}
	adminPrincipal = domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	alicePrincipal = domain.Principal{ID: aliceID, Role: domain.RoleUser}
	bobPrincipal   = domain.Principal{ID: bobID, Role: domain.RoleUser}
)

func seedUsers(r *stubUserRepo) {
	now := time.Now().UTC()
	for _, u := range []*domain.User{
		{ID: godID, Email: "god@example.com", Name: "God", Role: domain.RoleGod},
		{ID: adminID, Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin},
		{ID: aliceID, Email: "alice@example.com", Name: "Alice", Role: domain.RoleUser},
		{ID: bobID, Email: "bob@example.com", Name: "Bob", Role: domain.RoleUser},
	} {
		u.CreatedAt, u.UpdatedAt = now, now
		r.seed(u)
	}
}

func strPtr(s string) *string { return &s }

func rolePtr(r domain.Role) *domain.Role { return &r }
