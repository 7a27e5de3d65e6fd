package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

type userFixture struct {
	svc      *UserService
	users    *stubUserRepo
	posts    *stubPostRepo
	storage  *stubStorage
	notifier *recordingNotifier
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:    newStubUserRepo(),
		posts:    newStubPostRepo(),
		storage:  &stubStorage{},
		notifier: &recordingNotifier{},
	}
	f.users.posts = f.posts
	seedUsers(f.users)
	f.svc = NewUserService(f.users, newTestCredentials(), f.storage, f.notifier, zerolog.Nop())
	return f
}

func TestUserService_GetUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		p    domain.Principal
		id   string
		want error
	}{
		{"god reads anyone", godPrincipal, aliceID, nil},
		{"admin reads anyone", adminPrincipal, bobID, nil},
		{"user reads self", alicePrincipal, aliceID, nil},
		{"user reads other", alicePrincipal, bobID, domain.ErrForbidden},
		{"missing before forbidden", alicePrincipal, missing, domain.ErrUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := f.svc.GetUser(ctx, tc.p, tc.id)
			if tc.want == nil {
				if err != nil || u == nil || u.ID != tc.id {
					t.Fatalf("expected user %s, got %+v err=%v", tc.id, u, err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUserService_CreateUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	created, err := f.svc.CreateUser(ctx, adminPrincipal, ports.CreateUserInput{
		Email: "eve@example.com", Name: "Eve", Password: "pass123", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", created.Role)
	}
	if created.PasswordHash == "" || created.PasswordHash == "pass123" {
		t.Fatalf("expected hashed password, got %q", created.PasswordHash)
	}

	defaulted, err := f.svc.CreateUser(ctx, godPrincipal, ports.CreateUserInput{Email: "frank@example.com", Name: "Frank", Password: "pass123"})
	if err != nil || defaulted.Role != domain.RoleUser {
		t.Fatalf("expected defaulted role user, got %+v err=%v", defaulted, err)
	}

	if _, err := f.svc.CreateUser(ctx, alicePrincipal, ports.CreateUserInput{Email: "x@example.com", Name: "X", Password: "pass123"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain user, got %v", err)
	}
	if _, err := f.svc.CreateUser(ctx, adminPrincipal, ports.CreateUserInput{Email: "alice@example.com", Name: "A", Password: "pass123"}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserService_UpdateUser_SelfProfile(t *testing.T) {
	f := newUserFixture()

	updated, err := f.svc.UpdateUser(context.Background(), alicePrincipal, aliceID, ports.UpdateUserInput{
		Name:     strPtr("Alice B."),
		Password: strPtr("newpass1"),
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Name != "Alice B." {
		t.Fatalf("name not updated: %+v", updated)
	}
	if ok, _ := newTestCredentials().Verify(f.users.users[aliceID].PasswordHash, "newpass1"); !ok {
		t.Fatalf("password hash was not replaced")
	}
}

func TestUserService_UpdateUser_OwnRoleChangeDenied(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.UpdateUser(context.Background(), alicePrincipal, aliceID, ports.UpdateUserInput{
		Name: strPtr("Queen Alice"),
		Role: rolePtr(domain.RoleGod),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	stored := f.users.users[aliceID]
	if stored.Role != domain.RoleUser || stored.Name != "Alice" || f.users.updates != 0 {
		t.Fatalf("expected nothing persisted, got %+v (updates=%d)", stored, f.users.updates)
	}
}

func TestUserService_UpdateUser_AdminChangesRole(t *testing.T) {
	f := newUserFixture()

	updated, err := f.svc.UpdateUser(context.Background(), adminPrincipal, bobID, ports.UpdateUserInput{Role: rolePtr(domain.RoleAdmin)})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", updated.Role)
	}
}

func TestUserService_UpdateUser_Errors(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	if _, err := f.svc.UpdateUser(ctx, alicePrincipal, bobID, ports.UpdateUserInput{Name: strPtr("x")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}
	if _, err := f.svc.UpdateUser(ctx, alicePrincipal, missing, ports.UpdateUserInput{Name: strPtr("x")}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateUser(ctx, alicePrincipal, aliceID, ports.UpdateUserInput{Email: strPtr("bob@example.com")}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserService_UpdateUser_EmptyIsNoop(t *testing.T) {
	f := newUserFixture()

	u, err := f.svc.UpdateUser(context.Background(), alicePrincipal, aliceID, ports.UpdateUserInput{})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if u.ID != aliceID || f.users.updates != 0 {
		t.Fatalf("expected current user without a write, got %+v (updates=%d)", u, f.users.updates)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	f.posts.seed(&domain.Post{ID: "p1", AuthorID: bobID, Title: "t", Content: "c"})
	f.posts.seed(&domain.Post{ID: "p2", AuthorID: aliceID, Title: "t", Content: "c"})

	if err := f.svc.DeleteUser(ctx, adminPrincipal, bobID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected admin to be denied, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, bobPrincipal, bobID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected user to be denied even for self, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, bobPrincipal, missing); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for plain user on missing id, got %v", err)
	}

	if err := f.svc.DeleteUser(ctx, godPrincipal, bobID); err != nil {
		t.Fatalf("god delete failed: %v", err)
	}
	if _, ok := f.users.users[bobID]; ok {
		t.Fatalf("user still present")
	}
	if _, ok := f.posts.posts["p1"]; ok {
		t.Fatalf("expected posts of deleted user to be removed")
	}
	if _, ok := f.posts.posts["p2"]; !ok {
		t.Fatalf("unrelated post was removed")
	}
}

func TestUserService_UploadProfilePicture(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	pic := ports.ProfilePicture{Content: []byte("\x89PNG"), ContentType: "image/png"}

	u, err := f.svc.UploadProfilePicture(ctx, alicePrincipal, aliceID, pic)
	if err != nil {
		t.Fatalf("UploadProfilePicture returned error: %v", err)
	}
	if len(f.storage.keys) != 1 || !strings.HasPrefix(f.storage.keys[0], "profile-pictures/"+aliceID+"/") || !strings.HasSuffix(f.storage.keys[0], ".png") {
		t.Fatalf("unexpected storage keys: %v", f.storage.keys)
	}
	if u.ProfilePictureURL != f.storage.URL(f.storage.keys[0]) {
		t.Fatalf("url not recorded: %q", u.ProfilePictureURL)
	}

	if _, err := f.svc.UploadProfilePicture(ctx, alicePrincipal, bobID, pic); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.storage.keys) != 1 {
		t.Fatalf("storage must not be touched on denial")
	}
}

func TestUserService_UploadProfilePicture_StorageFailure(t *testing.T) {
	f := newUserFixture()
	f.storage.storeFn = func(context.Context, string, []byte, string) (string, error) {
		return "", errors.New("bucket unavailable")
	}

	if _, err := f.svc.UploadProfilePicture(context.Background(), godPrincipal, aliceID, ports.ProfilePicture{Content: []byte("x"), ContentType: "image/png"}); err == nil {
		t.Fatalf("expected error")
	}
	if f.users.updates != 0 {
		t.Fatalf("expected no user write after failed upload")
	}
}

func TestUserService_UploadProfilePicture_Disabled(t *testing.T) {
	f := newUserFixture()
	svc := NewUserService(f.users, newTestCredentials(), nil, f.notifier, zerolog.Nop())

	if _, err := svc.UploadProfilePicture(context.Background(), godPrincipal, aliceID, ports.ProfilePicture{}); !errors.Is(err, ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}
