package domain

import (
	"errors"
	"testing"
)

const (
	selfID  = "11111111-1111-4111-8111-111111111111"
	otherID = "22222222-2222-4222-8222-222222222222"
)

func TestCanAct_Table(t *testing.T) {
	god := Principal{ID: selfID, Role: RoleGod}
	admin := Principal{ID: selfID, Role: RoleAdmin}
	user := Principal{ID: selfID, Role: RoleUser}

	cases := []struct {
		name    string
		p       Principal
		action  Action
		owner   string
		allowed bool
	}{
		{"god lists users", god, ActionListUsers, "", true},
		{"admin lists users", admin, ActionListUsers, "", true},
		{"user cannot list users", user, ActionListUsers, "", false},

		{"user reads own profile", user, ActionReadUser, selfID, true},
		{"user cannot read other profile", user, ActionReadUser, otherID, false},
		{"admin reads other profile", admin, ActionReadUser, otherID, true},

		{"user updates own profile", user, ActionUpdateUser, selfID, true},
		{"user cannot update other profile", user, ActionUpdateUser, otherID, false},
		{"admin updates other profile", admin, ActionUpdateUser, otherID, true},
		{"god updates other profile", god, ActionUpdateUser, otherID, true},

		{"user cannot change own role", user, ActionChangeRole, selfID, false},
		{"admin changes own role", admin, ActionChangeRole, selfID, true},
		{"god changes other role", god, ActionChangeRole, otherID, true},

		{"god deletes user", god, ActionDeleteUser, otherID, true},
		{"admin cannot delete user", admin, ActionDeleteUser, otherID, false},
		{"user cannot delete self", user, ActionDeleteUser, selfID, false},

		{"user creates own post", user, ActionCreatePost, selfID, true},
		{"user cannot create post for other", user, ActionCreatePost, otherID, false},
		{"admin creates post for other", admin, ActionCreatePost, otherID, true},

		{"user reads any post", user, ActionReadPost, otherID, true},
		{"user updates own post", user, ActionUpdatePost, selfID, true},
		{"user cannot update other post", user, ActionUpdatePost, otherID, false},
		{"admin updates other post", admin, ActionUpdatePost, otherID, true},

		{"admin deletes any post", admin, ActionDeletePost, otherID, true},
		{"god deletes any post", god, ActionDeletePost, otherID, true},
		{"user cannot delete other post", user, ActionDeletePost, otherID, false},
		{"user cannot delete own post", user, ActionDeletePost, selfID, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := CanAct(tc.p, tc.action, tc.owner)
			if d.Allowed != tc.allowed {
				t.Fatalf("CanAct(%s, %s, %q) = %v, want %v (reason %q)", tc.p.Role, tc.action, tc.owner, d.Allowed, tc.allowed, d.Reason)
			}
			if !d.Allowed && d.Reason == "" {
				t.Errorf("denied decision must carry a reason")
			}
		})
	}
}

func TestCanAct_OwnGrantNeedsOwner(t *testing.T) {
	user := Principal{ID: selfID, Role: RoleUser}
	if CanAct(user, ActionUpdateUser, "").Allowed {
		t.Fatal("own-scoped grant must not allow when owner is unknown")
	}

	anonymous := Principal{Role: RoleUser}
	if CanAct(anonymous, ActionUpdateUser, "").Allowed {
		t.Fatal("empty principal id must never match an empty owner")
	}
}

func TestCanAct_UnknownRoleOrAction(t *testing.T) {
	if CanAct(Principal{ID: selfID, Role: "root"}, ActionReadPost, "").Allowed {
		t.Error("unknown role must be denied")
	}
	if CanAct(Principal{ID: selfID, Role: RoleGod}, Action("launch-missiles"), "").Allowed {
		t.Error("unknown action must be denied")
	}
}

func TestAuthorize_WrapsForbidden(t *testing.T) {
	err := Authorize(Principal{ID: selfID, Role: RoleUser}, ActionDeleteUser, selfID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := Authorize(Principal{ID: selfID, Role: RoleGod}, ActionDeleteUser, otherID); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleGod, RoleAdmin, RoleUser} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Role("superuser").Valid() || Role("").Valid() {
		t.Error("unexpected valid role")
	}
}

func TestValidationError_ListsEveryField(t *testing.T) {
	err := &ValidationError{Violations: []FieldViolation{
		{Field: "email", Message: "must be a valid email"},
		{Field: "password", Message: "must be at least 6 characters long"},
	}}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("ValidationError must match ErrValidation")
	}
	want := "validation failed: email: must be a valid email; password: must be at least 6 characters long"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
