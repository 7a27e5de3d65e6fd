package domain

import "fmt"

// Action names an operation subject to authorization.
type Action string

const (
	ActionListUsers  Action = "list-users"
	ActionCreateUser Action = "create-user"
	ActionReadUser   Action = "read-user"
	ActionUpdateUser Action = "update-user"
	ActionChangeRole Action = "change-role"
	ActionDeleteUser Action = "delete-user"
	ActionListPosts  Action = "list-posts"
	ActionReadPost   Action = "read-post"
	ActionCreatePost Action = "create-post"
	ActionUpdatePost Action = "update-post"
	ActionDeletePost Action = "delete-post"
)

// grant is the reach a role has for an action.
type grant uint8

const (
	grantNone grant = iota
	grantOwn        // only resources whose owner is the principal
	grantAny
)

// policyTable is the single source of truth for every authorization decision.
// Missing entries deny.
var policyTable = map[Action]map[Role]grant{
	ActionListUsers:  {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantNone},
	ActionCreateUser: {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantNone},
	ActionReadUser:   {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantOwn},
	ActionUpdateUser: {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantOwn},
	ActionChangeRole: {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantNone},
	ActionDeleteUser: {RoleGod: grantAny, RoleAdmin: grantNone, RoleUser: grantNone},
	ActionListPosts:  {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantAny},
	ActionReadPost:   {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantAny},
	ActionCreatePost: {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantOwn},
	ActionUpdatePost: {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantOwn},
	ActionDeletePost: {RoleGod: grantAny, RoleAdmin: grantAny, RoleUser: grantNone},
}

// Decision is the outcome of a policy check. Reason is empty when allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(format string, args ...any) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// CanAct decides whether p may perform action on a resource owned by ownerID.
// ownerID is empty for actions that do not target a single resource.
func CanAct(p Principal, action Action, ownerID string) Decision {
	roles, ok := policyTable[action]
	if !ok {
		return deny("unknown action %q", action)
	}
	switch roles[p.Role] {
	case grantAny:
		return allow()
	case grantOwn:
		if ownerID != "" && p.ID != "" && ownerID == p.ID {
			return allow()
		}
		return deny("role %q may only %s on its own resources", p.Role, action)
	default:
		return deny("role %q may not %s", p.Role, action)
	}
}

// Authorize is CanAct as an error: nil when allowed, ErrForbidden otherwise.
func Authorize(p Principal, action Action, ownerID string) error {
	d := CanAct(p, action, ownerID)
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
}
