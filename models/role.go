package models

import "errors"

// Rule errors surfaced by the authorization predicates. Handlers map these
// onto the HTTP error taxonomy: ErrForbidden aborts with 403, the rest are
// conflict rejections with an explicit message and no state change.
var (
	ErrForbidden            = errors.New("forbidden")
	ErrCannotDeleteSelf     = errors.New("cannot delete self")
	ErrCannotDeleteElevated = errors.New("cannot delete admin/god")
	ErrGodImmutable         = errors.New("cannot change god")
)

// Role is the effective privilege tier of a caller. The storage model keeps
// is_admin and is_god as independent flags; Role collapses them into a
// single ordered enumeration so the moderation rules can be written and
// tested exhaustively.
type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
	RoleGod
)

func (r Role) String() string {
	switch r {
	case RoleAnonymous:
		return "anonymous"
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	case RoleGod:
		return "god"
	}
	return "unknown"
}

// RoleOf derives the role tier from the account flags. A nil user is
// anonymous; is_god wins over is_admin.
func RoleOf(u *User) Role {
	switch {
	case u == nil:
		return RoleAnonymous
	case u.IsGod:
		return RoleGod
	case u.IsAdmin:
		return RoleAdmin
	}
	return RoleUser
}

// AtLeast reports whether r carries at least the privilege of other
func (r Role) AtLeast(other Role) bool {
	return r >= other
}

// CanToggleAdminMode reports whether the caller may flip the session's
// admin_mode toggle. The toggle itself is settable by admins and gods only;
// plain users and anonymous callers are rejected.
func CanToggleAdminMode(r Role) bool {
	return r.AtLeast(RoleAdmin)
}

// CanUseAdminPanel reports whether the caller has elevated admin access.
// Admins count only while their session's admin_mode toggle is on; god
// bypasses the toggle unconditionally.
func CanUseAdminPanel(r Role, adminMode bool) bool {
	if r == RoleGod {
		return true
	}
	return adminMode && r.AtLeast(RoleAdmin)
}

// CheckDeleteAccount decides whether caller may cascade-delete target.
//
//   - god may delete any account except itself
//   - admin (with admin_mode on) may delete plain users only
//   - everyone else is forbidden
//
// Returns nil when the deletion is allowed.
func CheckDeleteAccount(caller *User, adminMode bool, target *User) error {
	callerRole := RoleOf(caller)
	if !CanUseAdminPanel(callerRole, adminMode) {
		return ErrForbidden
	}

	if callerRole == RoleGod {
		if caller.ID == target.ID {
			return ErrCannotDeleteSelf
		}
		return nil
	}

	// Admin caller: elevated targets are off limits
	if target.IsAdmin || target.IsGod {
		return ErrCannotDeleteElevated
	}
	return nil
}

// CheckChangeAdminFlag decides whether caller may promote or demote target.
// Only god may touch the is_admin flag, and god accounts themselves are
// immutable through this path.
func CheckChangeAdminFlag(caller, target *User) error {
	if RoleOf(caller) != RoleGod {
		return ErrForbidden
	}
	if target.IsGod {
		return ErrGodImmutable
	}
	return nil
}
