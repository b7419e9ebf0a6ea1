/*
Package models defines request, response, and domain types, plus the
role/permission rules.

# Roles

Accounts store two independent flags (is_admin, is_god). RoleOf collapses
them into an ordered enumeration:

	anonymous < user < admin < god

Authorization predicates operate on that enumeration:

  - CanToggleAdminMode: admin or god may flip the session toggle
  - CanUseAdminPanel: (admin_mode AND admin-or-god) OR god
  - CheckDeleteAccount: deletion preconditions per caller/target tier
  - CheckChangeAdminFlag: god-only, god targets immutable

The Check* predicates return sentinel errors (ErrForbidden,
ErrCannotDeleteSelf, ErrCannotDeleteElevated, ErrGodImmutable) that handlers
map onto HTTP statuses.

# Domain Types

  - User: identity, credential hash, role flags, points, avatar/bio
  - Message: append-only chat entry with a denormalized username snapshot
  - Poll: question plus an ordered, immutable option list
  - Vote: one (user, poll) pair with a chosen option index
  - Session: server-side session row carrying the admin_mode toggle

# Request/Response Types

Types for JSON parsing and rendering. User.PasswordHash and session
internals are never serialized.
*/
package models
