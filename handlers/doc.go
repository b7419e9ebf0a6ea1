/*
Package handlers contains HTTP request handlers for the Olympiad Abyss API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: Registration, login, logout, and profiles
  - ChatHandler: The shared message feed
  - PollHandler: Poll creation, tallies, and voting
  - ClickerHandler: The points clicker
  - AdminHandler: The moderation panel and user directory

Handlers are created via constructor functions that accept *sql.DB and Config:

	accounts := handlers.NewAccountHandler(db, cfg)

# Sessions

Login creates a database-backed session and returns a signed token, carried
either in the "session" cookie or an Authorization: Bearer header. Handlers
resolve the caller with:

	sess, user := handlers.CurrentSession(db, cfg, r)

Both are nil for anonymous callers. The session row carries the admin_mode
toggle, so it resets on logout.

# Moderation Rules

The admin handlers never encode privilege logic themselves; they call the
predicates in the models package (CheckDeleteAccount, CheckChangeAdminFlag,
CanUseAdminPanel) and map the returned rule errors onto HTTP statuses.

# Vote Integrity

One vote per user per poll. The handler pre-checks for a friendly 409, but
the UNIQUE (user_id, poll_id) constraint is what closes the race; a
constraint violation on insert is reported as the same 409.
*/
package handlers
