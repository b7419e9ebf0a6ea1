/*
Package db handles store selection, schema creation, and first-run bootstrap.

# Store Selection

Open picks the driver from configuration:

	conn, err := db.Open(cfg)

A set DATABASE_URL selects Postgres (lib/pq); an empty one falls back to a
local SQLite file (modernc.org/sqlite), matching the original deployment
model. All queries in the repository use $1-style placeholders, which both
drivers accept, and the DDL avoids anything driver-specific.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: identity, credential hash, role flags, points counter
  - messages: append-only chat feed
  - polls: question plus JSON-encoded option list
  - votes: one row per (user, poll), enforced by a UNIQUE constraint
  - sessions: server-side sessions with the admin_mode toggle

# Relationships

	users 1──* messages
	users 1──* votes
	users 1──* sessions
	polls 1──* votes

Account deletion cascades in application code (dependents first, inside one
transaction) rather than through ON DELETE CASCADE, so the order and
atomicity are explicit.

# Bootstrap

EnsureGodAccount creates the single god account on first run from
GOD_USERNAME/GOD_PASSWORD. It is idempotent and does nothing once any
god-flagged account exists.
*/
package db
