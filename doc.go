/*
Package main provides the entry point for the Olympiad Abyss server.

Olympiad Abyss is a small community site: accounts, a shared chat feed,
one-vote-per-user polls, a points clicker, and a god > admin > user
moderation hierarchy.

# Starting the Server

With no configuration the server listens on :5000 and stores data in a
local SQLite file under instance/:

	go run main.go

Point it at Postgres instead:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 8080 -d "postgres://..."

# Configuration

All settings are optional; defaults suit local development:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_URL (-d): PostgreSQL connection string (empty uses SQLite)
  - SQLITE_PATH (-f): SQLite file path (default: instance/app.db)
  - SECRET_KEY (-secret): Session token signing key
  - GOD_USERNAME / GOD_PASSWORD: Bootstrap god account credentials

A .env file in the working directory is loaded on startup. The first run
against an empty database creates the god account.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, chat, polls, clicker, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and the role rules
  - auth: Password hashing and session token signing
  - db: Store selection, schema creation, god bootstrap
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
