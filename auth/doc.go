/*
Package auth provides credential hashing and session token utilities.

# Passwords

Passwords are hashed with bcrypt and never stored in the clear:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

# Session Tokens

A session token is the server-side session ID signed with HMAC-SHA256:

	token := auth.SignSessionID(sessionID, secret)
	sessionID, err := auth.VerifySessionToken(token, secret)

The signature is URL-safe base64 without padding, joined to the ID with a
dot. Verification is constant-time and happens before any database lookup,
so guessed or tampered IDs are rejected cheaply.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
