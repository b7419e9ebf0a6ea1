package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minf07l/olympiad-abyss/auth"
	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/models"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "session"

// Sessions outlive browser restarts but not forever
const sessionTTL = 30 * 24 * time.Hour

// CreateSession inserts a session row for the user and returns the signed
// token. admin_mode always starts off.
func CreateSession(db *sql.DB, cfg cliparse.Config, userID string) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	_, err := db.Exec(`
		INSERT INTO sessions (id, user_id, admin_mode, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sessionID, userID, false, now, now.Add(sessionTTL))
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return auth.SignSessionID(sessionID, cfg.SecretKey), nil
}

// CurrentSession resolves the caller's session and account from the request.
// Both return values are nil for anonymous callers: missing token, bad
// signature, unknown or expired session.
func CurrentSession(db *sql.DB, cfg cliparse.Config, r *http.Request) (*models.Session, *models.User) {
	token := sessionToken(r)
	if token == "" {
		return nil, nil
	}

	sessionID, err := auth.VerifySessionToken(token, cfg.SecretKey)
	if err != nil {
		return nil, nil
	}

	var sess models.Session
	var user models.User
	err = db.QueryRow(`
		SELECT s.id, s.user_id, s.admin_mode, s.created_at, s.expires_at,
		       u.id, u.username, u.password_hash, u.is_admin, u.is_god,
		       u.points, u.avatar, u.bio, u.joined_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`, sessionID).Scan(
		&sess.ID, &sess.UserID, &sess.AdminMode, &sess.CreatedAt, &sess.ExpiresAt,
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.IsGod,
		&user.Points, &user.Avatar, &user.Bio, &user.JoinedAt,
	)
	if err != nil {
		return nil, nil
	}

	if time.Now().After(sess.ExpiresAt) {
		DestroySession(db, sess.ID)
		return nil, nil
	}

	return &sess, &user
}

// DestroySession removes the session row; a missing row is not an error
func DestroySession(db *sql.DB, sessionID string) {
	db.Exec(`DELETE FROM sessions WHERE id = $1`, sessionID)
}

// SetSessionCookie attaches the signed token to the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken reads the token from the session cookie or, for API
// clients, the Authorization header
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, prefix) {
		return h[len(prefix):]
	}
	return ""
}

// getUserByID loads a full account row
func getUserByID(db *sql.DB, userID string) (*models.User, error) {
	var user models.User
	err := db.QueryRow(`
		SELECT id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.IsGod,
		&user.Points, &user.Avatar, &user.Bio, &user.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation matches duplicate-key errors from both drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // pq
}
