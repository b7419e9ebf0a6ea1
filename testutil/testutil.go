package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/minf07l/olympiad-abyss/auth"
	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/db"
	"github.com/minf07l/olympiad-abyss/models"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// Every test gets its own database, so no cleanup between tests is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection: :memory: databases are per-connection
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:        5000,
		SQLitePath:  ":memory:",
		SecretKey:   "test-secret-key",
		GodUsername: "god",
		GodPassword: "godpass",
	}
}

// CreateTestUser creates an account and returns it. The password is always
// "password123".
func CreateTestUser(t *testing.T, conn *sql.DB, username string, isAdmin, isGod bool) *models.User {
	t.Helper()

	userID, _ := auth.GenerateID(16)
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	joined := time.Now()
	_, err = conn.Exec(`
		INSERT INTO users (id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at)
		VALUES ($1, $2, $3, $4, $5, 0, '🐼', '', $6)
	`, userID, username, hash, isAdmin, isGod, joined)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return &models.User{
		ID:           userID,
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		IsGod:        isGod,
		Avatar:       "🐼",
		JoinedAt:     joined,
	}
}

// CreateTestSession creates a session for the user and returns the signed
// token to put in the Authorization header or session cookie
func CreateTestSession(t *testing.T, conn *sql.DB, cfg cliparse.Config, userID string, adminMode bool) string {
	t.Helper()

	sessionID := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO sessions (id, user_id, admin_mode, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sessionID, userID, adminMode, now, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return auth.SignSessionID(sessionID, cfg.SecretKey)
}

// CreateTestPoll creates a poll and returns its ID
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, options []string) string {
	t.Helper()

	pollID, _ := auth.GenerateID(16)
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		t.Fatalf("Failed to encode options: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO polls (id, question, options, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, question, string(optionsJSON), time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// CreateTestVote records a vote directly
func CreateTestVote(t *testing.T, conn *sql.DB, userID, pollID string, optionIndex int) {
	t.Helper()

	voteID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO votes (id, user_id, poll_id, option_index)
		VALUES ($1, $2, $3, $4)
	`, voteID, userID, pollID, optionIndex)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// CreateTestMessage posts a chat message directly and returns its ID
func CreateTestMessage(t *testing.T, conn *sql.DB, user *models.User, text string, at time.Time) string {
	t.Helper()

	messageID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO messages (id, user_id, username, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, messageID, user.ID, user.Username, text, at)
	if err != nil {
		t.Fatalf("Failed to create test message: %v", err)
	}

	return messageID
}

// SetPoints sets a user's points directly
func SetPoints(t *testing.T, conn *sql.DB, userID string, points int) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE users SET points = $1 WHERE id = $2`, points, userID); err != nil {
		t.Fatalf("Failed to set points: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeader builds the Authorization header map for a session token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
