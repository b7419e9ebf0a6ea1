package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/minf07l/olympiad-abyss/auth"
	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/middleware"
	"github.com/minf07l/olympiad-abyss/models"
)

type AccountHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg}
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if len(req.Username) < 3 || len(req.Username) > 80 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be 3-80 characters")
		return
	}
	if len(req.Password) < 6 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	userID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate user ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	// The UNIQUE constraint on username is the source of truth; no
	// pre-check, so concurrent registrations cannot both slip through.
	_, err = h.db.Exec(`
		INSERT INTO users (id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at)
		VALUES ($1, $2, $3, $4, $5, 0, '🐼', '', $6)
	`, userID, req.Username, hash, false, false, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Username already exists")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", userID, "username", req.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		UserID:   userID,
		Username: req.Username,
	})
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	var user models.User
	err := h.db.QueryRow(`
		SELECT id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at
		FROM users
		WHERE username = $1
	`, req.Username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.IsGod,
		&user.Points, &user.Avatar, &user.Bio, &user.JoinedAt,
	)

	// Same response for unknown user and wrong password
	if err == sql.ErrNoRows || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := CreateSession(h.db, h.cfg, user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	SetSessionCookie(w, token)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user.Profile(),
	})
}

// Logout handles GET /logout
// Destroying the session also discards its admin_mode toggle.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := CurrentSession(h.db, h.cfg, r)
	if sess == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	DestroySession(h.db, sess.ID)
	ClearSessionCookie(w)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// GetProfile handles GET /profile
// Returns the caller's account plus their 20 most recent messages.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	_, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, username, text, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT 20
	`, user.ID)
	if err != nil {
		slog.Error("failed to query messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			slog.Error("failed to scan message", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		messages = append(messages, m)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProfileResponse{
		User:     user.Profile(),
		Messages: messages,
	})
}

// UpdateProfile handles POST /profile
// Empty fields keep their current values.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Avatar) > 200 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "avatar must be at most 200 characters")
		return
	}
	if len(req.Bio) > 300 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "bio must be at most 300 characters")
		return
	}

	avatar := user.Avatar
	if req.Avatar != "" {
		avatar = req.Avatar
	}
	bio := user.Bio
	if req.Bio != "" {
		bio = req.Bio
	}

	_, err := h.db.Exec(`
		UPDATE users SET avatar = $1, bio = $2 WHERE id = $3
	`, avatar, bio, user.ID)
	if err != nil {
		slog.Error("failed to update profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
