package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/minf07l/olympiad-abyss/auth"
	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/middleware"
	"github.com/minf07l/olympiad-abyss/models"
)

// API reads return at most this many of the newest messages
const chatHistoryCap = 200

type ChatHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewChatHandler(db *sql.DB, cfg cliparse.Config) *ChatHandler {
	return &ChatHandler{db: db, cfg: cfg}
}

// GetChat handles GET /chat
// The chat page itself requires a session; the message feed under /api/chat
// is public.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	_, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	messages, err := h.recentMessages()
	if err != nil {
		slog.Error("failed to query messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, messages)
}

// ListMessages handles GET /api/chat
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.recentMessages()
	if err != nil {
		slog.Error("failed to query messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, messages)
}

// PostMessage handles POST /api/chat
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	_, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req models.PostMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	messageID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate message ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to post message")
		return
	}

	// Username is snapshotted so the feed keeps its attribution even if
	// the account link is ever cleared.
	_, err = h.db.Exec(`
		INSERT INTO messages (id, user_id, username, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, messageID, user.ID, user.Username, text, time.Now())
	if err != nil {
		slog.Error("failed to insert message", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to post message")
		return
	}

	slog.Info("message posted", "message_id", messageID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.PostMessageResponse{
		OK: true,
		ID: messageID,
	})
}

// recentMessages returns the newest messages in chronological order
func (h *ChatHandler) recentMessages() ([]models.Message, error) {
	rows, err := h.db.Query(`
		SELECT id, username, text, created_at
		FROM (
			SELECT id, username, text, created_at
			FROM messages
			ORDER BY created_at DESC, id
			LIMIT $1
		) recent
		ORDER BY created_at ASC, id
	`, chatHistoryCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
