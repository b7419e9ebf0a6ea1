package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minf07l/olympiad-abyss/auth"
	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/middleware"
	"github.com/minf07l/olympiad-abyss/models"
)

// The index page shows this many recent polls and top point-holders
const indexPageSize = 6

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// Index handles GET /
// Returns the most recent polls and the points leaderboard.
func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, question, options
		FROM polls
		ORDER BY created_at DESC, id
		LIMIT $1
	`, indexPageSize)
	if err != nil {
		slog.Error("failed to query polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	polls, err := scanPolls(rows)
	if err != nil {
		slog.Error("failed to scan polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	userRows, err := h.db.Query(`
		SELECT id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at
		FROM users
		ORDER BY points DESC, username
		LIMIT $1
	`, indexPageSize)
	if err != nil {
		slog.Error("failed to query top clickers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer userRows.Close()

	topClickers := []models.UserProfile{}
	for userRows.Next() {
		var u models.User
		if err := userRows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.IsGod,
			&u.Points, &u.Avatar, &u.Bio, &u.JoinedAt); err != nil {
			slog.Error("failed to scan user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		topClickers = append(topClickers, u.Profile())
	}

	middleware.JSONResponse(w, http.StatusOK, models.IndexResponse{
		Polls:       polls,
		TopClickers: topClickers,
	})
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, question, options
		FROM polls
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		slog.Error("failed to query polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	polls, err := scanPolls(rows)
	if err != nil {
		slog.Error("failed to scan polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// CreatePoll handles POST /polls
// Poll creation deliberately requires no session, while voting does; the
// asymmetry is preserved from the original design.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(req.Question) > 300 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question must be at most 300 characters")
		return
	}

	// Blank options are dropped; what remains is fixed for the poll's life
	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		if o := strings.TrimSpace(opt); o != "" {
			options = append(options, o)
		}
	}
	if len(options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least 2 options are required")
		return
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		slog.Error("failed to encode options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	pollID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate poll ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO polls (id, question, options, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, req.Question, string(optionsJSON), time.Now())
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID: pollID,
	})
}

// GetPoll handles GET /poll/{id}
// Returns the poll with per-option counts and the total vote count.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.getPoll(pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	counts, total, err := h.tally(poll)
	if err != nil {
		slog.Error("failed to tally votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollTallies{
		Poll:    *poll,
		Options: poll.Options,
		Counts:  counts,
		Votes:   total,
	})
}

// Vote handles POST /poll/{id}
// Accepts a JSON body {"option": n} or a form field "option". Validation
// order: authentication, option range, then the one-vote-per-user rule.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.getPoll(pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	isJSON := middleware.IsJSONRequest(r)
	idx, ok := parseVoteOption(r, isJSON)

	_, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		// Browser form posts go back to the login page; API clients
		// get the status code.
		if isJSON {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		} else {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
		return
	}

	if !ok || idx < 0 || idx >= len(poll.Options) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid choice")
		return
	}

	// Friendly pre-check; the UNIQUE (user_id, poll_id) constraint below
	// is what actually closes the duplicate-vote race.
	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM votes WHERE user_id = $1 AND poll_id = $2)
	`, user.ID, pollID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict, "Already voted")
		return
	}

	voteID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate vote ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to vote")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO votes (id, user_id, poll_id, option_index)
		VALUES ($1, $2, $3, $4)
	`, voteID, user.ID, pollID, idx)
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Already voted")
			return
		}
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to vote")
		return
	}

	slog.Info("vote recorded", "poll_id", pollID, "user_id", user.ID, "option", idx)

	middleware.JSONResponse(w, http.StatusCreated, models.OKResponse{OK: true})
}

// getPoll loads a poll and decodes its option list
func (h *PollHandler) getPoll(pollID string) (*models.Poll, error) {
	var poll models.Poll
	var optionsJSON string
	err := h.db.QueryRow(`
		SELECT id, question, options FROM polls WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &optionsJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &poll.Options); err != nil {
		return nil, err
	}
	return &poll, nil
}

// tally counts votes per option index. Every option reports a count, zero
// included; rows with an out-of-range index are ignored rather than crash
// the page. The total is the row count, which equals the sum of the
// per-option counts by construction.
func (h *PollHandler) tally(poll *models.Poll) ([]int, int, error) {
	rows, err := h.db.Query(`
		SELECT option_index, COUNT(*)
		FROM votes
		WHERE poll_id = $1
		GROUP BY option_index
	`, poll.ID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := make([]int, len(poll.Options))
	total := 0
	for rows.Next() {
		var idx, n int
		if err := rows.Scan(&idx, &n); err != nil {
			return nil, 0, err
		}
		if idx >= 0 && idx < len(counts) {
			counts[idx] += n
		}
		total += n
	}
	return counts, total, rows.Err()
}

// parseVoteOption reads the chosen option from a JSON or form body.
// Returns ok=false when the body is missing or malformed.
func parseVoteOption(r *http.Request, isJSON bool) (int, bool) {
	if isJSON {
		var req models.VoteRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil || req.Option == nil {
			return -1, false
		}
		return *req.Option, true
	}

	if err := r.ParseForm(); err != nil {
		return -1, false
	}
	raw := r.PostFormValue("option")
	if raw == "" {
		return -1, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return -1, false
	}
	return idx, true
}

// scanPolls drains a poll query, decoding each option list
func scanPolls(rows *sql.Rows) ([]models.Poll, error) {
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var poll models.Poll
		var optionsJSON string
		if err := rows.Scan(&poll.ID, &poll.Question, &optionsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(optionsJSON), &poll.Options); err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}
	return polls, rows.Err()
}
