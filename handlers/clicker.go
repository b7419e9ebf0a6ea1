package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/middleware"
	"github.com/minf07l/olympiad-abyss/models"
)

type ClickerHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewClickerHandler(db *sql.DB, cfg cliparse.Config) *ClickerHandler {
	return &ClickerHandler{db: db, cfg: cfg}
}

// GetPoints handles GET /click
func (h *ClickerHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	_, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClickResponse{
		Points: user.Points,
	})
}

// Click handles POST /click
// Applies a delta (default 1) to the caller's points. The increment runs
// as a single UPDATE, so concurrent clicks never lose counts.
func (h *ClickerHandler) Click(w http.ResponseWriter, r *http.Request) {
	_, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	delta := 1
	if r.ContentLength != 0 {
		var req models.ClickRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Delta != nil {
			delta = *req.Delta
		}
	}

	_, err := h.db.Exec(`
		UPDATE users SET points = points + $1 WHERE id = $2
	`, delta, user.ID)
	if err != nil {
		slog.Error("failed to update points", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update points")
		return
	}

	var points int
	err = h.db.QueryRow(`SELECT points FROM users WHERE id = $1`, user.ID).Scan(&points)
	if err != nil {
		slog.Error("failed to read points", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClickResponse{
		Points: points,
	})
}
