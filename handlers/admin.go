package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/middleware"
	"github.com/minf07l/olympiad-abyss/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

// AdminPanel handles GET /admin
// Lists every account, newest first. Admins must have admin mode switched
// on; god gets in regardless.
func (h *AdminHandler) AdminPanel(w http.ResponseWriter, r *http.Request) {
	_, user := h.requirePanelAccess(w, r)
	if user == nil {
		return
	}

	users, err := h.queryUsers(`
		SELECT id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at
		FROM users
		ORDER BY joined_at DESC, id
	`)
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserDirectoryResponse{
		Users: users,
		Query: "",
		Role:  models.RoleFilterAll,
	})
}

// ToggleAdminMode handles GET /toggle_admin
// Flips the session's admin_mode switch. The switch lives on the session,
// not the account, so logging out resets it.
func (h *AdminHandler) ToggleAdminMode(w http.ResponseWriter, r *http.Request) {
	sess, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	if !models.CanToggleAdminMode(models.RoleOf(user)) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return
	}

	newMode := !sess.AdminMode
	_, err := h.db.Exec(`
		UPDATE sessions SET admin_mode = $1 WHERE id = $2
	`, newMode, sess.ID)
	if err != nil {
		slog.Error("failed to toggle admin mode", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle admin mode")
		return
	}

	slog.Info("admin mode toggled", "user_id", user.ID, "admin_mode", newMode)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleAdminResponse{
		AdminMode: newMode,
	})
}

// DeleteAccount handles POST /admin/delete/{uid}
// Cascade-deletes the target's messages, votes, and sessions along with the
// account itself, inside one transaction.
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess, caller := h.requirePanelAccess(w, r)
	if caller == nil {
		return
	}

	target, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	if err := models.CheckDeleteAccount(caller, sess.AdminMode, target); err != nil {
		h.writeRuleError(w, err)
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM messages WHERE user_id = $1`,
		`DELETE FROM votes WHERE user_id = $1`,
		`DELETE FROM sessions WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	} {
		if _, err := tx.Exec(q, target.ID); err != nil {
			slog.Error("failed to delete account data", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete account")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit deletion", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	slog.Info("account deleted", "target_id", target.ID, "target_username", target.Username,
		"caller_id", caller.ID)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Promote handles POST /admin/promote/{uid}
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	h.setAdminFlag(w, r, true)
}

// Demote handles POST /admin/demote/{uid}
func (h *AdminHandler) Demote(w http.ResponseWriter, r *http.Request) {
	h.setAdminFlag(w, r, false)
}

// setAdminFlag applies the god-only promote/demote rule. Setting the flag
// to its current value is a no-op success.
func (h *AdminHandler) setAdminFlag(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	_, caller := CurrentSession(h.db, h.cfg, r)
	if caller == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return
	}

	target, ok := h.loadTarget(w, r)
	if !ok {
		return
	}

	if err := models.CheckChangeAdminFlag(caller, target); err != nil {
		h.writeRuleError(w, err)
		return
	}

	_, err := h.db.Exec(`
		UPDATE users SET is_admin = $1 WHERE id = $2
	`, isAdmin, target.ID)
	if err != nil {
		slog.Error("failed to update admin flag", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	slog.Info("admin flag changed", "target_id", target.ID, "is_admin", isAdmin,
		"caller_id", caller.ID)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// UsersDirectory handles GET /users
// Public directory with optional substring and role filters.
func (h *AdminHandler) UsersDirectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	role := r.URL.Query().Get("role")
	if role == "" {
		role = models.RoleFilterAll
	}

	query := `
		SELECT id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at
		FROM users
		WHERE username LIKE '%' || $1 || '%'
	`
	// Unrecognized role values apply no filter, same as "all"
	switch role {
	case models.RoleFilterAdmin:
		query += ` AND is_admin = TRUE`
	case models.RoleFilterGod:
		query += ` AND is_god = TRUE`
	}
	query += ` ORDER BY joined_at DESC, id`

	users, err := h.queryUsers(query, q)
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserDirectoryResponse{
		Users: users,
		Query: q,
		Role:  role,
	})
}

// requirePanelAccess resolves the session and rejects callers without
// panel access. Returns nils after writing the response on rejection.
func (h *AdminHandler) requirePanelAccess(w http.ResponseWriter, r *http.Request) (*models.Session, *models.User) {
	sess, user := CurrentSession(h.db, h.cfg, r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Login required")
		return nil, nil
	}
	if !models.CanUseAdminPanel(models.RoleOf(user), sess.AdminMode) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return nil, nil
	}
	return sess, user
}

// loadTarget resolves the {uid} path value to an account, writing 404 on
// a miss
func (h *AdminHandler) loadTarget(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	uid := r.PathValue("uid")
	if uid == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user id is required")
		return nil, false
	}

	target, err := getUserByID(h.db, uid)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	return target, true
}

// writeRuleError maps authorization rule errors to HTTP responses
func (h *AdminHandler) writeRuleError(w http.ResponseWriter, err error) {
	switch err {
	case models.ErrForbidden:
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
	case models.ErrCannotDeleteSelf:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot delete your own account")
	case models.ErrCannotDeleteElevated:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot delete admin or god accounts")
	case models.ErrGodImmutable:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot change the god account")
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// queryUsers runs a user query and humanizes each join time
func (h *AdminHandler) queryUsers(query string, args ...any) ([]models.UserProfile, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserProfile{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.IsGod,
			&u.Points, &u.Avatar, &u.Bio, &u.JoinedAt); err != nil {
			return nil, err
		}
		p := u.Profile()
		p.Joined = humanize.Time(u.JoinedAt)
		users = append(users, p)
	}
	return users, rows.Err()
}
