package router

import (
	"database/sql"
	"net/http"

	"github.com/minf07l/olympiad-abyss/cliparse"
	"github.com/minf07l/olympiad-abyss/handlers"
	"github.com/minf07l/olympiad-abyss/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	chatHandler := handlers.NewChatHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)
	clickerHandler := handlers.NewClickerHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("GET /logout", middleware.WithLogging(accountHandler.Logout))
	mux.HandleFunc("GET /profile", middleware.WithLogging(accountHandler.GetProfile))
	mux.HandleFunc("POST /profile", middleware.WithLogging(accountHandler.UpdateProfile))

	// Chat
	mux.HandleFunc("GET /chat", middleware.WithLogging(chatHandler.GetChat))
	mux.HandleFunc("GET /api/chat", middleware.WithLogging(chatHandler.ListMessages))
	mux.HandleFunc("POST /api/chat", middleware.WithLogging(chatHandler.PostMessage))

	// Polls and voting
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /poll/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /poll/{id}", middleware.WithLogging(pollHandler.Vote))

	// Clicker
	mux.HandleFunc("GET /click", middleware.WithLogging(clickerHandler.GetPoints))
	mux.HandleFunc("POST /click", middleware.WithLogging(clickerHandler.Click))

	// Moderation
	mux.HandleFunc("GET /admin", middleware.WithLogging(adminHandler.AdminPanel))
	mux.HandleFunc("GET /toggle_admin", middleware.WithLogging(adminHandler.ToggleAdminMode))
	mux.HandleFunc("POST /admin/delete/{uid}", middleware.WithLogging(adminHandler.DeleteAccount))
	mux.HandleFunc("POST /admin/promote/{uid}", middleware.WithLogging(adminHandler.Promote))
	mux.HandleFunc("POST /admin/demote/{uid}", middleware.WithLogging(adminHandler.Demote))

	// User directory (public)
	mux.HandleFunc("GET /users", middleware.WithLogging(adminHandler.UsersDirectory))

	// Index: recent polls plus the points leaderboard
	mux.HandleFunc("GET /{$}", middleware.WithLogging(pollHandler.Index))

	return mux
}
