/*
Package router defines HTTP routes for the Olympiad Abyss API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Accounts:

	POST /register - Create account
	POST /login    - Start session, returns signed token
	GET  /logout   - Destroy session
	GET  /profile  - Own account plus recent messages
	POST /profile  - Update avatar and bio

Chat:

	GET  /chat     - Message feed (session required)
	GET  /api/chat - Message feed (public)
	POST /api/chat - Post a message

Polls:

	GET  /polls     - All polls
	POST /polls     - Create poll (no session needed)
	GET  /poll/{id} - Poll with tallies
	POST /poll/{id} - Cast a vote (one per user)

Clicker:

	GET  /click - Current points
	POST /click - Apply a delta (default 1)

Moderation (admin mode or god):

	GET  /admin               - All accounts, newest first
	GET  /toggle_admin        - Flip the session's admin mode
	POST /admin/delete/{uid}  - Cascade-delete an account
	POST /admin/promote/{uid} - Grant admin (god only)
	POST /admin/demote/{uid}  - Revoke admin (god only)

Directory:

	GET /users - Filterable user directory (public)

Index:

	GET / - Recent polls and the points leaderboard
*/
package router
