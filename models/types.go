package models

import "time"

// Role filter values for the user directory
const (
	RoleFilterAll   = "all"
	RoleFilterAdmin = "admin"
	RoleFilterGod   = "god"
)

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

type PostMessageRequest struct {
	Text string `json:"text"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Option may be absent, which is rejected for JSON votes
type VoteRequest struct {
	Option *int `json:"option"`
}

// Delta defaults to 1 when absent
type ClickRequest struct {
	Delta *int `json:"delta"`
}

// Response types

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type PostMessageResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
}

type ClickResponse struct {
	Points int `json:"points"`
}

type ToggleAdminResponse struct {
	AdminMode bool `json:"admin_mode"`
}

type PollTallies struct {
	Poll    Poll     `json:"poll"`
	Options []string `json:"options"`
	Counts  []int    `json:"counts"`
	Votes   int      `json:"votes"`
}

type IndexResponse struct {
	Polls       []Poll        `json:"polls"`
	TopClickers []UserProfile `json:"top_clickers"`
}

type ProfileResponse struct {
	User     UserProfile `json:"user"`
	Messages []Message   `json:"messages"`
}

type UserDirectoryResponse struct {
	Users []UserProfile `json:"users"`
	Query string        `json:"q"`
	Role  string        `json:"role"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	IsAdmin      bool      `json:"is_admin"`
	IsGod        bool      `json:"is_god"`
	Points       int       `json:"points"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	JoinedAt     time.Time `json:"joined_at"`
}

// UserProfile is the outward-facing account shape. Joined is a humanized
// relative time ("3 days ago") filled in by handlers.
type UserProfile struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
	IsGod    bool      `json:"is_god"`
	Points   int       `json:"points"`
	Avatar   string    `json:"avatar"`
	Bio      string    `json:"bio"`
	JoinedAt time.Time `json:"joined_at"`
	Joined   string    `json:"joined,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"-"` // nullable: cleared rows survive conceptually
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Poll struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type Vote struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	PollID      string `json:"poll_id"`
	OptionIndex int    `json:"option_index"`
}

type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"-"`
	AdminMode bool      `json:"admin_mode"`
	CreatedAt time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Profile converts a User to its outward-facing shape
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		IsGod:    u.IsGod,
		Points:   u.Points,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		JoinedAt: u.JoinedAt,
	}
}
