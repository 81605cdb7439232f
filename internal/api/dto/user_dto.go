package dto

import (
	"time"

	"github.com/spec-kit/creator-platform/internal/domain"
)

// UserDTO is the only identity shape that leaves the server boundary.
// The field list is an explicit allow-list; password hashes and session
// tokens structurally cannot appear here.
type UserDTO struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	Verified    bool        `json:"verified"`
	CreatedAt   time.Time   `json:"created_at"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
