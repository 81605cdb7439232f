package domain

import "time"

// Account is the raw auth-subsystem identity row. It carries the password
// hash and must never cross the DAL boundary; callers receive a UserDTO
// projection instead.
type Account struct {
	ID            string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
}

// Session is a server-side login session referenced by a signed cookie.
// It is constructed per request and never outlives it.
type Session struct {
	ID        string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
