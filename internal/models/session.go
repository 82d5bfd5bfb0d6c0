package models

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID           uuid.UUID `json:"id" example:"a1b2c3d4-e5f6-7890-1234-567890abcdef"`
	UserID       int64     `json:"-"`
	SessionToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Valid reports whether the session is still active at now.
func (s *Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
