package storage

import (
	"context"
	"time"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage stores the single client session
type SessionStorage interface {
	// SaveSession replaces the stored session
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns the stored session
	// Returns ErrSessionNotFound if nothing is stored
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session
	// Returns ErrSessionNotFound if nothing is stored
	DeleteSession(ctx context.Context) error
}

// Session is the token pair of the logged in user.
// Expiry times are read from the tokens without signature verification
// and are only used for display.
type Session struct {
	SavedAt          time.Time `json:"saved_at"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	Username         string    `json:"username"`
	Role             string    `json:"role"`
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
}
