package storage

import (
	"context"
	"time"

	"github.com/iudanet/jwtgate/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if username already exists
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsername reports whether a user with this username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// UpdateLastLogin updates the last login timestamp
	// Returns ErrUserNotFound if user doesn't exist
	UpdateLastLogin(ctx context.Context, username string, lastLogin time.Time) error
}

// Storage is a backend holding both users and refresh tokens
type Storage interface {
	UserStorage
	TokenStorage
	Close() error
}
