package storage

import (
	"context"

	"github.com/iudanet/jwtgate/internal/models"
)

// TokenStorage defines interface for refresh token persistence.
// Records are addressed by the SHA-256 hash of the token value.
// A record whose ExpiresAt has passed is treated as absent by every lookup.
type TokenStorage interface {
	// SaveRefreshToken stores a new refresh token record
	// If a record with the same hash exists, it will be replaced
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves a live refresh token record by hash
	// Returns ErrTokenNotFound if the record doesn't exist or has expired
	GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// GetUserTokens retrieves all live refresh token records for a user
	// Returns empty slice if no tokens found
	GetUserTokens(ctx context.Context, username string) ([]*models.RefreshToken, error)

	// RotateRefreshToken atomically deletes the live record oldHash and stores next.
	// Returns ErrTokenNotFound and stores nothing if oldHash is not live;
	// of two concurrent rotations of the same hash exactly one succeeds.
	RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken) error

	// DeleteRefreshToken deletes refresh token record by hash
	// Returns ErrTokenNotFound if the record doesn't exist
	DeleteRefreshToken(ctx context.Context, tokenHash string) error

	// DeleteUserTokens deletes all refresh token records for a user
	// Returns number of deleted records
	DeleteUserTokens(ctx context.Context, username string) (int, error)

	// DeleteExpiredTokens removes all expired records
	// Returns number of deleted records
	DeleteExpiredTokens(ctx context.Context) (int, error)
}
