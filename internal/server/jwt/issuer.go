package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pair is a freshly minted access/refresh token pair
type Pair struct {
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	AccessToken      string
	RefreshToken     string
}

// Issuer builds token pairs for an authenticated principal.
// It never touches storage; persisting the refresh token is the caller's job.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an issuer with the given token lifetimes
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if codec == nil {
		return nil, errors.New("codec is required")
	}
	// NumericDate has one-second resolution
	if accessTTL < time.Second || refreshTTL < time.Second {
		return nil, errors.New("token lifetimes must be at least one second")
	}

	return &Issuer{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssuePair signs an access token and a refresh token for username/role.
// The two claim sets differ only in category, lifetime and token ID.
func (i *Issuer) IssuePair(username, role string) (Pair, error) {
	now := i.codec.Now()

	access := Claims{
		ID:        uuid.NewString(),
		Subject:   username,
		Role:      role,
		Category:  CategoryAccess,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.accessTTL),
	}
	refresh := access
	refresh.ID = uuid.NewString()
	refresh.Category = CategoryRefresh
	refresh.ExpiresAt = now.Add(i.refreshTTL)

	accessToken, err := i.codec.Issue(access)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := i.codec.Issue(refresh)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return Pair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  access.ExpiresAt.Truncate(time.Second),
		RefreshExpiresAt: refresh.ExpiresAt.Truncate(time.Second),
	}, nil
}

// AccessTTL returns the configured access token lifetime
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// RefreshTTL returns the configured refresh token lifetime
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}
