// Package jwt signs and verifies the access and refresh tokens exchanged
// with clients. Tokens are compact HS256 JWS strings.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Category distinguishes access tokens from refresh tokens
type Category string

const (
	// CategoryAccess marks a token that authenticates individual requests
	CategoryAccess Category = "access"
	// CategoryRefresh marks a token that can only be exchanged for a new pair
	CategoryRefresh Category = "refresh"
)

// ErrInvalidSignature is returned by Verify for any token that is malformed,
// signed with another key or algorithm, or carries an incomplete claim set.
var ErrInvalidSignature = errors.New("invalid token signature")

// Claims is the claim set carried by a token
type Claims struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
	Subject   string
	Role      string
	Category  Category
}

// tokenClaims is the wire form of Claims
type tokenClaims struct {
	Role     string   `json:"role"`
	Category Category `json:"category"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed tokens with a process-wide secret.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	now    func() time.Time
	parser *jwt.Parser
	secret []byte
}

// Option configures a Codec
type Option func(*Codec)

// WithClock replaces the wall clock used by IsExpired and by the Issuer
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec creates a codec signing with HS256 and the given secret
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Expiry is checked separately by IsExpired, so the parser only
	// verifies structure, algorithm and signature.
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	return c, nil
}

// Issue serializes and signs the claim set.
// Timestamps are truncated to whole seconds.
func (c *Codec) Issue(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("subject is required")
	}
	if claims.Category != CategoryAccess && claims.Category != CategoryRefresh {
		return "", fmt.Errorf("unknown token category %q", claims.Category)
	}

	issuedAt := jwt.NewNumericDate(claims.IssuedAt)
	expiresAt := jwt.NewNumericDate(claims.ExpiresAt)
	if !expiresAt.After(issuedAt.Time) {
		return "", errors.New("expiry must be after issue time")
	}

	wire := tokenClaims{
		Role:     claims.Role,
		Category: claims.Category,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			Subject:   claims.Subject,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wire)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the token signature and returns its claim set.
// An expired token still verifies; use IsExpired for that decision.
func (c *Codec) Verify(token string) (Claims, error) {
	var wire tokenClaims

	parsed, err := c.parser.ParseWithClaims(token, &wire, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidSignature
	}

	if wire.Subject == "" || wire.Category == "" || wire.IssuedAt == nil || wire.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: incomplete claim set", ErrInvalidSignature)
	}

	return Claims{
		ID:        wire.ID,
		Subject:   wire.Subject,
		Role:      wire.Role,
		Category:  wire.Category,
		IssuedAt:  wire.IssuedAt.Time,
		ExpiresAt: wire.ExpiresAt.Time,
	}, nil
}

// IsExpired reports whether the claim set has reached its expiry
func (c *Codec) IsExpired(claims Claims) bool {
	return !c.now().Before(claims.ExpiresAt)
}

// Now returns the codec clock reading
func (c *Codec) Now() time.Time {
	return c.now()
}
