// Package auth implements the token lifecycle: registration, login,
// refresh token rotation and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iudanet/jwtgate/internal/crypto"
	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/internal/server/jwt"
	"github.com/iudanet/jwtgate/internal/server/storage"
	"github.com/iudanet/jwtgate/internal/validation"
)

const (
	// DefaultRole is assigned to newly registered users unless configured otherwise
	DefaultRole = "ROLE_USER"
	// RoleAdmin is assigned to usernames listed in Config.AdminUsers
	RoleAdmin = "ROLE_ADMIN"
)

// Service is stateless apart from its collaborators and safe for concurrent use
type Service struct {
	logger      *slog.Logger
	users       storage.UserStorage
	tokens      storage.TokenStorage
	codec       *jwt.Codec
	issuer      *jwt.Issuer
	hasher      crypto.PasswordHasher
	admins      map[string]struct{}
	defaultRole string
}

// Config holds Service dependencies
type Config struct {
	Logger      *slog.Logger
	Users       storage.UserStorage
	Tokens      storage.TokenStorage
	Codec       *jwt.Codec
	Issuer      *jwt.Issuer
	Hasher      crypto.PasswordHasher
	DefaultRole string
	AdminUsers  []string
}

// NewService creates the auth service
func NewService(cfg Config) (*Service, error) {
	if cfg.Users == nil || cfg.Tokens == nil {
		return nil, errors.New("user and token storage are required")
	}
	if cfg.Codec == nil || cfg.Issuer == nil {
		return nil, errors.New("token codec and issuer are required")
	}
	if cfg.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	role := cfg.DefaultRole
	if role == "" {
		role = DefaultRole
	}

	admins := make(map[string]struct{}, len(cfg.AdminUsers))
	for _, name := range cfg.AdminUsers {
		admins[name] = struct{}{}
	}

	return &Service{
		logger:      logger,
		admins:      admins,
		users:       cfg.Users,
		tokens:      cfg.Tokens,
		codec:       cfg.Codec,
		issuer:      cfg.Issuer,
		hasher:      cfg.Hasher,
		defaultRole: role,
	}, nil
}

// Register creates a user with the default role
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         s.roleFor(username),
		CreatedAt:    s.codec.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Гонка двух регистраций с одним именем
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *Service) roleFor(username string) string {
	if _, ok := s.admins[username]; ok {
		return RoleAdmin
	}
	return s.defaultRole
}

// Login checks credentials and issues a token pair whose refresh token is persisted
func (s *Service) Login(ctx context.Context, username, password string) (jwt.Pair, error) {
	if username == "" || password == "" {
		return jwt.Pair{}, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return jwt.Pair{}, ErrInvalidCredentials
		}
		return jwt.Pair{}, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return jwt.Pair{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return jwt.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(user.Username, user.Role)
	if err != nil {
		return jwt.Pair{}, err
	}

	if err := s.tokens.SaveRefreshToken(ctx, s.refreshRecord(user.Username, pair)); err != nil {
		return jwt.Pair{}, fmt.Errorf("failed to save refresh token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.Username, s.codec.Now()); err != nil {
		s.logger.WarnContext(ctx, "failed to update last login",
			slog.String("username", user.Username),
			slog.Any("error", err))
	}

	return pair, nil
}

// Rotate exchanges a live refresh token for a new pair and revokes the presented token.
// Of two concurrent calls with the same token exactly one succeeds; the other gets ErrRevoked.
func (s *Service) Rotate(ctx context.Context, refreshToken string) (jwt.Pair, error) {
	claims, err := s.verifyRefresh(refreshToken, true)
	if err != nil {
		return jwt.Pair{}, err
	}

	oldHash := crypto.HashRefreshToken(refreshToken)
	if _, err := s.tokens.GetRefreshToken(ctx, oldHash); err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return jwt.Pair{}, ErrRevoked
		}
		return jwt.Pair{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	pair, err := s.issuer.IssuePair(claims.Subject, claims.Role)
	if err != nil {
		return jwt.Pair{}, err
	}

	err = s.tokens.RotateRefreshToken(ctx, oldHash, s.refreshRecord(claims.Subject, pair))
	if err != nil {
		// Токен успел использовать конкурентный запрос
		if errors.Is(err, storage.ErrTokenNotFound) {
			return jwt.Pair{}, ErrRevoked
		}
		return jwt.Pair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return pair, nil
}

// Logout revokes the presented refresh token. Expiry is not checked and
// revoking an already revoked token is not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.verifyRefresh(refreshToken, false); err != nil {
		return err
	}

	err := s.tokens.DeleteRefreshToken(ctx, crypto.HashRefreshToken(refreshToken))
	if err != nil && !errors.Is(err, storage.ErrTokenNotFound) {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// LogoutAll revokes every refresh token of the presented token's owner.
// The presented token must itself be live. Returns number of revoked tokens.
func (s *Service) LogoutAll(ctx context.Context, refreshToken string) (int, error) {
	claims, err := s.verifyRefresh(refreshToken, true)
	if err != nil {
		return 0, err
	}

	if _, err := s.tokens.GetRefreshToken(ctx, crypto.HashRefreshToken(refreshToken)); err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return 0, ErrRevoked
		}
		return 0, fmt.Errorf("failed to get refresh token: %w", err)
	}

	count, err := s.tokens.DeleteUserTokens(ctx, claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tokens: %w", err)
	}

	return count, nil
}

// ActiveSessions returns the number of live refresh tokens of username
func (s *Service) ActiveSessions(ctx context.Context, username string) (int, error) {
	tokens, err := s.tokens.GetUserTokens(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to get user tokens: %w", err)
	}
	return len(tokens), nil
}

// RefreshMaxAge returns the refresh token lifetime in seconds, used for the cookie Max-Age
func (s *Service) RefreshMaxAge() int {
	return int(s.issuer.RefreshTTL().Seconds())
}

func (s *Service) verifyRefresh(token string, checkExpiry bool) (jwt.Claims, error) {
	if token == "" {
		return jwt.Claims{}, ErrMissingToken
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		return jwt.Claims{}, ErrMalformedToken
	}

	if checkExpiry && s.codec.IsExpired(claims) {
		return jwt.Claims{}, ErrExpiredToken
	}

	if claims.Category != jwt.CategoryRefresh {
		return jwt.Claims{}, ErrWrongCategory
	}

	return claims, nil
}

func (s *Service) refreshRecord(username string, pair jwt.Pair) *models.RefreshToken {
	return &models.RefreshToken{
		TokenHash: crypto.HashRefreshToken(pair.RefreshToken),
		Username:  username,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: s.codec.Now(),
	}
}
