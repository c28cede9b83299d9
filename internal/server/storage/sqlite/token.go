package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/internal/server/storage"
)

var _ storage.Storage = (*Storage)(nil)

// SaveRefreshToken stores a new refresh token record
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT OR REPLACE INTO refresh_tokens (token_hash, username, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.TokenHash,
		token.Username,
		token.ExpiresAt.UnixMilli(),
		token.CreatedAt.UnixMilli(),
	)

	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves a live refresh token record by hash
func (s *Storage) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT token_hash, username, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = ? AND expires_at > ?
	`

	refreshToken, err := scanToken(s.db.QueryRowContext(ctx, query, tokenHash, s.now().UnixMilli()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return refreshToken, nil
}

// GetUserTokens retrieves all live refresh token records for a user
func (s *Storage) GetUserTokens(ctx context.Context, username string) ([]*models.RefreshToken, error) {
	query := `
		SELECT token_hash, username, expires_at, created_at
		FROM refresh_tokens
		WHERE username = ? AND expires_at > ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, username, s.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query user tokens: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tokens := make([]*models.RefreshToken, 0)

	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tokens, nil
}

// RotateRefreshToken atomically replaces the live record oldHash with next
func (s *Storage) RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = ? AND expires_at > ?`,
		oldHash, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Токен уже использован, отозван или истек
	if rows == 0 {
		return storage.ErrTokenNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token_hash, username, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		next.TokenHash,
		next.Username,
		next.ExpiresAt.UnixMilli(),
		next.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

// DeleteRefreshToken deletes refresh token record by hash
func (s *Storage) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM refresh_tokens WHERE token_hash = ?`

	result, err := s.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrTokenNotFound
	}

	return nil
}

// DeleteUserTokens deletes all refresh token records for a user
func (s *Storage) DeleteUserTokens(ctx context.Context, username string) (int, error) {
	query := `DELETE FROM refresh_tokens WHERE username = ?`

	result, err := s.db.ExecContext(ctx, query, username)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// DeleteExpiredTokens removes all expired records
func (s *Storage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at <= ?`

	result, err := s.db.ExecContext(ctx, query, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanToken(row rowScanner) (*models.RefreshToken, error) {
	var (
		token     models.RefreshToken
		expiresAt int64
		createdAt int64
	)

	if err := row.Scan(&token.TokenHash, &token.Username, &expiresAt, &createdAt); err != nil {
		return nil, err
	}

	token.ExpiresAt = time.UnixMilli(expiresAt)
	token.CreatedAt = time.UnixMilli(createdAt)

	return &token, nil
}
