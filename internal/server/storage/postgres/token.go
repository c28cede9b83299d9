package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/internal/server/storage"
)

var _ storage.Storage = (*Storage)(nil)

// SaveRefreshToken stores a new refresh token record
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token_hash, username, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO UPDATE
		SET username = EXCLUDED.username, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at
	`

	_, err := s.db.ExecContext(ctx, query, token.TokenHash, token.Username, token.ExpiresAt, token.CreatedAt)
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
		WHERE token_hash = $1 AND expires_at > $2
	`

	token := &models.RefreshToken{}
	err := s.db.QueryRowContext(ctx, query, tokenHash, s.now()).Scan(
		&token.TokenHash,
		&token.Username,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return token, nil
}

// GetUserTokens retrieves all live refresh token records for a user
func (s *Storage) GetUserTokens(ctx context.Context, username string) ([]*models.RefreshToken, error) {
	query := `
		SELECT token_hash, username, expires_at, created_at
		FROM refresh_tokens
		WHERE username = $1 AND expires_at > $2
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, username, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to query user tokens: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tokens := make([]*models.RefreshToken, 0)
	for rows.Next() {
		token := &models.RefreshToken{}
		if err := rows.Scan(&token.TokenHash, &token.Username, &token.ExpiresAt, &token.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tokens, nil
}

// RotateRefreshToken atomically replaces the live record oldHash with next.
// The row lock taken by DELETE makes a concurrent rotation of the same hash
// wait for this transaction and then see zero affected rows.
func (s *Storage) RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = $1 AND expires_at > $2`,
		oldHash, s.now(),
	)
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

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token_hash, username, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		next.TokenHash, next.Username, next.ExpiresAt, next.CreatedAt,
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
	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
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
	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE username = $1`, username)
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
	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
