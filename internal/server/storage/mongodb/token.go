package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/internal/server/storage"
)

var _ storage.Storage = (*Storage)(nil)

type tokenDocument struct {
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
	TokenHash string    `bson:"_id"`
	Username  string    `bson:"username"`
}

func newTokenDocument(token *models.RefreshToken) tokenDocument {
	return tokenDocument{
		TokenHash: token.TokenHash,
		Username:  token.Username,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
}

func (d tokenDocument) model() *models.RefreshToken {
	return &models.RefreshToken{
		TokenHash: d.TokenHash,
		Username:  d.Username,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}

// liveFilter matches the record only while it has not expired
func (s *Storage) liveFilter(tokenHash string) bson.M {
	return bson.M{"_id": tokenHash, "expires_at": bson.M{"$gt": s.now()}}
}

// SaveRefreshToken stores a new refresh token record
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	_, err := s.tokens.ReplaceOne(ctx,
		bson.M{"_id": token.TokenHash},
		newTokenDocument(token),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves a live refresh token record by hash
func (s *Storage) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var doc tokenDocument

	err := s.tokens.FindOne(ctx, s.liveFilter(tokenHash)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return doc.model(), nil
}

// GetUserTokens retrieves all live refresh token records for a user
func (s *Storage) GetUserTokens(ctx context.Context, username string) ([]*models.RefreshToken, error) {
	cursor, err := s.tokens.Find(ctx,
		bson.M{"username": username, "expires_at": bson.M{"$gt": s.now()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query user tokens: %w", err)
	}

	var docs []tokenDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode user tokens: %w", err)
	}

	tokens := make([]*models.RefreshToken, 0, len(docs))
	for _, doc := range docs {
		tokens = append(tokens, doc.model())
	}

	return tokens, nil
}

// RotateRefreshToken deletes the live record oldHash and stores next.
// DeleteOne is atomic per document, so only one of several concurrent
// rotations observes DeletedCount == 1 and goes on to insert.
func (s *Storage) RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken) error {
	res, err := s.tokens.DeleteOne(ctx, s.liveFilter(oldHash))
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if res.DeletedCount == 0 {
		return storage.ErrTokenNotFound
	}

	if _, err := s.tokens.InsertOne(ctx, newTokenDocument(next)); err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}

	return nil
}

// DeleteRefreshToken deletes refresh token record by hash
func (s *Storage) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	res, err := s.tokens.DeleteOne(ctx, bson.M{"_id": tokenHash})
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if res.DeletedCount == 0 {
		return storage.ErrTokenNotFound
	}

	return nil
}

// DeleteUserTokens deletes all refresh token records for a user
func (s *Storage) DeleteUserTokens(ctx context.Context, username string) (int, error) {
	res, err := s.tokens.DeleteMany(ctx, bson.M{"username": username})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tokens: %w", err)
	}

	return int(res.DeletedCount), nil
}

// DeleteExpiredTokens removes all expired records
func (s *Storage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	res, err := s.tokens.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": s.now()}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	return int(res.DeletedCount), nil
}
