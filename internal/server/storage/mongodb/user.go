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

type userDocument struct {
	CreatedAt    time.Time  `bson:"created_at"`
	LastLogin    *time.Time `bson:"last_login,omitempty"`
	ID           string     `bson:"_id"`
	Username     string     `bson:"username"`
	PasswordHash string     `bson:"password_hash"`
	Role         string     `bson:"role"`
}

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	doc := userDocument{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		LastLogin:    user.LastLogin,
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDocument

	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &models.User{
		ID:           doc.ID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
		CreatedAt:    doc.CreatedAt,
		LastLogin:    doc.LastLogin,
	}, nil
}

// ExistsByUsername reports whether a user with this username exists
func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	count, err := s.users.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}

	return count > 0, nil
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, username string, lastLogin time.Time) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"last_login": lastLogin}},
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	if res.MatchedCount == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}
