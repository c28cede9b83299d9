// Package mongodb implements user and refresh token storage on MongoDB.
// Refresh token documents are keyed by the token hash and carry a TTL index
// on expires_at, so the server reaps them in the background as well.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection  = "users"
	tokensCollection = "refresh_tokens"
)

// Storage represents MongoDB storage implementation
type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
	tokens *mongo.Collection
	now    func() time.Time
}

// New connects to uri, ensures indexes and returns storage bound to database dbName
func New(ctx context.Context, uri, dbName string) (*Storage, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := NewWithDatabase(client.Database(dbName))
	s.client = client

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

// NewWithDatabase wraps an already connected database.
// Close is a no-op for storage created this way.
func NewWithDatabase(db *mongo.Database) *Storage {
	return &Storage{
		users:  db.Collection(usersCollection),
		tokens: db.Collection(tokensCollection),
		now:    time.Now,
	}
}

// Close disconnects the client owned by the storage
func (s *Storage) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = s.tokens.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create refresh token indexes: %w", err)
	}

	return nil
}
