// Package redisstore keeps refresh token records in Redis.
// Every record is a hash under rt:<token hash> with a PX expiry, and each
// user has an index set rtu:<username> of outstanding hashes.
//
// Scripts receive every key they touch through KEYS. Records are looked up
// by token hash alone, so a record and its user index cannot be pinned to
// one hash slot: only standalone Redis (or a single-shard deployment) is
// supported and New builds a plain client.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/internal/server/storage"
)

const (
	tokenPrefix = "rt:"
	userPrefix  = "rtu:"
)

const rotateScript = `
if redis.call("DEL", KEYS[1]) == 0 then
  return 0
end
redis.call("SREM", KEYS[3], ARGV[1])
redis.call("HSET", KEYS[2], "username", ARGV[3], "expires_at", ARGV[4], "created_at", ARGV[5])
redis.call("PEXPIRE", KEYS[2], ARGV[6])
redis.call("SADD", KEYS[3], ARGV[2])
return 1
`

// KEYS[1] record, KEYS[2] user index; ARGV[1] expected owner, ARGV[2] hash.
const deleteScript = `
if redis.call("HGET", KEYS[1], "username") ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[2])
return 1
`

// KEYS[1] user index, KEYS[2..n] records; ARGV[i] is the hash of KEYS[i+1].
// Only the listed hashes leave the index, a token saved concurrently survives.
const deleteUserScript = `
local deleted = 0
for i = 2, #KEYS do
  deleted = deleted + redis.call("DEL", KEYS[i])
  redis.call("SREM", KEYS[1], ARGV[i - 1])
end
if redis.call("SCARD", KEYS[1]) == 0 then
  redis.call("DEL", KEYS[1])
end
return deleted
`

var (
	rotateLua     = redis.NewScript(rotateScript)
	deleteLua     = redis.NewScript(deleteScript)
	deleteUserLua = redis.NewScript(deleteUserScript)
)

var _ storage.TokenStorage = (*TokenStore)(nil)

// TokenStore implements storage.TokenStorage on Redis
type TokenStore struct {
	redis redis.UniversalClient
	now   func() time.Time
}

// New connects to the Redis server at addr
func New(ctx context.Context, addr string) (*TokenStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client redis.UniversalClient) *TokenStore {
	return &TokenStore{redis: client, now: time.Now}
}

// Close closes the underlying client
func (s *TokenStore) Close() error {
	return s.redis.Close()
}

func tokenKey(hash string) string {
	return tokenPrefix + hash
}

func userKey(username string) string {
	return userPrefix + username
}

// SaveRefreshToken stores a new refresh token record.
// A record that is already expired is not stored at all.
func (s *TokenStore) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	ttl := token.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	key := tokenKey(token.TokenHash)
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"username", token.Username,
			"expires_at", token.ExpiresAt.UnixMilli(),
			"created_at", token.CreatedAt.UnixMilli(),
		)
		pipe.PExpire(ctx, key, ttl)
		pipe.SAdd(ctx, userKey(token.Username), token.TokenHash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves a live refresh token record by hash
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	fields, err := s.redis.HGetAll(ctx, tokenKey(tokenHash)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	token, err := decodeToken(tokenHash, fields)
	if err != nil {
		return nil, err
	}

	if token.IsExpired(s.now()) {
		return nil, storage.ErrTokenNotFound
	}

	return token, nil
}

// GetUserTokens retrieves all live refresh token records for a user
func (s *TokenStore) GetUserTokens(ctx context.Context, username string) ([]*models.RefreshToken, error) {
	hashes, err := s.redis.SMembers(ctx, userKey(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query user tokens: %w", err)
	}

	tokens := make([]*models.RefreshToken, 0, len(hashes))
	for _, hash := range hashes {
		token, err := s.GetRefreshToken(ctx, hash)
		if errors.Is(err, storage.ErrTokenNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].CreatedAt.After(tokens[j].CreatedAt)
	})

	return tokens, nil
}

// RotateRefreshToken atomically replaces the live record oldHash with next.
// The Lua script runs as a single command, so concurrent rotations of the
// same hash are serialised and only the first sees the old key.
func (s *TokenStore) RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken) error {
	ttl := next.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("refresh token %s is already expired", next.TokenHash)
	}

	res, err := rotateLua.Run(ctx, s.redis,
		[]string{tokenKey(oldHash), tokenKey(next.TokenHash), userKey(next.Username)},
		oldHash,
		next.TokenHash,
		next.Username,
		next.ExpiresAt.UnixMilli(),
		next.CreatedAt.UnixMilli(),
		ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	if res == 0 {
		return storage.ErrTokenNotFound
	}

	return nil
}

// DeleteRefreshToken deletes refresh token record by hash
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	key := tokenKey(tokenHash)

	username, err := s.redis.HGet(ctx, key, "username").Result()
	if errors.Is(err, redis.Nil) {
		return storage.ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	res, err := deleteLua.Run(ctx, s.redis, []string{key, userKey(username)}, username, tokenHash).Int64()
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	// Record was deleted or rotated between HGET and the script
	if res == 0 {
		return storage.ErrTokenNotFound
	}

	return nil
}

// DeleteUserTokens deletes all refresh token records for a user
func (s *TokenStore) DeleteUserTokens(ctx context.Context, username string) (int, error) {
	hashes, err := s.redis.SMembers(ctx, userKey(username)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tokens: %w", err)
	}
	if len(hashes) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(hashes)+1)
	args := make([]any, 0, len(hashes))
	keys = append(keys, userKey(username))
	for _, hash := range hashes {
		keys = append(keys, tokenKey(hash))
		args = append(args, hash)
	}

	res, err := deleteUserLua.Run(ctx, s.redis, keys, args...).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tokens: %w", err)
	}

	return int(res), nil
}

// DeleteExpiredTokens prunes index entries whose record Redis has already expired.
// Returns number of pruned entries.
func (s *TokenStore) DeleteExpiredTokens(ctx context.Context) (int, error) {
	pruned := 0

	iter := s.redis.Scan(ctx, 0, userPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()

		hashes, err := s.redis.SMembers(ctx, setKey).Result()
		if err != nil {
			return pruned, fmt.Errorf("failed to read token index: %w", err)
		}

		for _, hash := range hashes {
			exists, err := s.redis.Exists(ctx, tokenKey(hash)).Result()
			if err != nil {
				return pruned, fmt.Errorf("failed to check refresh token: %w", err)
			}
			if exists == 0 {
				if err := s.redis.SRem(ctx, setKey, hash).Err(); err != nil {
					return pruned, fmt.Errorf("failed to prune token index: %w", err)
				}
				pruned++
			}
		}
	}

	if err := iter.Err(); err != nil {
		return pruned, fmt.Errorf("failed to scan token indexes: %w", err)
	}

	return pruned, nil
}

func decodeToken(hash string, fields map[string]string) (*models.RefreshToken, error) {
	username, ok := fields["username"]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}

	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt refresh token record %s: %w", hash, err)
	}

	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt refresh token record %s: %w", hash, err)
	}

	return &models.RefreshToken{
		TokenHash: hash,
		Username:  username,
		ExpiresAt: time.UnixMilli(expiresAt),
		CreatedAt: time.UnixMilli(createdAt),
	}, nil
}
