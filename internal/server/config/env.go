package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variable names
const (
	EnvAddr           = "JWTGATE_ADDR"
	EnvSecret         = "JWTGATE_SECRET"
	EnvAccessTTL      = "JWTGATE_ACCESS_TTL"
	EnvRefreshTTL     = "JWTGATE_REFRESH_TTL"
	EnvStorage        = "JWTGATE_STORAGE"
	EnvDatabaseDSN    = "JWTGATE_DATABASE_DSN"
	EnvMongoDatabase  = "JWTGATE_MONGO_DB"
	EnvRedisAddr      = "JWTGATE_REDIS_ADDR"
	EnvPasswordHasher = "JWTGATE_PASSWORD_HASHER"
	EnvDefaultRole    = "JWTGATE_DEFAULT_ROLE"
	EnvAdminUsers     = "JWTGATE_ADMIN_USERS"
	EnvCookieSecure   = "JWTGATE_COOKIE_SECURE"
	EnvAuthRateLimit  = "JWTGATE_AUTH_RATE_LIMIT"
	EnvLogLevel       = "JWTGATE_LOG_LEVEL"
	EnvLogFormat      = "JWTGATE_LOG_FORMAT"
	EnvTrustedProxies = "JWTGATE_TRUSTED_PROXIES"
)

type lookupFunc func(key string) (string, bool)

// applyEnv overlays values found in the environment.
// A set but unparsable value is an error, not a silent fallback.
func (c *Config) applyEnv(lookup lookupFunc) error {
	strVars := map[string]*string{
		EnvAddr:           &c.Addr,
		EnvSecret:         &c.Secret,
		EnvStorage:        &c.Storage,
		EnvDatabaseDSN:    &c.DatabaseDSN,
		EnvMongoDatabase:  &c.MongoDatabase,
		EnvRedisAddr:      &c.RedisAddr,
		EnvPasswordHasher: &c.PasswordHasher,
		EnvDefaultRole:    &c.DefaultRole,
		EnvLogLevel:       &c.LogLevel,
		EnvLogFormat:      &c.LogFormat,
	}
	for key, dst := range strVars {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvAdminUsers); ok {
		c.AdminUsers = splitList(v)
	}
	if v, ok := lookup(EnvTrustedProxies); ok {
		c.TrustedProxies = splitList(v)
	}

	durVars := map[string]*time.Duration{
		EnvAccessTTL:  &c.AccessTokenTTL,
		EnvRefreshTTL: &c.RefreshTokenTTL,
	}
	for key, dst := range durVars {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvCookieSecure); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvCookieSecure, err)
		}
		c.CookieSecure = b
	}

	if v, ok := lookup(EnvAuthRateLimit); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAuthRateLimit, err)
		}
		c.AuthRateLimit = n
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
