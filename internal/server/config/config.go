// Package config handles configuration for the server component:
// defaults, then JWTGATE_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"
)

// Storage backends
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// MinSecretLen is the minimal HS256 secret length in bytes
const MinSecretLen = 32

// Config holds runtime settings for the jwtgate server.
//
// Fields:
//   - Addr: bind address of the HTTP server.
//   - Secret: HMAC secret for signing tokens (HS256), at least 32 bytes.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - Storage / DatabaseDSN / MongoDatabase: user and refresh token storage.
//   - RedisAddr: optional Redis holding refresh tokens instead of the main storage.
//   - PasswordHasher: "bcrypt" or "argon2".
//   - DefaultRole / AdminUsers: role assignment on registration.
//   - AuthRateLimit: requests per minute per client IP on /join, /login, /reissue.
//   - TrustedProxies: peers (IPs or CIDRs) whose X-Forwarded-For / X-Real-IP
//     headers are honoured when resolving the client IP. Empty means the
//     TCP peer address is always used.
type Config struct {
	Addr            string
	Secret          string
	Storage         string
	DatabaseDSN     string
	MongoDatabase   string
	RedisAddr       string
	PasswordHasher  string
	DefaultRole     string
	LogLevel        string
	LogFormat       string
	AdminUsers      []string
	TrustedProxies  []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ShutdownTimeout time.Duration
	AuthRateLimit   int
	CookieSecure    bool
}

// LoadDefaults populates Config with development defaults.
// Secret has no default and must be provided.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.Secret = ""
	c.AccessTokenTTL = 10 * time.Minute
	c.RefreshTokenTTL = 24 * time.Hour
	c.Storage = StorageSQLite
	c.DatabaseDSN = "jwtgate.db"
	c.MongoDatabase = "jwt_project"
	c.RedisAddr = ""
	c.PasswordHasher = "bcrypt"
	c.DefaultRole = "ROLE_USER"
	c.AdminUsers = nil
	c.TrustedProxies = nil
	c.CookieSecure = false
	c.AuthRateLimit = 20
	c.LogLevel = "info"
	c.LogFormat = LogFormatText
	c.ShutdownTimeout = 10 * time.Second
}

// Load builds a Config by applying defaults, then overlaying values
// from the environment and finally from command-line arguments.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	var errs []error

	if len(c.Secret) < MinSecretLen {
		errs = append(errs, fmt.Errorf("secret must be at least %d bytes", MinSecretLen))
	}
	if c.AccessTokenTTL < time.Second {
		errs = append(errs, errors.New("access token TTL must be at least one second"))
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		errs = append(errs, errors.New("refresh token TTL must be longer than access token TTL"))
	}

	switch c.Storage {
	case StorageSQLite, StoragePostgres, StorageMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if c.Storage == StorageMongo && c.MongoDatabase == "" {
		errs = append(errs, errors.New("mongo database name is required"))
	}

	switch c.PasswordHasher {
	case "", "bcrypt", "argon2":
	default:
		errs = append(errs, fmt.Errorf("unknown password hasher %q", c.PasswordHasher))
	}
	if c.DefaultRole == "" {
		errs = append(errs, errors.New("default role is required"))
	}
	if c.AuthRateLimit < 1 {
		errs = append(errs, errors.New("auth rate limit must be positive"))
	}
	if _, err := ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseTrustedProxies converts IPs and CIDRs into prefixes.
// A bare IP becomes a single-address prefix.
func ParseTrustedProxies(list []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(list))
	for _, entry := range list {
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
