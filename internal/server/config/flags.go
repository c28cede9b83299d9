package config

import (
	"flag"
	"os"
	"strings"
)

// parseFlags overlays values given on the command line.
//
// Supported flags:
//
//	-a string              HTTP bind address
//	-s string              HS256 signing secret
//	-d string              database DSN (file path for sqlite)
//	-access-ttl duration   access token lifetime
//	-refresh-ttl duration  refresh token lifetime
//	-storage string        sqlite | postgres | mongo
//	-mongo-db string       MongoDB database name
//	-redis string          Redis address for refresh tokens
//	-hasher string         bcrypt | argon2
//	-default-role string   role of newly registered users
//	-admin-users string    comma separated usernames registered as ROLE_ADMIN
//	-cookie-secure         set Secure on the refresh cookie
//	-rate-limit int        requests per minute per IP on credential endpoints
//	-trusted-proxies string comma separated proxy IPs/CIDRs allowed to set X-Forwarded-For
//	-log-level string      debug | info | warn | error
//	-log-format string     text | json
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("jwtgate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&c.Addr, "a", c.Addr, "address and port to run server")
	fs.StringVar(&c.Secret, "s", c.Secret, "token signing secret")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.DurationVar(&c.AccessTokenTTL, "access-ttl", c.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-ttl", c.RefreshTokenTTL, "refresh token lifetime")
	fs.StringVar(&c.Storage, "storage", c.Storage, "storage backend: sqlite, postgres, mongo")
	fs.StringVar(&c.MongoDatabase, "mongo-db", c.MongoDatabase, "MongoDB database name")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "Redis address for refresh tokens")
	fs.StringVar(&c.PasswordHasher, "hasher", c.PasswordHasher, "password hasher: bcrypt, argon2")
	fs.StringVar(&c.DefaultRole, "default-role", c.DefaultRole, "role of newly registered users")
	adminUsers := fs.String("admin-users", strings.Join(c.AdminUsers, ","), "comma separated admin usernames")
	fs.BoolVar(&c.CookieSecure, "cookie-secure", c.CookieSecure, "set Secure attribute on refresh cookie")
	fs.IntVar(&c.AuthRateLimit, "rate-limit", c.AuthRateLimit, "credential endpoint requests per minute per IP")
	trustedProxies := fs.String("trusted-proxies", strings.Join(c.TrustedProxies, ","), "comma separated proxy IPs/CIDRs allowed to set X-Forwarded-For")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text, json")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.AdminUsers = splitList(*adminUsers)
	c.TrustedProxies = splitList(*trustedProxies)

	return nil
}
