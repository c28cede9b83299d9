// Package server wires configuration, storage, token services and HTTP
// handlers together and runs the HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/jwtgate/internal/crypto"
	"github.com/iudanet/jwtgate/internal/server/auth"
	"github.com/iudanet/jwtgate/internal/server/config"
	"github.com/iudanet/jwtgate/internal/server/handlers"
	"github.com/iudanet/jwtgate/internal/server/jwt"
	"github.com/iudanet/jwtgate/internal/server/middleware"
	"github.com/iudanet/jwtgate/internal/server/storage"
	"github.com/iudanet/jwtgate/internal/server/storage/mongodb"
	"github.com/iudanet/jwtgate/internal/server/storage/postgres"
	"github.com/iudanet/jwtgate/internal/server/storage/redisstore"
	"github.com/iudanet/jwtgate/internal/server/storage/sqlite"
)

// App holds the wired server components
type App struct {
	config  *config.Config
	logger  *slog.Logger
	storage storage.Storage
	codec   *jwt.Codec
	service *auth.Service
	limiter *middleware.RateLimiter
	version string
}

// NewApp opens storage and builds the token services
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app, err := newApp(cfg, logger, store, version)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return app, nil
}

func newApp(cfg *config.Config, logger *slog.Logger, store storage.Storage, version string, opts ...jwt.Option) (*App, error) {
	codec, err := jwt.NewCodec([]byte(cfg.Secret), opts...)
	if err != nil {
		return nil, fmt.Errorf("codec init error: %w", err)
	}

	issuer, err := jwt.NewIssuer(codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuer init error: %w", err)
	}

	hasher, err := crypto.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}

	proxies, err := config.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	service, err := auth.NewService(auth.Config{
		Logger:      logger,
		Users:       store,
		Tokens:      store,
		Codec:       codec,
		Issuer:      issuer,
		Hasher:      hasher,
		DefaultRole: cfg.DefaultRole,
		AdminUsers:  cfg.AdminUsers,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	return &App{
		config:  cfg,
		logger:  logger,
		storage: store,
		codec:   codec,
		service: service,
		limiter: middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute, logger).WithTrustedProxies(proxies),
		version: version,
	}, nil
}

// openStorage opens the configured user storage. With RedisAddr set,
// refresh tokens are kept in Redis and users in the main storage.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	var primary storage.Storage
	var err error

	switch cfg.Storage {
	case config.StorageSQLite:
		primary, err = sqlite.New(ctx, cfg.DatabaseDSN)
	case config.StoragePostgres:
		primary, err = postgres.New(ctx, cfg.DatabaseDSN)
	case config.StorageMongo:
		primary, err = mongodb.New(ctx, cfg.DatabaseDSN, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr == "" {
		return primary, nil
	}

	tokens, err := redisstore.New(ctx, cfg.RedisAddr)
	if err != nil {
		_ = primary.Close()
		return nil, err
	}

	return storage.NewComposite(primary, tokens, primary, tokens), nil
}

// Handler builds the HTTP router with the middleware chain
func (a *App) Handler() http.Handler {
	authHandler := handlers.NewAuthHandler(a.logger, a.service, a.config.CookieSecure)
	userHandler := handlers.NewUserHandler(a.logger, a.service)
	healthHandler := handlers.NewHealthHandler(a.logger, a.version)

	gate := middleware.AuthMiddleware(a.logger, a.codec)
	limited := a.limiter.Middleware

	mux := http.NewServeMux()

	// Учетные данные и refresh token, ограничение частоты по IP
	mux.Handle("POST /join", limited(http.HandlerFunc(authHandler.Join)))
	mux.Handle("POST /login", limited(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /reissue", limited(http.HandlerFunc(authHandler.Reissue)))
	mux.HandleFunc("POST /logout", authHandler.Logout)

	// Маршруты за проверкой access token
	mux.Handle("GET /{$}", gate(http.HandlerFunc(userHandler.Main)))
	mux.Handle("GET /me", gate(middleware.RequireAuthenticated(http.HandlerFunc(userHandler.Me))))
	mux.Handle("GET /admin", gate(middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(userHandler.Admin))))

	mux.HandleFunc("GET /health", healthHandler.Health)

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(a.logger, []string{"/health"})(handler)
	handler = middleware.RecoveryMiddleware(a.logger)(handler)

	return handler
}

// PurgeExpiredTokens removes refresh records that are already past expiry
func (a *App) PurgeExpiredTokens(ctx context.Context) {
	n, err := a.storage.DeleteExpiredTokens(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to purge expired refresh tokens", slog.Any("error", err))
		return
	}
	a.logger.InfoContext(ctx, "expired refresh tokens purged", slog.Int("count", n))
}

// Run listens on the configured address and serves until ctx is done
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is done, then shuts down gracefully
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	a.PurgeExpiredTokens(ctx)

	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "Starting HTTP server",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", a.version))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Close releases the rate limiter and storage
func (a *App) Close() error {
	a.limiter.Stop()
	return a.storage.Close()
}
