package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/jwtgate/internal/client/api"
	"github.com/iudanet/jwtgate/internal/client/storage"
	"github.com/iudanet/jwtgate/internal/validation"
	pkgapi "github.com/iudanet/jwtgate/pkg/api"
)

// ErrNotAuthenticated означает, что локальной сессии нет или сервер ее отклонил
var ErrNotAuthenticated = errors.New("not authenticated, please login")

// tokenClaims поля токена, которые клиент показывает пользователю
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService реализует Service поверх HTTP API и локального хранилища
type AuthService struct {
	apiClient *api.Client
	sessions  storage.SessionStorage
	parser    *jwt.Parser
	now       func() time.Time
}

var _ Service = (*AuthService)(nil)

// NewService создает новый сервис авторизации
func NewService(apiClient *api.Client, sessions storage.SessionStorage) *AuthService {
	return &AuthService{
		apiClient: apiClient,
		sessions:  sessions,
		parser:    jwt.NewParser(),
		now:       time.Now,
	}
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, username, password string) (*pkgapi.JoinResponse, error) {
	// Валидация входных данных до обращения к серверу
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Join(ctx, pkgapi.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Login выполняет аутентификацию и сохраняет сессию
func (s *AuthService) Login(ctx context.Context, username, password string) (*storage.Session, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	tokens, err := s.apiClient.Login(ctx, pkgapi.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	return s.saveTokens(ctx, tokens)
}

// Refresh обменивает refresh token на новую пару.
// Отклоненный сервером refresh token удаляет локальную сессию.
func (s *AuthService) Refresh(ctx context.Context) (*storage.Session, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, err
	}

	tokens, err := s.apiClient.Reissue(ctx, session.RefreshToken)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
			// Токен уже использован, отозван или истек
			if delErr := s.sessions.DeleteSession(ctx); delErr != nil && !errors.Is(delErr, storage.ErrSessionNotFound) {
				return nil, fmt.Errorf("failed to delete rejected session: %w", delErr)
			}
			return nil, fmt.Errorf("%w: %s", ErrNotAuthenticated, statusErr.Message)
		}
		return nil, err
	}

	return s.saveTokens(ctx, tokens)
}

// Logout отзывает refresh token на сервере и удаляет локальную сессию.
// Локальная сессия удаляется даже если сервер недоступен.
func (s *AuthService) Logout(ctx context.Context, all bool) (int, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return 0, err
	}

	revoked, serverErr := s.apiClient.Logout(ctx, session.RefreshToken, all)

	if err := s.sessions.DeleteSession(ctx); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return 0, fmt.Errorf("failed to delete local session: %w", err)
	}

	if serverErr != nil {
		var statusErr *api.StatusError
		// Сервер уже не считает токен живым, локальный выход завершен
		if errors.As(serverErr, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
			return 0, nil
		}
		return 0, fmt.Errorf("session removed locally, server logout failed: %w", serverErr)
	}

	return revoked, nil
}

// Whoami возвращает данные текущего пользователя
func (s *AuthService) Whoami(ctx context.Context) (*pkgapi.MeResponse, error) {
	var resp *pkgapi.MeResponse
	err := s.withAccess(ctx, func(access string) error {
		var err error
		resp, err = s.apiClient.Me(ctx, access)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Admin обращается к /admin
func (s *AuthService) Admin(ctx context.Context) (*pkgapi.AdminResponse, error) {
	var resp *pkgapi.AdminResponse
	err := s.withAccess(ctx, func(access string) error {
		var err error
		resp, err = s.apiClient.Admin(ctx, access)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Status возвращает сохраненную сессию
func (s *AuthService) Status(ctx context.Context) (*storage.Session, error) {
	return s.currentSession(ctx)
}

// withAccess вызывает fn с access token и повторяет вызов один раз
// после reissue, если сервер ответил "access token expired"
func (s *AuthService) withAccess(ctx context.Context, fn func(access string) error) error {
	session, err := s.currentSession(ctx)
	if err != nil {
		return err
	}

	err = fn(session.AccessToken)
	if !errors.Is(err, api.ErrAccessExpired) {
		return err
	}

	session, err = s.Refresh(ctx)
	if err != nil {
		return err
	}
	return fn(session.AccessToken)
}

func (s *AuthService) currentSession(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// saveTokens строит сессию из пары токенов и сохраняет ее.
// Подпись не проверяется: секрет есть только у сервера.
func (s *AuthService) saveTokens(ctx context.Context, tokens *api.Tokens) (*storage.Session, error) {
	var access tokenClaims
	if _, _, err := s.parser.ParseUnverified(tokens.AccessToken, &access); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	var refresh tokenClaims
	if _, _, err := s.parser.ParseUnverified(tokens.RefreshToken, &refresh); err != nil {
		return nil, fmt.Errorf("failed to parse refresh token: %w", err)
	}

	session := &storage.Session{
		Username:     access.Subject,
		Role:         access.Role,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		SavedAt:      s.now().UTC(),
	}
	if access.ExpiresAt != nil {
		session.AccessExpiresAt = access.ExpiresAt.Time
	}
	if refresh.ExpiresAt != nil {
		session.RefreshExpiresAt = refresh.ExpiresAt.Time
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
