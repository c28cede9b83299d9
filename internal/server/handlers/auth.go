package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/internal/server/auth"
	"github.com/iudanet/jwtgate/internal/server/jwt"
	"github.com/iudanet/jwtgate/pkg/api"
)

// AuthService определяет операции жизненного цикла токенов
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (jwt.Pair, error)
	Rotate(ctx context.Context, refreshToken string) (jwt.Pair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, refreshToken string) (int, error)
	RefreshMaxAge() int
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger       *slog.Logger
	service      AuthService
	cookieSecure bool
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		service:      service,
		cookieSecure: cookieSecure,
	}
}

// Join обрабатывает POST /join
// Регистрация нового пользователя
func (h *AuthHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode join request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, auth.ErrUserExists):
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			sendError(h.logger, w, err.Error(), http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.String("role", user.Role))

	sendJSON(h.logger, w, api.JoinResponse{Username: user.Username, Role: user.Role}, http.StatusCreated)
}

// Login обрабатывает POST /login
// Access token возвращается в заголовке access, refresh token в cookie refresh
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "login failed", slog.String("username", req.Username))
			WriteText(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to login", slog.Any("error", err))
		WriteText(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.String("username", req.Username))

	h.writePair(w, pair)
}

// Reissue обрабатывает POST /reissue
// Обменивает refresh token из cookie на новую пару, старый токен отзывается
func (h *AuthHandler) Reissue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pair, err := h.service.Rotate(ctx, refreshFromCookie(r))
	if err != nil {
		h.refreshError(ctx, w, "failed to reissue tokens", err)
		return
	}

	h.writePair(w, pair)
}

// Logout обрабатывает POST /logout
// С параметром all=true отзываются все refresh token владельца
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := refreshFromCookie(r)

	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	if all {
		revoked, err := h.service.LogoutAll(ctx, token)
		if err != nil {
			h.refreshError(ctx, w, "failed to logout everywhere", err)
			return
		}
		h.clearRefreshCookie(w)
		sendJSON(h.logger, w, api.LogoutResponse{Revoked: revoked}, http.StatusOK)
		return
	}

	if err := h.service.Logout(ctx, token); err != nil {
		h.refreshError(ctx, w, "failed to logout", err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusOK)
}

// refreshError отвечает 400 с причиной для ошибок refresh token и 500 для остальных
func (h *AuthHandler) refreshError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongCategory),
		errors.Is(err, auth.ErrRevoked):
		h.logger.DebugContext(ctx, msg, slog.Any("error", err))
		WriteText(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(ctx, msg, slog.Any("error", err))
		WriteText(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) writePair(w http.ResponseWriter, pair jwt.Pair) {
	w.Header().Set(api.HeaderAccess, pair.AccessToken)
	http.SetCookie(w, &http.Cookie{
		Name:     api.CookieRefresh,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   h.service.RefreshMaxAge(),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     api.CookieRefresh,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // Max-Age=0
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func refreshFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(api.CookieRefresh)
	if err != nil {
		return ""
	}
	return cookie.Value
}
