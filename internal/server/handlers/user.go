package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/jwtgate/pkg/api"
)

// SessionCounter возвращает количество живых refresh token пользователя
type SessionCounter interface {
	ActiveSessions(ctx context.Context, username string) (int, error)
}

// UserHandler обрабатывает защищенные пользовательские запросы
type UserHandler struct {
	logger   *slog.Logger
	sessions SessionCounter
}

// NewUserHandler создает новый handler для пользовательских запросов
func NewUserHandler(logger *slog.Logger, sessions SessionCounter) *UserHandler {
	return &UserHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// Main обрабатывает GET /
// Доступен анонимно, показывает кто аутентифицирован
func (h *UserHandler) Main(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		sendJSON(h.logger, w, api.MainResponse{Authenticated: false}, http.StatusOK)
		return
	}

	sendJSON(h.logger, w, api.MainResponse{
		Authenticated: true,
		Username:      principal.Username,
		Role:          principal.Role,
	}, http.StatusOK)
}

// Me обрабатывает GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		WriteText(w, "authentication required", http.StatusUnauthorized)
		return
	}

	sessions, err := h.sessions.ActiveSessions(ctx, principal.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count sessions",
			slog.String("username", principal.Username),
			slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.MeResponse{
		Username:       principal.Username,
		Role:           principal.Role,
		ActiveSessions: sessions,
	}, http.StatusOK)
}

// Admin обрабатывает GET /admin
// Роль проверяется middleware RequireRole
func (h *UserHandler) Admin(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	sendJSON(h.logger, w, api.AdminResponse{
		Username: principal.Username,
		Message:  "admin area",
	}, http.StatusOK)
}
