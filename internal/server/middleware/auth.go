package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/internal/server/handlers"
	"github.com/iudanet/jwtgate/internal/server/jwt"
	"github.com/iudanet/jwtgate/pkg/api"
)

const (
	msgInvalidAccessToken = "invalid access token"
	msgExpiredAccessToken = "access token expired"
)

// AuthMiddleware создает middleware для проверки access token.
// Запрос без заголовка access проходит дальше анонимно, решение о доступе
// принимают RequireAuthenticated и RequireRole.
func AuthMiddleware(logger *slog.Logger, codec *jwt.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := r.Header.Get(api.HeaderAccess)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "Invalid access token", slog.Any("error", err))
				handlers.WriteText(w, msgInvalidAccessToken, http.StatusUnauthorized)
				return
			}

			if codec.IsExpired(claims) {
				logger.DebugContext(ctx, "Access token expired", slog.String("username", claims.Subject))
				handlers.WriteText(w, msgExpiredAccessToken, http.StatusUnauthorized)
				return
			}

			// Refresh token нельзя использовать как access token
			if claims.Category != jwt.CategoryAccess {
				logger.WarnContext(ctx, "Wrong token category",
					slog.String("username", claims.Subject),
					slog.String("category", string(claims.Category)))
				handlers.WriteText(w, msgInvalidAccessToken, http.StatusUnauthorized)
				return
			}

			principal := models.Principal{
				Username: claims.Subject,
				Role:     claims.Role,
			}

			logger.DebugContext(ctx, "User authenticated",
				slog.String("username", principal.Username),
				slog.String("role", principal.Role))

			next.ServeHTTP(w, r.WithContext(handlers.WithPrincipal(ctx, principal)))
		})
	}
}
