package middleware

import (
	"net/http"

	"github.com/iudanet/jwtgate/internal/server/handlers"
)

// RequireAuthenticated пропускает только запросы с аутентифицированным пользователем
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := handlers.PrincipalFromContext(r.Context()); !ok {
			handlers.WriteText(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole пропускает только пользователей с указанной ролью
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := handlers.PrincipalFromContext(r.Context())
			if !ok {
				handlers.WriteText(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if !principal.HasRole(role) {
				handlers.WriteText(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
