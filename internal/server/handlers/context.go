package handlers

import (
	"context"

	"github.com/iudanet/jwtgate/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

// PrincipalKey ключ для хранения аутентифицированного пользователя в контексте
const PrincipalKey contextKey = "principal"

// WithPrincipal возвращает контекст с аутентифицированным пользователем
func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// PrincipalFromContext извлекает пользователя из контекста запроса.
// ok == false для анонимного запроса.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(models.Principal)
	return principal, ok
}
