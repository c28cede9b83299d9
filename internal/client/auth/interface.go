package auth

import (
	"context"

	"github.com/iudanet/jwtgate/internal/client/storage"
	pkgapi "github.com/iudanet/jwtgate/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service defines the client side of the token lifecycle.
// A successful Login stores the token pair locally; every later call
// authenticates with the stored access token and reissues it once when the
// server reports it expired.
type Service interface {
	// Register регистрирует нового пользователя, сессия не создается
	Register(ctx context.Context, username, password string) (*pkgapi.JoinResponse, error)

	// Login выполняет аутентификацию и сохраняет пару токенов
	Login(ctx context.Context, username, password string) (*storage.Session, error)

	// Refresh обменивает сохраненный refresh token на новую пару
	Refresh(ctx context.Context) (*storage.Session, error)

	// Logout отзывает сессию на сервере и удаляет ее локально.
	// При all=true отзываются все сессии пользователя.
	Logout(ctx context.Context, all bool) (int, error)

	// Whoami возвращает данные пользователя с сервера
	Whoami(ctx context.Context) (*pkgapi.MeResponse, error)

	// Admin обращается к ресурсу ROLE_ADMIN
	Admin(ctx context.Context) (*pkgapi.AdminResponse, error)

	// Status возвращает сохраненную сессию без обращения к серверу
	Status(ctx context.Context) (*storage.Session, error)
}
