package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time  `json:"created_at"`           // время создания
	LastLogin    *time.Time `json:"last_login,omitempty"` // время последнего входа
	ID           string     `json:"id"`                   // UUID пользователя
	Username     string     `json:"username"`             // уникальный username
	PasswordHash string     `json:"-"`                    // bcrypt или argon2id хеш пароля
	Role         string     `json:"role"`                 // единственная роль, например ROLE_ADMIN
}

// RefreshToken представляет сохраненную запись refresh token.
// Сам токен не хранится, только его SHA-256 хеш.
type RefreshToken struct {
	ExpiresAt time.Time `json:"expires_at"` // время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
	TokenHash string    `json:"token_hash"` // hex SHA-256 от значения токена
	Username  string    `json:"username"`   // владелец токена
}

// IsExpired reports whether the record is no longer live at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Principal is the request-scoped identity derived from a verified access token.
type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// HasRole reports whether the principal carries the given authority.
func (p Principal) HasRole(role string) bool {
	return p.Role == role
}
