package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Имена поддерживаемых алгоритмов хеширования паролей
const (
	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

// ErrInvalidHash возвращается, если сохраненный хеш не удалось разобрать
var ErrInvalidHash = errors.New("invalid password hash")

// PasswordHasher хеширует и проверяет пароли пользователей
type PasswordHasher interface {
	// Hash возвращает закодированный хеш пароля, пригодный для хранения
	Hash(password string) (string, error)
	// Verify сравнивает пароль с ранее сохраненным хешем
	Verify(password, encoded string) (bool, error)
}

// NewPasswordHasher возвращает хешер по имени из конфигурации
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case HasherBcrypt, "":
		return NewBcryptHasher(bcrypt.DefaultCost), nil
	case HasherArgon2:
		return NewArgon2Hasher(DefaultArgon2Params), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// BcryptHasher реализует PasswordHasher на bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создает bcrypt хешер с указанной стоимостью
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
}
