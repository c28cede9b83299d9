package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken возвращает hex SHA-256 от значения refresh token.
// Хранилище работает только с этим хешем, сам токен на сервере не сохраняется.
func HashRefreshToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
