package auth

import "errors"

// Refresh token errors. Their text is returned to the client as is.
var (
	// ErrMissingToken the request carried no refresh token
	ErrMissingToken = errors.New("refresh token null")
	// ErrMalformedToken the token failed signature verification or could not be decoded
	ErrMalformedToken = errors.New("invalid refresh token")
	// ErrExpiredToken the token is past its expiry
	ErrExpiredToken = errors.New("refresh token expired")
	// ErrWrongCategory an access token was presented where a refresh token is required
	ErrWrongCategory = errors.New("invalid refresh token")
	// ErrRevoked the token has no live record: already rotated, logged out or reaped
	ErrRevoked = errors.New("invalid refresh token")
)

// Credential and registration errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidInput       = errors.New("invalid input")
)
