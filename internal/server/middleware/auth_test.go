package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jwtgate/internal/server/handlers"
	"github.com/iudanet/jwtgate/internal/server/jwt"
	"github.com/iudanet/jwtgate/pkg/api"
)

var testSecret = []byte("test-secret-key-with-32-bytes-min")

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestCodec(t *testing.T, clock *testClock) *jwt.Codec {
	t.Helper()
	codec, err := jwt.NewCodec(testSecret, jwt.WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

// principalHandler отвечает username и role из контекста или "anonymous"
func principalHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := handlers.PrincipalFromContext(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(principal.Username + ":" + principal.Role))
}

func serveWithToken(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(api.HeaderAccess, token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Success(t *testing.T) {
	clock := &testClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	issuer, err := jwt.NewIssuer(codec, 10*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	pair, err := issuer.IssuePair("alice", "ROLE_ADMIN")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), codec)(http.HandlerFunc(principalHandler))

	w := serveWithToken(handler, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice:ROLE_ADMIN", w.Body.String())
}

func TestAuthMiddleware_MissingHeaderPassesThrough(t *testing.T) {
	codec := newTestCodec(t, &testClock{now: time.Now()})
	handler := AuthMiddleware(setupTestLogger(), codec)(http.HandlerFunc(principalHandler))

	w := serveWithToken(handler, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestAuthMiddleware_AuthorizationHeaderIgnored(t *testing.T) {
	clock := &testClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	issuer, err := jwt.NewIssuer(codec, time.Minute, time.Hour)
	require.NoError(t, err)
	pair, err := issuer.IssuePair("alice", "ROLE_USER")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), codec)(http.HandlerFunc(principalHandler))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "anonymous", w.Body.String())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	clock := &testClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	issuer, err := jwt.NewIssuer(codec, 10*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	pair, err := issuer.IssuePair("alice", "ROLE_USER")
	require.NoError(t, err)

	otherCodec, err := jwt.NewCodec([]byte("another-secret-key-with-32-bytes!"))
	require.NoError(t, err)
	otherIssuer, err := jwt.NewIssuer(otherCodec, 10*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	foreign, err := otherIssuer.IssuePair("alice", "ROLE_USER")
	require.NoError(t, err)

	// Меняем один символ в середине подписи
	pos := strings.LastIndex(pair.AccessToken, ".") + 5
	replacement := "A"
	if pair.AccessToken[pos] == 'A' {
		replacement = "B"
	}
	tampered := pair.AccessToken[:pos] + replacement + pair.AccessToken[pos+1:]

	tests := []struct {
		name     string
		token    string
		wantBody string
	}{
		{name: "garbage", token: "not-a-token", wantBody: "invalid access token"},
		{name: "tampered signature", token: tampered, wantBody: "invalid access token"},
		{name: "wrong secret", token: foreign.AccessToken, wantBody: "invalid access token"},
		{name: "refresh token as access", token: pair.RefreshToken, wantBody: "invalid access token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := AuthMiddleware(setupTestLogger(), codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			w := serveWithToken(handler, tt.token)

			assert.False(t, called, "next handler must not be called")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	clock := &testClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	issuer, err := jwt.NewIssuer(codec, 10*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	pair, err := issuer.IssuePair("alice", "ROLE_ADMIN")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), codec)(http.HandlerFunc(principalHandler))

	w := serveWithToken(handler, pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	clock.now = clock.now.Add(10 * time.Minute)

	w = serveWithToken(handler, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "access token expired", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestAuthMiddleware_ExpiredRefreshTokenReportsExpiry(t *testing.T) {
	// Истечение проверяется раньше категории
	clock := &testClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	token, err := codec.Issue(jwt.Claims{
		Subject:   "alice",
		Category:  jwt.CategoryRefresh,
		IssuedAt:  clock.now.Add(-2 * time.Hour),
		ExpiresAt: clock.now.Add(-time.Hour),
	})
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), codec)(http.HandlerFunc(principalHandler))

	w := serveWithToken(handler, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "access token expired", w.Body.String())
}

func TestAuthMiddleware_RejectsUnsignedToken(t *testing.T) {
	now := time.Now()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"sub":      "alice",
		"role":     "ROLE_ADMIN",
		"category": "access",
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	codec := newTestCodec(t, &testClock{now: now})
	handler := AuthMiddleware(setupTestLogger(), codec)(http.HandlerFunc(principalHandler))

	w := serveWithToken(handler, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid access token", w.Body.String())
}
