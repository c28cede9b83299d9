package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jwtgate/internal/models"
	"github.com/iudanet/jwtgate/pkg/api"
)

type failingSessions struct{}

func (failingSessions) ActiveSessions(context.Context, string) (int, error) {
	return 0, errors.New("database is locked")
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), models.Principal{Username: "alice", Role: "ROLE_ADMIN"})
	principal, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice", principal.Username)
	assert.True(t, principal.HasRole("ROLE_ADMIN"))
}

func TestUserHandler_Main(t *testing.T) {
	handler := NewUserHandler(setupTestLogger(), failingSessions{})

	tests := []struct {
		principal *models.Principal
		want      api.MainResponse
		name      string
	}{
		{
			name: "anonymous",
			want: api.MainResponse{Authenticated: false},
		},
		{
			name:      "authenticated",
			principal: &models.Principal{Username: "bob", Role: "ROLE_USER"},
			want:      api.MainResponse{Authenticated: true, Username: "bob", Role: "ROLE_USER"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), *tt.principal))
			}
			w := httptest.NewRecorder()

			handler.Main(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var got api.MainResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserHandler_Me(t *testing.T) {
	env := setupTestEnv(t)
	env.login(t, "bob")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(WithPrincipal(req.Context(), models.Principal{Username: "bob", Role: "ROLE_USER"}))
	w := httptest.NewRecorder()

	env.user.Me(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got api.MeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, api.MeResponse{Username: "bob", Role: "ROLE_USER", ActiveSessions: 1}, got)
}

func TestUserHandler_MeErrors(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		handler := NewUserHandler(setupTestLogger(), failingSessions{})
		w := httptest.NewRecorder()
		handler.Me(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		handler := NewUserHandler(setupTestLogger(), failingSessions{})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(WithPrincipal(req.Context(), models.Principal{Username: "bob", Role: "ROLE_USER"}))
		w := httptest.NewRecorder()

		handler.Me(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "internal server error", resp.Message)
	})
}

func TestUserHandler_Admin(t *testing.T) {
	handler := NewUserHandler(setupTestLogger(), failingSessions{})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(WithPrincipal(req.Context(), models.Principal{Username: "alice", Role: "ROLE_ADMIN"}))
	w := httptest.NewRecorder()

	handler.Admin(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got api.AdminResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "alice", got.Username)
	assert.NotEmpty(t, got.Message)
}
