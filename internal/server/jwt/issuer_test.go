package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssuer_Validation(t *testing.T) {
	codec := newTestCodec(t, nil)

	tests := []struct {
		name       string
		codec      *Codec
		accessTTL  time.Duration
		refreshTTL time.Duration
		wantErr    bool
	}{
		{name: "valid", codec: codec, accessTTL: time.Minute, refreshTTL: time.Hour},
		{name: "nil codec", codec: nil, accessTTL: time.Minute, refreshTTL: time.Hour, wantErr: true},
		{name: "zero access ttl", codec: codec, accessTTL: 0, refreshTTL: time.Hour, wantErr: true},
		{name: "sub-second refresh ttl", codec: codec, accessTTL: time.Minute, refreshTTL: 10 * time.Millisecond, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, err := NewIssuer(tt.codec, tt.accessTTL, tt.refreshTTL)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, issuer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.accessTTL, issuer.AccessTTL())
			assert.Equal(t, tt.refreshTTL, issuer.RefreshTTL())
		})
	}
}

func TestIssuer_IssuePair(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_720_000_000, 0)}
	codec := newTestCodec(t, clock)
	issuer, err := NewIssuer(codec, 10*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	pair, err := issuer.IssuePair("alice", "ROLE_ADMIN")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := codec.Verify(pair.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, CategoryAccess, access.Category)
	assert.Equal(t, CategoryRefresh, refresh.Category)

	for _, c := range []Claims{access, refresh} {
		assert.Equal(t, "alice", c.Subject)
		assert.Equal(t, "ROLE_ADMIN", c.Role)
		assert.True(t, c.IssuedAt.Equal(clock.Now()))
		assert.NotEmpty(t, c.ID)
	}
	assert.NotEqual(t, access.ID, refresh.ID)

	assert.True(t, access.ExpiresAt.Equal(clock.Now().Add(10*time.Minute)))
	assert.True(t, refresh.ExpiresAt.Equal(clock.Now().Add(24*time.Hour)))
	assert.True(t, pair.AccessExpiresAt.Equal(access.ExpiresAt))
	assert.True(t, pair.RefreshExpiresAt.Equal(refresh.ExpiresAt))
}

func TestIssuer_IssuePairWithinSameSecondIsDistinct(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_720_000_000, 0)}
	codec := newTestCodec(t, clock)
	issuer, err := NewIssuer(codec, time.Minute, time.Hour)
	require.NoError(t, err)

	first, err := issuer.IssuePair("alice", "ROLE_USER")
	require.NoError(t, err)
	second, err := issuer.IssuePair("alice", "ROLE_USER")
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestIssuer_IssuePairEmptyUsername(t *testing.T) {
	issuer, err := NewIssuer(newTestCodec(t, nil), time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = issuer.IssuePair("", "ROLE_USER")
	assert.Error(t, err)
}

func TestIssuer_AccessExpiresBeforeRefresh(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_720_000_000, 0)}
	codec := newTestCodec(t, clock)
	issuer, err := NewIssuer(codec, time.Minute, time.Hour)
	require.NoError(t, err)

	pair, err := issuer.IssuePair("bob", "ROLE_USER")
	require.NoError(t, err)
	access, err := codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := codec.Verify(pair.RefreshToken)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.True(t, codec.IsExpired(access))
	assert.False(t, codec.IsExpired(refresh))
}
