package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jwtgate/internal/client/auth"
	"github.com/iudanet/jwtgate/internal/client/iocli"
	"github.com/iudanet/jwtgate/internal/client/storage"
	pkgapi "github.com/iudanet/jwtgate/pkg/api"
)

// recordingIO IOMock, который собирает весь вывод в буфер
func recordingIO(inputs, passwords []string) (*iocli.IOMock, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			_, _ = fmt.Fprintln(out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			_, _ = fmt.Fprintf(out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			if len(inputs) == 0 {
				return "", errors.New("no input")
			}
			next := inputs[0]
			inputs = inputs[1:]
			return next, nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			if len(passwords) == 0 {
				return "", errors.New("no password")
			}
			next := passwords[0]
			passwords = passwords[1:]
			return next, nil
		},
	}, out
}

func testSession() *storage.Session {
	now := time.Now()
	return &storage.Session{
		Username:         "alice",
		Role:             "ROLE_ADMIN",
		AccessToken:      "access",
		RefreshToken:     "refresh",
		SavedAt:          now,
		AccessExpiresAt:  now.Add(10 * time.Minute),
		RefreshExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestGetPassword_Priority(t *testing.T) {
	passwordFile := filepath.Join(t.TempDir(), "password.txt")
	require.NoError(t, os.WriteFile(passwordFile, []byte("from-file-123\n"), 0600))

	tests := []struct {
		name            string
		env             string
		passwords       Passwords
		prompt          []string
		want            string
		wantInteractive bool
		wantErr         bool
	}{
		{name: "env wins", env: "from-env-123", passwords: Passwords{FromFile: passwordFile, FromArgs: "from-args-123"}, want: "from-env-123"},
		{name: "file before args", passwords: Passwords{FromFile: passwordFile, FromArgs: "from-args-123"}, want: "from-file-123"},
		{name: "args", passwords: Passwords{FromArgs: "from-args-123"}, want: "from-args-123"},
		{name: "interactive fallback", prompt: []string{"typed-123"}, want: "typed-123", wantInteractive: true},
		{name: "empty interactive", prompt: []string{""}, wantErr: true},
		{name: "missing file", passwords: Passwords{FromFile: filepath.Join(t.TempDir(), "missing")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvPassword, tt.env)
			mockIO, _ := recordingIO(nil, tt.prompt)
			c := New(mockIO, &auth.ServiceMock{}, tt.passwords)

			got, interactive, err := c.getPassword("Password: ")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantInteractive, interactive)
		})
	}
}

func TestGetPassword_EmptyFile(t *testing.T) {
	t.Setenv(EnvPassword, "")
	passwordFile := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(passwordFile, []byte("  \n"), 0600))

	c := New(&iocli.IOMock{}, &auth.ServiceMock{}, Passwords{FromFile: passwordFile})
	_, _, err := c.getPassword("Password: ")
	assert.ErrorContains(t, err, "password file is empty")
}

func TestCli_Register(t *testing.T) {
	t.Setenv(EnvPassword, "")
	mockIO, out := recordingIO([]string{"alice"}, []string{"password123", "password123"})
	mockAuth := &auth.ServiceMock{
		RegisterFunc: func(ctx context.Context, username, password string) (*pkgapi.JoinResponse, error) {
			return &pkgapi.JoinResponse{Username: username, Role: "ROLE_USER"}, nil
		},
	}

	err := New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "register", nil)
	require.NoError(t, err)

	require.Len(t, mockAuth.RegisterCalls(), 1)
	assert.Equal(t, "alice", mockAuth.RegisterCalls()[0].Username)
	assert.Equal(t, "password123", mockAuth.RegisterCalls()[0].Password)
	assert.Contains(t, out.String(), "Registration successful")
	assert.Contains(t, out.String(), "Role: ROLE_USER")
}

func TestCli_RegisterPasswordMismatch(t *testing.T) {
	t.Setenv(EnvPassword, "")
	mockIO, _ := recordingIO([]string{"alice"}, []string{"password123", "password124"})
	mockAuth := &auth.ServiceMock{}

	err := New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "register", nil)
	assert.ErrorContains(t, err, "passwords do not match")
	assert.Empty(t, mockAuth.RegisterCalls())
}

func TestCli_RegisterNonInteractiveSkipsConfirmation(t *testing.T) {
	t.Setenv(EnvPassword, "password123")
	mockIO, _ := recordingIO([]string{"alice"}, nil)
	mockAuth := &auth.ServiceMock{
		RegisterFunc: func(ctx context.Context, username, password string) (*pkgapi.JoinResponse, error) {
			return &pkgapi.JoinResponse{Username: username, Role: "ROLE_USER"}, nil
		},
	}

	require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "register", nil))
	assert.Empty(t, mockIO.ReadPasswordCalls())
}

func TestCli_Login(t *testing.T) {
	t.Setenv(EnvPassword, "")
	mockIO, out := recordingIO([]string{"alice"}, nil)
	mockAuth := &auth.ServiceMock{
		LoginFunc: func(ctx context.Context, username, password string) (*storage.Session, error) {
			assert.Equal(t, "from-args-123", password)
			return testSession(), nil
		},
	}

	err := New(mockIO, mockAuth, Passwords{FromArgs: "from-args-123"}).Run(context.Background(), "login", nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Login successful")
	assert.Contains(t, out.String(), "Role: ROLE_ADMIN")
}

func TestCli_LoginFailure(t *testing.T) {
	t.Setenv(EnvPassword, "password123")
	mockIO, _ := recordingIO([]string{"alice"}, nil)
	mockAuth := &auth.ServiceMock{
		LoginFunc: func(ctx context.Context, username, password string) (*storage.Session, error) {
			return nil, errors.New("server error (401): invalid credentials")
		},
	}

	err := New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "login", nil)
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestCli_Whoami(t *testing.T) {
	mockIO, out := recordingIO(nil, nil)
	mockAuth := &auth.ServiceMock{
		WhoamiFunc: func(ctx context.Context) (*pkgapi.MeResponse, error) {
			return &pkgapi.MeResponse{Username: "alice", Role: "ROLE_USER", ActiveSessions: 3}, nil
		},
	}

	require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "whoami", nil))
	assert.Equal(t, "Username: alice\nRole: ROLE_USER\nActive sessions: 3\n", out.String())
}

func TestCli_Admin(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		mockIO, out := recordingIO(nil, nil)
		mockAuth := &auth.ServiceMock{
			AdminFunc: func(ctx context.Context) (*pkgapi.AdminResponse, error) {
				return &pkgapi.AdminResponse{Username: "alice", Message: "admin area"}, nil
			},
		}

		require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "admin", nil))
		assert.Equal(t, "admin area (alice)\n", out.String())
	})

	t.Run("denied", func(t *testing.T) {
		mockIO, _ := recordingIO(nil, nil)
		mockAuth := &auth.ServiceMock{
			AdminFunc: func(ctx context.Context) (*pkgapi.AdminResponse, error) {
				return nil, errors.New("server error (403): access denied")
			},
		}

		err := New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "admin", nil)
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestCli_Refresh(t *testing.T) {
	mockIO, out := recordingIO(nil, nil)
	mockAuth := &auth.ServiceMock{
		RefreshFunc: func(ctx context.Context) (*storage.Session, error) {
			return testSession(), nil
		},
	}

	require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "refresh", nil))
	assert.Contains(t, out.String(), "Tokens reissued")
}

func TestCli_Logout(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantAll    bool
		wantOutput string
	}{
		{name: "current session", args: nil, wantAll: false},
		{name: "all sessions", args: []string{"--all"}, wantAll: true, wantOutput: "Revoked sessions: 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIO, out := recordingIO(nil, nil)
			mockAuth := &auth.ServiceMock{
				LogoutFunc: func(ctx context.Context, all bool) (int, error) {
					if all {
						return 4, nil
					}
					return 1, nil
				},
			}

			require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "logout", tt.args))
			require.Len(t, mockAuth.LogoutCalls(), 1)
			assert.Equal(t, tt.wantAll, mockAuth.LogoutCalls()[0].All)
			assert.Contains(t, out.String(), "Logout successful")
			if tt.wantOutput != "" {
				assert.Contains(t, out.String(), tt.wantOutput)
			} else {
				assert.NotContains(t, out.String(), "Revoked sessions")
			}
		})
	}
}

func TestCli_LogoutInvalidFlag(t *testing.T) {
	mockIO, _ := recordingIO(nil, nil)
	mockAuth := &auth.ServiceMock{}

	err := New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "logout", []string{"--everything"})
	assert.Error(t, err)
	assert.Empty(t, mockAuth.LogoutCalls())
}

func TestCli_Status(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		mockIO, out := recordingIO(nil, nil)
		mockAuth := &auth.ServiceMock{
			StatusFunc: func(ctx context.Context) (*storage.Session, error) {
				return testSession(), nil
			},
		}

		require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "status", nil))
		assert.Contains(t, out.String(), "Status: Authenticated")
		assert.Contains(t, out.String(), "Username: alice")
		assert.Contains(t, out.String(), "Time remaining:")
	})

	t.Run("expired", func(t *testing.T) {
		mockIO, out := recordingIO(nil, nil)
		mockAuth := &auth.ServiceMock{
			StatusFunc: func(ctx context.Context) (*storage.Session, error) {
				session := testSession()
				session.RefreshExpiresAt = time.Now().Add(-time.Minute)
				return session, nil
			},
		}

		require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "status", nil))
		assert.Contains(t, out.String(), "Session has expired")
	})

	t.Run("not authenticated", func(t *testing.T) {
		mockIO, out := recordingIO(nil, nil)
		mockAuth := &auth.ServiceMock{
			StatusFunc: func(ctx context.Context) (*storage.Session, error) {
				return nil, auth.ErrNotAuthenticated
			},
		}

		require.NoError(t, New(mockIO, mockAuth, Passwords{}).Run(context.Background(), "status", nil))
		assert.Contains(t, out.String(), "Status: Not authenticated")
	})
}

func TestCli_UnknownCommand(t *testing.T) {
	err := New(&iocli.IOMock{}, &auth.ServiceMock{}, Passwords{}).Run(context.Background(), "sync", nil)
	assert.ErrorContains(t, err, "unknown command: sync")
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)

	for _, command := range []string{"register", "login", "whoami", "admin", "refresh", "logout [--all]", "status"} {
		assert.True(t, strings.Contains(buf.String(), command), "usage must mention %q", command)
	}
}
