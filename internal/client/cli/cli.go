package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iudanet/jwtgate/internal/client/auth"
	"github.com/iudanet/jwtgate/internal/client/iocli"
)

// EnvPassword переменная окружения с паролем для неинтерактивного запуска
const EnvPassword = "JWTGATE_PASSWORD"

// Passwords источники пароля из флагов командной строки
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io          iocli.IO
	authService auth.Service
	passwords   Passwords
}

func New(console iocli.IO, authService auth.Service, passwords Passwords) *Cli {
	return &Cli{
		io:          console,
		authService: authService,
		passwords:   passwords,
	}
}

// getPassword reads the password from various sources with priority:
// 1. Environment variable JWTGATE_PASSWORD
// 2. File specified in --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback)
// The second result reports whether the password was typed interactively.
func (c *Cli) getPassword(prompt string) (string, bool, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv(EnvPassword); envPassword != "" {
		return envPassword, false, nil
	}

	// Priority 2: File
	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", false, fmt.Errorf("password file is empty")
		}
		return password, false, nil
	}

	// Priority 3: CLI parameter
	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, false, nil
	}

	// Priority 4: Interactive prompt (fallback)
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", false, fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", false, fmt.Errorf("password cannot be empty")
	}

	return password, true, nil
}

func PrintUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `jwtgate client

Usage:
  jwtgate-client [OPTIONS] COMMAND

Options:
  --version              Show version information
  --server URL           Server URL (default: http://localhost:8080)
  --db PATH              Path to local session database (default: jwtgate-client.db)
  --password PASSWORD    Password (not recommended, use env var or file)
  --password-file PATH   Path to file containing the password

Password Priority (highest to lowest):
  1. JWTGATE_PASSWORD environment variable
  2. --password-file (file path)
  3. --password (command line)
  4. Interactive prompt (fallback)

Commands:
  register               Register new user
  login                  Login and store the token pair locally
  whoami                 Show the authenticated user (GET /me)
  admin                  Access the admin resource (GET /admin)
  refresh                Exchange the refresh token for a new pair
  logout [--all]         Revoke the current session, or every session with --all
  status                 Show the locally stored session

Examples:
  jwtgate-client register
  jwtgate-client login
  jwtgate-client whoami
  JWTGATE_PASSWORD='password123' jwtgate-client login
  jwtgate-client logout --all
  jwtgate-client --server https://example.com status
`)
}
