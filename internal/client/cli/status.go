package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/jwtgate/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	// Проверяем наличие сохраненной сессии
	session, err := c.authService.Status(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'jwtgate-client login' to authenticate.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	remaining := time.Until(session.RefreshExpiresAt)

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Role: %s\n", session.Role)
	c.io.Printf("Access token expires: %s\n", session.AccessExpiresAt.Format(time.RFC3339))
	c.io.Printf("Session expires: %s\n", session.RefreshExpiresAt.Format(time.RFC3339))

	if remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Session has expired. Please login again.")
	}

	return nil
}
