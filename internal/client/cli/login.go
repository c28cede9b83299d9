package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	// Запрашиваем username
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, _, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	session, err := c.authService.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Role: %s\n", session.Role)
	c.io.Printf("Access token expires: %s\n", session.AccessExpiresAt.Format(time.RFC3339))
	c.io.Printf("Session expires: %s\n", session.RefreshExpiresAt.Format(time.RFC3339))
	c.io.Println()
	c.io.Println("Your session has been saved locally.")

	return nil
}
