package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	me, err := c.authService.Whoami(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("Username: %s\n", me.Username)
	c.io.Printf("Role: %s\n", me.Role)
	c.io.Printf("Active sessions: %d\n", me.ActiveSessions)

	return nil
}

func (c *Cli) runAdmin(ctx context.Context) error {
	resp, err := c.authService.Admin(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("%s (%s)\n", resp.Message, resp.Username)

	return nil
}

func (c *Cli) runRefresh(ctx context.Context) error {
	session, err := c.authService.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	c.io.Println("✓ Tokens reissued")
	c.io.Printf("Access token expires: %s\n", session.AccessExpiresAt.Format(time.RFC3339))
	c.io.Printf("Session expires: %s\n", session.RefreshExpiresAt.Format(time.RFC3339))

	return nil
}
