package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func (c *Cli) runLogout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	all := fs.Bool("all", false, "Revoke every session of the user")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid logout arguments: %w", err)
	}

	c.io.Println("=== Logout ===")

	revoked, err := c.authService.Logout(ctx, *all)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	if *all {
		c.io.Printf("Revoked sessions: %d\n", revoked)
	}
	c.io.Println("Your local session has been deleted.")

	return nil
}
