package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду клиента
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "whoami", "me":
		return c.runWhoami(ctx)
	case "admin":
		return c.runAdmin(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	case "logout":
		return c.runLogout(ctx, args)
	case "status":
		return c.runStatus(ctx)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
