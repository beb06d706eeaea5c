package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lvyanru/coractl/internal/cli/commands"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()

	if err != nil {
		// Usage errors come from cobra and have not been printed yet
		errMsg := err.Error()
		if isUsageError(errMsg) {
			ui.PrintError("%s", errMsg)
			ui.Println("\nRun 'coractl --help' for usage.")
		}
		os.Exit(1)
	}
}

func isUsageError(msg string) bool {
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "flag needs", "invalid argument", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
