// Command tramy sets up Claude Code role commands, agents and workflows for a project.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tramy-dev/tramy/internal/cli"
	"github.com/tramy-dev/tramy/internal/errors"
)

func main() {
	// A project .env may set TRAMY_LOG_LEVEL; a missing file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.RunContext(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
