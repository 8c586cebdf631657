// Package main is the entry point for the planner dashboard CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/planner-dashboard/backend/internal/cli"
	"github.com/planner-dashboard/backend/internal/logger"
)

func main() {
	log := logger.FromEnv()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(log)
	defer app.Close()

	if err := cli.RootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		app.Close()
		os.Exit(1)
	}
}
