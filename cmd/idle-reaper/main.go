package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/skillcoder/idle-reaper/internal/app"
	"github.com/skillcoder/idle-reaper/internal/config"
	"github.com/skillcoder/idle-reaper/internal/infra/shutdown"
)

// Exit contract: 0 full success, 2 precondition failure before any
// namespace was processed, otherwise the failed-mutation count (capped).
const exitCodePrecondition = 2

func main() {
	// Start listening for signals immediately as first thing, before any other initialization
	signals := shutdown.Notify()
	ctx := context.Background()

	code, err := run(ctx, signals)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run", "reason", err)
		// Give the logger some time to flush
		time.Sleep(1 * time.Second)
		os.Exit(code)
	}

	slog.InfoContext(ctx, "bye")
	os.Exit(code)
}

func run(ctx context.Context, signals <-chan os.Signal) (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return exitCodePrecondition, fmt.Errorf("load config: %w", err)
	}

	application, err := app.New(cfg, signals)
	if err != nil {
		return exitCodePrecondition, fmt.Errorf("new application: %w", err)
	}

	summary, err := application.Run(ctx)
	if err != nil {
		if errors.Is(err, app.ErrPrecondition) {
			return exitCodePrecondition, err
		}

		return 1, err
	}

	return summary.ExitCode(), nil
}
