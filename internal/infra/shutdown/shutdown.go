package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultShutdownTimeout = 5 * time.Second
)

// Notify returns a channel that will receive SIGTERM and SIGINT signals.
// This should be called as the first thing in main() before any other initialization.
func Notify() <-chan os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	return signals
}

type Handler struct {
	logger  *slog.Logger
	signals <-chan os.Signal
}

// New creates a new shutdown handler.
func New(logger *slog.Logger, signals <-chan os.Signal) *Handler {
	return &Handler{
		logger:  logger,
		signals: signals,
	}
}

// HandleSignals listens for SIGTERM and SIGINT signals and cancels the context when received.
func (h *Handler) HandleSignals(ctx context.Context, cancel func()) {
	select {
	case <-ctx.Done():
		h.logger.InfoContext(ctx, "terminating signal handler due to context done")

		return
	case <-h.signals:
	}

	h.logger.InfoContext(ctx, "received termination signal, terminating")

	cancel()
}

// GracefulShutdown performs graceful shutdown of the components with timeout.
func GracefulShutdown(
	originCtx context.Context,
	logger *slog.Logger,
	shutdowners []Shutdowner,
) error {
	// Use context.WithoutCancel to ensure shutdown continues even if originCtx is cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(originCtx), defaultShutdownTimeout)
	defer cancel()

	componentsShutdownErrors := make(chan error, len(shutdowners))

	// Shutdown components in reverse order to ensure dependencies are met
	for i := len(shutdowners) - 1; i >= 0; i-- {
		start := time.Now()
		shutdowner := shutdowners[i]

		if err := shutdowner.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "component shutdown failed",
				"component", shutdowner.Name(),
				"duration", time.Since(start),
				"reason", err,
			)

			// collect errors from components
			componentsShutdownErrors <- err

			continue
		}

		logger.InfoContext(ctx, "component shutdown completed",
			"component", shutdowner.Name(),
			"duration", time.Since(start),
		)
	}

	close(componentsShutdownErrors)

	var errs error
	// collect errors from components
	for err := range componentsShutdownErrors {
		errs = errors.Join(errs, err)
	}

	if errs != nil {
		return fmt.Errorf("component shutdown: %w", errs)
	}

	return errs
}
