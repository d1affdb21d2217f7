package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Options carries the policy knobs of a run. Thresholds are validated by
// the config package before they reach the service.
type Options struct {
	DryRun             bool
	DeleteEnabled      bool
	ScaleDownAfterDays int
	DeleteAfterDays    int
	ScaleGraceHours    int
	DeleteGraceHours   int
	TargetNamespace    string
	ExcludedNamespaces map[string]struct{}

	// Now supplies the current time; nil means time.Now. Age computations
	// are pure functions of (timestamps, Now()).
	Now func() time.Time
}

type Service struct {
	logger     *slog.Logger
	repo       Repository
	opts       Options
	startTime  time.Time
	ready      chan struct{}
	doneCh     chan struct{}
	inShutdown atomic.Bool
	mu         sync.RWMutex
	lastRun    *Summary
}

// New creates a new reconciler service.
func New(
	logger *slog.Logger,
	repo Repository,
	opts Options,
) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		logger:    logger,
		repo:      repo,
		opts:      opts,
		startTime: opts.Now(),
		ready:     make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

func (s *Service) now() time.Time {
	return s.opts.Now()
}

// RunOnceCommand performs one full reconciliation pass over all target
// namespaces and returns the aggregated summary. Per-object failures are
// counted in the summary; only namespace resolution fails the run.
func (s *Service) RunOnceCommand(ctx context.Context) (Summary, error) {
	logger := s.logger.With("reconciler", "run")

	summary := Summary{
		DryRun:    s.opts.DryRun,
		StartedAt: s.now(),
	}

	namespaces, err := s.targetNamespaces(ctx)
	if err != nil {
		return summary, err
	}

	logger.InfoContext(ctx, "starting reconciliation pass",
		"namespaces", len(namespaces),
		"dryRun", s.opts.DryRun,
		"deleteEnabled", s.opts.DeleteEnabled,
	)

	for _, namespace := range namespaces {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "context done, stopping pass")

			summary.FinishedAt = s.now()
			s.setLastRun(summary)

			return summary, nil
		default:
		}

		result := s.reconcileNamespace(ctx, logger, namespace)
		summary.add(result)
	}

	summary.FinishedAt = s.now()
	s.setLastRun(summary)

	logger.InfoContext(ctx, "reconciliation pass finished",
		"namespaces", summary.Namespaces,
		"processed", summary.Processed,
		"scaledDown", summary.ScaledDown,
		"deleted", summary.Deleted,
		"restored", summary.Restored,
		"orphansChecked", summary.OrphansChecked,
		"orphansDeleted", summary.OrphansDeleted,
		"failed", summary.Failed,
		"duration", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond),
	)

	return summary, nil
}

func (s *Service) reconcileNamespace(
	ctx context.Context,
	logger *slog.Logger,
	namespace string,
) NamespaceResult {
	result := NamespaceResult{Namespace: namespace}

	lifecycle, err := s.ReconcileLifecycleCommand(ctx, namespace)
	if err != nil {
		logger.ErrorContext(ctx, "lifecycle pass failed",
			"namespace", namespace,
			"reason", err,
		)

		lifecycle.Failed++
	}

	result.Lifecycle = lifecycle

	orphans, err := s.ReconcileOrphansCommand(ctx, namespace)
	if err != nil {
		logger.ErrorContext(ctx, "orphan pass failed",
			"namespace", namespace,
			"reason", err,
		)

		orphans.Failed++
	}

	result.Orphans = orphans

	return result
}

func (s *Service) targetNamespaces(ctx context.Context) ([]string, error) {
	if s.opts.TargetNamespace != "" {
		exists, err := s.repo.NamespaceExistsQuery(ctx, s.opts.TargetNamespace)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrListNamespaces, err)
		}

		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrNamespaceAbsent, s.opts.TargetNamespace)
		}

		return []string{s.opts.TargetNamespace}, nil
	}

	namespaces, err := s.repo.ListNamespacesQuery(ctx, s.opts.ExcludedNamespaces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListNamespaces, err)
	}

	return namespaces, nil
}

// Name returns the name of the reconciler component.
func (s *Service) Name() string {
	return "idle-reaper"
}

// RunScheduledCommand runs a pass at each tick delivered on next() until the
// context is cancelled. The caller owns the schedule computation.
func (s *Service) RunScheduledCommand(
	ctx context.Context,
	next func(after time.Time) (time.Time, error),
) error {
	defer close(s.doneCh)

	logger := s.logger.With("reconciler", "schedule")

	close(s.ready)

	for {
		if _, err := s.RunOnceCommand(ctx); err != nil {
			logger.ErrorContext(ctx, "reconcile pass error", "reason", err)
		}

		at, err := next(s.now())
		if err != nil {
			return fmt.Errorf("compute next occurrence: %w", err)
		}

		logger.InfoContext(ctx, "sleeping until next occurrence", "at", at)

		timer := time.NewTimer(time.Until(at))

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.InfoContext(ctx, "terminating scheduled reconciler loop")

			return nil
		}
	}
}

// Shutdown waits for the scheduled loop to exit.
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "reconciler service is already shutting down, skipping shutdown")

		return nil
	}

	s.logger.InfoContext(ctx, "shutting down reconciler service")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before reconciler loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "reconciler loop exited")
	}

	return nil
}

// LastRun returns the summary of the most recent pass, or nil before the
// first pass finished. Used by the status endpoint.
func (s *Service) LastRun() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastRun == nil {
		return nil
	}

	out := *s.lastRun

	return &out
}

func (s *Service) setLastRun(summary Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRun = &summary
}

// StartTime returns when the service was created.
func (s *Service) StartTime() time.Time {
	return s.startTime
}

// Uptime returns how long the service has been up.
func (s *Service) Uptime() time.Duration {
	return s.now().Sub(s.startTime)
}

// IsHealthy reports process liveness.
func (s *Service) IsHealthy() bool {
	return !s.inShutdown.Load()
}

// IsReady reports whether the scheduled loop has started.
func (s *Service) IsReady() bool {
	select {
	case <-s.ready:
		return !s.inShutdown.Load()
	default:
		return false
	}
}
