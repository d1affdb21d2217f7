package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/skillcoder/idle-reaper/internal/infra/metrics"
)

// ReconcileLifecycleCommand runs one lifecycle pass over a namespace:
// workloads old enough are scaled to zero, workloads scaled down long enough
// are deleted (when deletion is enabled), and workloads younger than the
// scale-down threshold that still carry the scaled-down mark are restored.
func (s *Service) ReconcileLifecycleCommand(
	ctx context.Context,
	namespace string,
) (LifecycleResult, error) {
	logger := s.logger.With("reconciler", "lifecycle", "namespace", namespace)

	result := LifecycleResult{}

	workloads, err := s.repo.ListWorkloadsQuery(ctx, namespace)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrListWorkloads, err)
	}

	logger.DebugContext(ctx, "starting to process workloads", "count", len(workloads))

	for i := range workloads {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "context done, stopping lifecycle pass")

			return result, nil
		default:
		}

		s.processWorkload(ctx, logger, workloads[i], &result)
	}

	logger.InfoContext(ctx, "lifecycle pass finished",
		"processed", result.Processed,
		"scaledDown", result.ScaledDown,
		"deleted", result.Deleted,
		"restored", result.Restored,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *Service) processWorkload(
	ctx context.Context,
	logger *slog.Logger,
	w Workload,
	result *LifecycleResult,
) {
	logger = logger.With("workload", w.Name)

	st := decodeState(w)
	if st.Excluded {
		logger.DebugContext(ctx, "workload excluded, skipping")

		return
	}

	result.Processed++

	now := s.now()
	age := ageDays(w.CreationTimestamp, now)

	logger = logger.With("ageDays", age)

	if s.opts.DeleteEnabled && age >= s.opts.DeleteAfterDays && st.ScaledDown {
		// The date annotation decodes to zero when malformed; a zero value
		// means the scaled-down age is 0 and deletion waits a full window.
		scaledDownAge := ageDays(st.ScaledDownAt, now)
		if scaledDownAge >= s.opts.DeleteAfterDays-s.opts.ScaleDownAfterDays {
			s.deleteWorkload(ctx, logger, w, scaledDownAge, result)

			return
		}
	}

	if age >= s.opts.ScaleDownAfterDays {
		s.scaleDownWorkload(ctx, logger, w, st, result)

		return
	}

	if st.ScaledDown {
		s.restoreWorkload(ctx, logger, w, st, result)
	}
}

func (s *Service) deleteWorkload(
	ctx context.Context,
	logger *slog.Logger,
	w Workload,
	scaledDownAge int,
	result *LifecycleResult,
) {
	if s.opts.DryRun {
		logger.InfoContext(ctx, "dry-run: would delete workload", "scaledDownAgeDays", scaledDownAge)

		result.Deleted++

		return
	}

	err := s.repo.DeleteWorkloadCommand(ctx, w.Namespace, w.Name)
	if err != nil && !isNotFound(err) {
		logger.ErrorContext(ctx, "delete workload failed", "reason", err)
		metrics.RecordMutationFailure(w.Namespace)

		result.Failed++

		return
	}

	logger.InfoContext(ctx, "workload deleted", "scaledDownAgeDays", scaledDownAge)
	metrics.RecordWorkloadDeleted(w.Namespace)

	result.Deleted++
}

func (s *Service) scaleDownWorkload(
	ctx context.Context,
	logger *slog.Logger,
	w Workload,
	st lifecycleState,
	result *LifecycleResult,
) {
	if st.ScaledDown {
		// Already marked by an earlier run; re-annotating would reset the
		// scaled-down clock.
		logger.DebugContext(ctx, "workload already scaled down, skipping")

		return
	}

	if w.DesiredReplicas == 0 {
		// Zeroed by someone else. Leave it unmarked: the reaper never claims
		// authorship of a scale-down it did not perform.
		logger.DebugContext(ctx, "workload already at zero replicas, leaving unmarked")

		return
	}

	if s.opts.DryRun {
		logger.InfoContext(ctx, "dry-run: would scale down workload", "replicas", w.DesiredReplicas)

		result.ScaledDown++

		return
	}

	if err := s.repo.ScaleWorkloadCommand(ctx, w.Namespace, w.Name, 0); err != nil {
		if isNotFound(err) {
			logger.DebugContext(ctx, "workload gone before scale down")

			return
		}

		logger.ErrorContext(ctx, "scale down failed", "reason", err)
		metrics.RecordMutationFailure(w.Namespace)

		result.Failed++

		return
	}

	annotations := encodeScaledDown(s.now(), w.DesiredReplicas)
	if err := s.repo.SetAnnotationsCommand(ctx, w.Namespace, w.Name, annotations); err != nil {
		// The workload is at zero but unmarked; the next run sees replicas=0
		// without the mark and leaves it alone rather than guessing.
		logger.ErrorContext(ctx, "annotate scaled down workload failed", "reason", err)
		metrics.RecordMutationFailure(w.Namespace)

		result.Failed++

		return
	}

	logger.InfoContext(ctx, "workload scaled down", "originalReplicas", w.DesiredReplicas)
	metrics.RecordWorkloadScaledDown(w.Namespace)

	result.ScaledDown++
}

func (s *Service) restoreWorkload(
	ctx context.Context,
	logger *slog.Logger,
	w Workload,
	st lifecycleState,
	result *LifecycleResult,
) {
	if s.opts.DryRun {
		logger.InfoContext(ctx, "dry-run: would restore workload", "replicas", st.OriginalReplicas)

		result.Restored++

		return
	}

	if err := s.repo.ScaleWorkloadCommand(ctx, w.Namespace, w.Name, st.OriginalReplicas); err != nil {
		if isNotFound(err) {
			logger.DebugContext(ctx, "workload gone before restore")

			return
		}

		logger.ErrorContext(ctx, "restore failed", "reason", err)
		metrics.RecordMutationFailure(w.Namespace)

		result.Failed++

		return
	}

	if err := s.repo.ClearAnnotationsCommand(ctx, w.Namespace, w.Name, lifecycleAnnotationKeys); err != nil {
		// Replicas are back but the mark remains; the next run retries the
		// clear because restoration re-enters on scaled-down=true.
		logger.ErrorContext(ctx, "clear lifecycle annotations failed", "reason", err)
		metrics.RecordMutationFailure(w.Namespace)

		result.Failed++

		return
	}

	logger.InfoContext(ctx, "workload restored", "replicas", st.OriginalReplicas)
	metrics.RecordWorkloadRestored(w.Namespace)

	result.Restored++
}

func isNotFound(err error) bool {
	var target notFound

	return errors.As(err, &target)
}

func isForbidden(err error) bool {
	var target forbidden

	return errors.As(err, &target)
}
