package reconciler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillcoder/idle-reaper/internal/infra/metrics"
)

// ReconcileOrphansCommand runs one orphan-exposure pass over a namespace:
// services (and routes, where the cluster serves them) without live backing
// are deleted. Services fronting a workload inside its post-scale-down grace
// window are kept.
func (s *Service) ReconcileOrphansCommand(
	ctx context.Context,
	namespace string,
) (OrphanResult, error) {
	logger := s.logger.With("reconciler", "orphan", "namespace", namespace)

	result := OrphanResult{}

	// Workloads are read once per namespace; the grace predicate is a pure
	// age+replica check against this snapshot, independent of lifecycle
	// annotations.
	workloads, err := s.workloadsByName(ctx, namespace)
	if err != nil {
		return result, err
	}

	services, err := s.repo.ListServicesQuery(ctx, namespace)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrListExposure, err)
	}

	servicesByName := make(map[string]ServiceRef, len(services))
	for i := range services {
		servicesByName[services[i].Name] = services[i]
	}

	for i := range services {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "context done, stopping orphan pass")

			return result, nil
		default:
		}

		result.Checked++

		live, err := s.serviceHasLiveBacking(ctx, logger, services[i], workloads)
		if err != nil {
			logger.ErrorContext(ctx, "liveness check failed, keeping service",
				"service", services[i].Name,
				"reason", err,
			)

			result.Failed++

			continue
		}

		if !live {
			s.deleteExposure(ctx, logger, KindService, namespace, services[i].Name, &result)
		}
	}

	if !s.repo.RoutesSupported(ctx) {
		return result, nil
	}

	routes, err := s.repo.ListRoutesQuery(ctx, namespace)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrListExposure, err)
	}

	for i := range routes {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "context done, stopping orphan pass")

			return result, nil
		default:
		}

		result.Checked++

		live, err := s.routeHasLiveBacking(ctx, logger, routes[i], servicesByName, workloads)
		if err != nil {
			logger.ErrorContext(ctx, "liveness check failed, keeping route",
				"route", routes[i].Name,
				"reason", err,
			)

			result.Failed++

			continue
		}

		if !live {
			s.deleteExposure(ctx, logger, KindRoute, namespace, routes[i].Name, &result)
		}
	}

	return result, nil
}

// serviceHasLiveBacking reports whether a service still fronts anything
// worth keeping: a running pod, or a grace-period workload derived from its
// selector. A selector-less service is never considered live.
func (s *Service) serviceHasLiveBacking(
	ctx context.Context,
	logger *slog.Logger,
	svc ServiceRef,
	workloads map[string]Workload,
) (bool, error) {
	if len(svc.Selector) == 0 {
		return false, nil
	}

	pods, err := s.repo.ListPodsQuery(
		ctx,
		svc.Namespace,
		svc.Selector,
		[]string{PodPhaseFailed, PodPhaseSucceeded},
	)
	if err != nil {
		return false, fmt.Errorf("list pods: %w", err)
	}

	if len(pods) > 0 {
		return true, nil
	}

	name, ok := s.workloadNameFromSelector(ctx, svc.Selector)
	if !ok {
		return false, nil
	}

	w, ok := workloads[name]
	if !ok {
		return false, nil
	}

	if s.inGracePeriod(w) {
		logger.DebugContext(ctx, "backing workload in grace period, keeping service",
			"service", svc.Name,
			"workload", name,
		)

		return true, nil
	}

	return false, nil
}

// routeHasLiveBacking derives a route's liveness entirely from its target
// service. A route without a resolvable target is never live.
func (s *Service) routeHasLiveBacking(
	ctx context.Context,
	logger *slog.Logger,
	route Route,
	servicesByName map[string]ServiceRef,
	workloads map[string]Workload,
) (bool, error) {
	if route.TargetServiceName == "" {
		return false, nil
	}

	target, ok := servicesByName[route.TargetServiceName]
	if !ok {
		return false, nil
	}

	return s.serviceHasLiveBacking(ctx, logger, target, workloads)
}

// inGracePeriod reports whether a workload was recently and deliberately
// scaled to zero: age in hours within the grace window and desired replicas
// exactly 0.
func (s *Service) inGracePeriod(w Workload) bool {
	if w.DesiredReplicas != 0 {
		return false
	}

	hours := ageHours(w.CreationTimestamp, s.now())

	return hours >= s.opts.ScaleGraceHours && hours < s.opts.DeleteGraceHours
}

func (s *Service) workloadNameFromSelector(
	ctx context.Context,
	selector map[string]string,
) (string, bool) {
	keys := selectorWorkloadKeys
	if s.repo.RoutesSupported(ctx) {
		keys = append(append([]string{}, keys...), selectorWorkloadKeyOpenShift)
	}

	for _, key := range keys {
		if name, ok := selector[key]; ok && name != "" {
			return name, true
		}
	}

	return "", false
}

func (s *Service) workloadsByName(
	ctx context.Context,
	namespace string,
) (map[string]Workload, error) {
	workloads, err := s.repo.ListWorkloadsQuery(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListWorkloads, err)
	}

	byName := make(map[string]Workload, len(workloads))
	for i := range workloads {
		byName[workloads[i].Name] = workloads[i]
	}

	return byName, nil
}

func (s *Service) deleteExposure(
	ctx context.Context,
	logger *slog.Logger,
	kind ExposureKind,
	namespace,
	name string,
	result *OrphanResult,
) {
	logger = logger.With("kind", string(kind), "name", name)

	if s.opts.DryRun {
		logger.InfoContext(ctx, "dry-run: would delete orphaned exposure object")

		result.Deleted++

		return
	}

	var err error

	switch kind {
	case KindService:
		err = s.repo.DeleteServiceCommand(ctx, namespace, name)
	case KindRoute:
		err = s.repo.DeleteRouteCommand(ctx, namespace, name)
	}

	if err != nil {
		if isNotFound(err) {
			logger.DebugContext(ctx, "exposure object gone before delete")

			result.Deleted++

			return
		}

		if isForbidden(err) {
			logger.WarnContext(ctx, "permission denied deleting exposure object", "reason", err)
		} else {
			logger.ErrorContext(ctx, "delete exposure object failed", "reason", err)
		}

		metrics.RecordMutationFailure(namespace)

		result.Failed++

		return
	}

	logger.InfoContext(ctx, "orphaned exposure object deleted")
	metrics.RecordOrphanDeleted(namespace, string(kind))

	result.Deleted++
}
