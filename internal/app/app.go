package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/skillcoder/idle-reaper/internal/adapters/outbound/k8s"
	"github.com/skillcoder/idle-reaper/internal/config"
	"github.com/skillcoder/idle-reaper/internal/httpserver"
	"github.com/skillcoder/idle-reaper/internal/infra/cronparser"
	"github.com/skillcoder/idle-reaper/internal/infra/logging"
	"github.com/skillcoder/idle-reaper/internal/infra/shutdown"
	"github.com/skillcoder/idle-reaper/internal/logic/reconciler"
)

// ErrPrecondition marks failures that abort the run before any namespace is
// touched: unreachable cluster, absent target namespace, bad schedule.
var ErrPrecondition = errors.New("precondition failed")

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	repo       *k8s.Adapter
	reconciler *reconciler.Service
	signals    <-chan os.Signal
}

// New creates a new application instance with all dependencies wired.
func New(cfg *config.Config, signals <-chan os.Signal) (*App, error) {
	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	// Create K8s config
	kubeConfig, err := clientcmd.BuildConfigFromFlags(
		cfg.KubeMaster,
		cfg.KubeConfig,
	)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	// Create K8s clientset
	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	// Create dynamic client (route extension)
	dynamicClient, err := dynamic.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	// Create secondary adapter (cluster adapter)
	repo := k8s.New(logger, clientset, dynamicClient)

	// Create logic service (inject repository adapter)
	service := reconciler.New(logger, repo, reconciler.Options{
		DryRun:             cfg.DryRun,
		DeleteEnabled:      cfg.DeleteEnabled,
		ScaleDownAfterDays: cfg.ScaleDownAfterDays,
		DeleteAfterDays:    cfg.DeleteAfterDays,
		ScaleGraceHours:    cfg.ScaleGraceHours,
		DeleteGraceHours:   cfg.DeleteGraceHours,
		TargetNamespace:    cfg.TargetNamespace,
		ExcludedNamespaces: cfg.ExcludedNamespaces,
	})

	return &App{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		reconciler: service,
		signals:    signals,
	}, nil
}

// Run executes one pass (default) or the scheduled loop, and returns the
// summary of the last completed pass.
func (a *App) Run(originCtx context.Context) (reconciler.Summary, error) {
	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	go shutdown.New(a.logger, a.signals).HandleSignals(ctx, cancel)

	if err := a.repo.CheckConnectivity(ctx); err != nil {
		return reconciler.Summary{}, fmt.Errorf("%w: cluster connectivity: %w", ErrPrecondition, err)
	}

	if a.cfg.Schedule == "" {
		summary, err := a.reconciler.RunOnceCommand(ctx)
		if errors.Is(err, reconciler.ErrNamespaceAbsent) {
			return summary, fmt.Errorf("%w: %w", ErrPrecondition, err)
		}

		return summary, err
	}

	return a.runScheduled(ctx)
}

func (a *App) runScheduled(ctx context.Context) (reconciler.Summary, error) {
	parser := cronparser.New()

	if err := parser.Validate(a.cfg.Schedule, a.cfg.ScheduleTZ); err != nil {
		return reconciler.Summary{}, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}

	httpServer := httpserver.New(a.logger, a.reconciler, a.cfg.HTTPPort)
	metricsServer := httpserver.NewMetricsServer(a.logger, a.cfg.MetricsPort)

	if err := httpServer.Start(ctx); err != nil {
		return reconciler.Summary{}, fmt.Errorf("start http server: %w", err)
	}

	if err := metricsServer.Start(ctx); err != nil {
		return reconciler.Summary{}, fmt.Errorf("start metrics server: %w", err)
	}

	a.logger.InfoContext(ctx, "starting scheduled reconciler",
		"schedule", a.cfg.Schedule,
		"tz", a.cfg.ScheduleTZ,
	)

	next := func(after time.Time) (time.Time, error) {
		return parser.NextAfter(a.cfg.Schedule, a.cfg.ScheduleTZ, after)
	}

	runErr := a.reconciler.RunScheduledCommand(ctx, next)

	// Reverse shutdown order: the reconciler flips unhealthy first so the
	// health endpoints report 503 while the servers drain.
	shutdownErr := shutdown.GracefulShutdown(ctx, a.logger, []shutdown.Shutdowner{
		httpServer,
		metricsServer,
		a.reconciler,
	})

	summary := reconciler.Summary{}
	if last := a.reconciler.LastRun(); last != nil {
		summary = *last
	}

	return summary, errors.Join(runErr, shutdownErr)
}
