package config

// Env key constants. All reaper configuration env vars use IDLEREAPER_ prefix.

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "IDLEREAPER_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "IDLEREAPER_KUBE_MASTER"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "IDLEREAPER_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "IDLEREAPER_LOG_FORMAT"

// Dry run: log every mutation instead of performing it. Enabled by default;
// must be explicitly set to "false" to let the reaper touch the cluster.
const envKeyDryRun = "IDLEREAPER_DRY_RUN"

// Single namespace to reconcile. Empty means all namespaces except the
// excluded set.
const envKeyTargetNamespace = "IDLEREAPER_TARGET_NAMESPACE"

// Comma-separated namespaces never reconciled.
const envKeyExcludedNamespaces = "IDLEREAPER_EXCLUDED_NAMESPACES"

// Whole days of age after which a workload is scaled to zero.
const envKeyScaleDownAfterDays = "IDLEREAPER_SCALE_DOWN_AFTER_DAYS"

// Whole days of age after which a scaled-down workload is deleted.
const envKeyDeleteAfterDays = "IDLEREAPER_DELETE_AFTER_DAYS"

// Whether deletion is performed at all. Scale-down still happens when false.
const envKeyDeleteEnabled = "IDLEREAPER_DELETE_ENABLED"

// Lower bound (hours) of the grace window protecting exposure objects of a
// freshly zeroed workload.
const envKeyScaleGraceHours = "IDLEREAPER_SCALE_GRACE_HOURS"

// Upper bound (hours) of the grace window.
const envKeyDeleteGraceHours = "IDLEREAPER_DELETE_GRACE_HOURS"

// Cron expression (minute hour dom month dow). Empty runs a single pass and
// exits; set, the process stays up and runs a pass per occurrence.
const envKeySchedule = "IDLEREAPER_SCHEDULE"

// IANA timezone for the schedule (e.g. Europe/Berlin). Defaults to UTC.
const envKeyScheduleTZ = "IDLEREAPER_SCHEDULE_TZ"

// Port for health/readiness HTTP server (scheduled mode only).
const envKeyHTTPPort = "IDLEREAPER_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics, scheduled mode only).
const envKeyMetricsPort = "IDLEREAPER_METRICS_PORT"

// Standard k8s env keys used as fallback when IDLEREAPER_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)
