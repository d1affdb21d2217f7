package reconciler

import "time"

// Workload represents a replica-controlled unit (a Deployment) in the
// domain layer.
type Workload struct {
	Name              string
	Namespace         string
	CreationTimestamp time.Time
	DesiredReplicas   int32
	ObservedReplicas  int32
	Annotations       map[string]string
}

// ExposureKind is the kind of a network-exposure object.
type ExposureKind string

const (
	KindService ExposureKind = "Service"
	KindRoute   ExposureKind = "Route"
)

// ServiceRef represents a v1 Service in the domain layer. Only the selector
// matters for liveness.
type ServiceRef struct {
	Name      string
	Namespace string
	Selector  map[string]string
}

// Route represents an OpenShift route.openshift.io/v1 Route in the domain
// layer. TargetServiceName is empty when the route has no service target.
type Route struct {
	Name              string
	Namespace         string
	TargetServiceName string
}

// PodRef is a minimal view of a pod backing a service.
type PodRef struct {
	Name  string
	Phase string
}

// Pod phases that never count as live backing.
const (
	PodPhaseFailed    = "Failed"
	PodPhaseSucceeded = "Succeeded"
)

// LifecycleResult holds the per-namespace counts of one lifecycle pass.
type LifecycleResult struct {
	Processed  int
	ScaledDown int
	Deleted    int
	Restored   int
	Failed     int
}

// OrphanResult holds the per-namespace counts of one orphan-exposure pass.
type OrphanResult struct {
	Checked int
	Deleted int
	Failed  int
}

// NamespaceResult combines both passes for one namespace.
type NamespaceResult struct {
	Namespace string
	Lifecycle LifecycleResult
	Orphans   OrphanResult
}

// Summary aggregates a full run across namespaces.
type Summary struct {
	Namespaces     int
	Processed      int
	ScaledDown     int
	Deleted        int
	Restored       int
	OrphansChecked int
	OrphansDeleted int
	Failed         int
	DryRun         bool
	StartedAt      time.Time
	FinishedAt     time.Time
}

// maxFailureExitCode caps the failure-count exit code so it stays inside
// the portable 8-bit range with room for shell-reserved codes.
const maxFailureExitCode = 100

// ExitCode maps a run summary to the process exit contract: 0 on full
// success, otherwise the number of failed mutations capped at 100.
func (s Summary) ExitCode() int {
	if s.Failed == 0 {
		return 0
	}

	if s.Failed > maxFailureExitCode {
		return maxFailureExitCode
	}

	return s.Failed
}

func (s *Summary) add(r NamespaceResult) {
	s.Namespaces++
	s.Processed += r.Lifecycle.Processed
	s.ScaledDown += r.Lifecycle.ScaledDown
	s.Deleted += r.Lifecycle.Deleted
	s.Restored += r.Lifecycle.Restored
	s.Failed += r.Lifecycle.Failed
	s.OrphansChecked += r.Orphans.Checked
	s.OrphansDeleted += r.Orphans.Deleted
	s.Failed += r.Orphans.Failed
}
