package reconciler

const (
	// AnnotationPrefix is the namespace for every annotation this
	// controller persists. The suffixes must stay bit-exact: the annotations
	// are the only state shared with previous deployments of the reaper.
	AnnotationPrefix = "idle-reaper.beta.k8s.skillcoder.com/"

	AnnotationExcludeKey          = AnnotationPrefix + "exclude"
	AnnotationScaledDownKey       = AnnotationPrefix + "scaled-down"
	AnnotationScaledDownDateKey   = AnnotationPrefix + "scaled-down-date"
	AnnotationOriginalReplicasKey = AnnotationPrefix + "original-replicas"

	annotationTrueValue = "true"
)

// Selector keys tried, in order, to derive a workload name from a service
// selector when no pods match it.
var selectorWorkloadKeys = []string{
	"app",
	"name",
	"app.kubernetes.io/name",
}

// selectorWorkloadKeyOpenShift is additionally consulted on clusters where
// the route extension is available.
const selectorWorkloadKeyOpenShift = "deploymentconfig"

const (
	hoursPerDay = 24

	// defaultRestoreReplicas is used when original-replicas is missing or
	// unparseable at restoration time.
	defaultRestoreReplicas = 1
)
