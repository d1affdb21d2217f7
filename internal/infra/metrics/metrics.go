package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var workloadsScaledDownTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "idle_reaper_workloads_scaled_down_total",
		Help: "Total number of workloads scaled to zero replicas by age.",
	},
	[]string{"namespace"},
)

var workloadsRestoredTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "idle_reaper_workloads_restored_total",
		Help: "Total number of scaled-down workloads restored to their original replica count.",
	},
	[]string{"namespace"},
)

var workloadsDeletedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "idle_reaper_workloads_deleted_total",
		Help: "Total number of workloads deleted after exceeding the deletion threshold.",
	},
	[]string{"namespace"},
)

var orphansDeletedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "idle_reaper_orphans_deleted_total",
		Help: "Total number of exposure objects (services, routes) deleted for lack of live backing.",
	},
	[]string{"namespace", "kind"},
)

var mutationFailuresTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "idle_reaper_mutation_failures_total",
		Help: "Total number of failed cluster mutations (scale, annotate, delete).",
	},
	[]string{"namespace"},
)

// RecordWorkloadScaledDown increments the scale-down counter.
func RecordWorkloadScaledDown(namespace string) {
	workloadsScaledDownTotal.WithLabelValues(namespace).Inc()
}

// RecordWorkloadRestored increments the restoration counter.
func RecordWorkloadRestored(namespace string) {
	workloadsRestoredTotal.WithLabelValues(namespace).Inc()
}

// RecordWorkloadDeleted increments the deletion counter.
func RecordWorkloadDeleted(namespace string) {
	workloadsDeletedTotal.WithLabelValues(namespace).Inc()
}

// RecordOrphanDeleted increments the orphan-deletion counter for one kind.
func RecordOrphanDeleted(namespace, kind string) {
	orphansDeletedTotal.WithLabelValues(namespace, kind).Inc()
}

// RecordMutationFailure increments the failure counter.
func RecordMutationFailure(namespace string) {
	mutationFailuresTotal.WithLabelValues(namespace).Inc()
}
