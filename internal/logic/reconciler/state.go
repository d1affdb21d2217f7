package reconciler

import (
	"strconv"
	"time"
)

// lifecycleState is the typed decoding of a workload's lifecycle
// annotations. The annotations stay the wire format; all decisions are made
// on this struct and encoded back only at the write boundary.
type lifecycleState struct {
	Excluded   bool
	ScaledDown bool
	// ScaledDownAt is zero when the scaled-down-date annotation is missing
	// or unparseable. Callers must treat a zero value as "just now" so an
	// annotation glitch can never fast-track a deletion.
	ScaledDownAt     time.Time
	OriginalReplicas int32
}

// decodeState reads the lifecycle annotations of a workload into a typed
// state. scaled-down alone is authoritative: a missing or malformed date or
// replica annotation keeps the workload in the ScaledDown state with
// conservative defaults.
func decodeState(w Workload) lifecycleState {
	st := lifecycleState{
		OriginalReplicas: defaultRestoreReplicas,
	}

	if w.Annotations == nil {
		return st
	}

	if w.Annotations[AnnotationExcludeKey] == annotationTrueValue {
		st.Excluded = true

		return st
	}

	if w.Annotations[AnnotationScaledDownKey] != annotationTrueValue {
		return st
	}

	st.ScaledDown = true

	if raw, ok := w.Annotations[AnnotationScaledDownDateKey]; ok {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			st.ScaledDownAt = at.UTC()
		}
	}

	if raw, ok := w.Annotations[AnnotationOriginalReplicasKey]; ok {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil && n > 0 {
			st.OriginalReplicas = int32(n)
		}
	}

	return st
}

// encodeScaledDown produces the annotation set persisted when a workload is
// scaled to zero.
func encodeScaledDown(now time.Time, originalReplicas int32) map[string]string {
	return map[string]string{
		AnnotationScaledDownKey:       annotationTrueValue,
		AnnotationScaledDownDateKey:   now.UTC().Format(time.RFC3339),
		AnnotationOriginalReplicasKey: strconv.FormatInt(int64(originalReplicas), 10),
	}
}

// lifecycleAnnotationKeys are cleared together on restoration.
var lifecycleAnnotationKeys = []string{
	AnnotationScaledDownKey,
	AnnotationScaledDownDateKey,
	AnnotationOriginalReplicasKey,
}

// ageDays returns the whole days elapsed from t to now. A zero or future t
// yields 0 so a workload with an unknown creation time never ages out.
func ageDays(t, now time.Time) int {
	return ageHours(t, now) / hoursPerDay
}

// ageHours returns the whole hours elapsed from t to now, floored at 0.
func ageHours(t, now time.Time) int {
	if t.IsZero() || !t.Before(now) {
		return 0
	}

	return int(now.Sub(t).Hours())
}
