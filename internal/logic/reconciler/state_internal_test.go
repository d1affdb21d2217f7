package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeState(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	t.Run("no annotations means active", func(t *testing.T) {
		t.Parallel()

		st := decodeState(Workload{})
		require.False(t, st.Excluded)
		require.False(t, st.ScaledDown)
		require.Equal(t, int32(defaultRestoreReplicas), st.OriginalReplicas)
	})

	t.Run("exclude wins over everything", func(t *testing.T) {
		t.Parallel()

		st := decodeState(Workload{Annotations: map[string]string{
			AnnotationExcludeKey:    "true",
			AnnotationScaledDownKey: "true",
		}})
		require.True(t, st.Excluded)
		require.False(t, st.ScaledDown)
	})

	t.Run("full scaled-down set decodes", func(t *testing.T) {
		t.Parallel()

		st := decodeState(Workload{Annotations: map[string]string{
			AnnotationScaledDownKey:       "true",
			AnnotationScaledDownDateKey:   at.Format(time.RFC3339),
			AnnotationOriginalReplicasKey: "5",
		}})
		require.True(t, st.ScaledDown)
		require.True(t, st.ScaledDownAt.Equal(at))
		require.Equal(t, int32(5), st.OriginalReplicas)
	})

	t.Run("scaled-down flag alone is authoritative", func(t *testing.T) {
		t.Parallel()

		st := decodeState(Workload{Annotations: map[string]string{
			AnnotationScaledDownKey: "true",
		}})
		require.True(t, st.ScaledDown)
		require.True(t, st.ScaledDownAt.IsZero())
		require.Equal(t, int32(defaultRestoreReplicas), st.OriginalReplicas)
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		t.Parallel()

		st := decodeState(Workload{Annotations: map[string]string{
			AnnotationScaledDownKey:       "true",
			AnnotationScaledDownDateKey:   "last tuesday",
			AnnotationOriginalReplicasKey: "a few",
		}})
		require.True(t, st.ScaledDown)
		require.True(t, st.ScaledDownAt.IsZero())
		require.Equal(t, int32(defaultRestoreReplicas), st.OriginalReplicas)
	})

	t.Run("non-positive original replicas falls back to one", func(t *testing.T) {
		t.Parallel()

		st := decodeState(Workload{Annotations: map[string]string{
			AnnotationScaledDownKey:       "true",
			AnnotationOriginalReplicasKey: "0",
		}})
		require.Equal(t, int32(defaultRestoreReplicas), st.OriginalReplicas)
	})
}

func TestEncodeScaledDown(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	got := encodeScaledDown(at, 4)
	require.Equal(t, map[string]string{
		AnnotationScaledDownKey:       "true",
		AnnotationScaledDownDateKey:   "2026-08-24T12:00:00Z",
		AnnotationOriginalReplicasKey: "4",
	}, got)

	// Round-trip: what was written decodes to the same state.
	st := decodeState(Workload{Annotations: got})
	require.True(t, st.ScaledDown)
	require.True(t, st.ScaledDownAt.Equal(at))
	require.Equal(t, int32(4), st.OriginalReplicas)
}

func TestAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	t.Run("whole days floor", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, 0, ageDays(now.Add(-23*time.Hour), now))
		require.Equal(t, 1, ageDays(now.Add(-25*time.Hour), now))
		require.Equal(t, 10, ageDays(now.Add(-10*24*time.Hour), now))
	})

	t.Run("zero timestamp never ages", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, 0, ageDays(time.Time{}, now))
		require.Equal(t, 0, ageHours(time.Time{}, now))
	})

	t.Run("future timestamp never ages", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, 0, ageDays(now.Add(time.Hour), now))
	})

	t.Run("whole hours floor", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, 49, ageHours(now.Add(-49*time.Hour-30*time.Minute), now))
	})
}
