package httpserver

import (
	"encoding/json"
	"net/http"
	"time"
)

type lastRunResponse struct {
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	DryRun         bool      `json:"dryRun"`
	Namespaces     int       `json:"namespaces"`
	Processed      int       `json:"processed"`
	ScaledDown     int       `json:"scaledDown"`
	Deleted        int       `json:"deleted"`
	Restored       int       `json:"restored"`
	OrphansChecked int       `json:"orphansChecked"`
	OrphansDeleted int       `json:"orphansDeleted"`
	Failed         int       `json:"failed"`
}

type statusResponse struct {
	Uptime    string           `json:"uptime"`
	StartTime time.Time        `json:"startTime"`
	UptimeSec float64          `json:"uptimeSeconds"`
	LastRun   *lastRunResponse `json:"lastRun,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if !s.runState.IsHealthy() {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.runState.IsReady() {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uptime := s.runState.Uptime()

	response := statusResponse{
		Uptime:    uptime.String(),
		StartTime: s.runState.StartTime(),
		UptimeSec: uptime.Seconds(),
	}

	if last := s.runState.LastRun(); last != nil {
		response.LastRun = &lastRunResponse{
			StartedAt:      last.StartedAt,
			FinishedAt:     last.FinishedAt,
			DryRun:         last.DryRun,
			Namespaces:     last.Namespaces,
			Processed:      last.Processed,
			ScaledDown:     last.ScaledDown,
			Deleted:        last.Deleted,
			Restored:       last.Restored,
			OrphansChecked: last.OrphansChecked,
			OrphansDeleted: last.OrphansDeleted,
			Failed:         last.Failed,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "failed to encode status response",
			"error", err,
		)
	}
}
