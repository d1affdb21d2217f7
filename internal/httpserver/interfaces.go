package httpserver

import (
	"time"

	"github.com/skillcoder/idle-reaper/internal/logic/reconciler"
)

// runstater is an internal interface over the reconciler service exposing
// what the health and status endpoints need.
type runstater interface {
	IsHealthy() bool
	IsReady() bool
	Uptime() time.Duration
	StartTime() time.Time
	LastRun() *reconciler.Summary
}
