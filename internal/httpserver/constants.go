package httpserver

import "time"

const (
	defaultPort = "8080"

	// The health and status endpoints serve a few hundred bytes each, so
	// the timeouts stay tight; idleTimeout covers kubelet probe keep-alives.
	readTimeout       = 3 * time.Second
	readHeaderTimeout = 3 * time.Second
	writeTimeout      = 5 * time.Second
	idleTimeout       = 60 * time.Second
	maxHeaderBytes    = 1 << 12
)
