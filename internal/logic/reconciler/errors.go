package reconciler

import "errors"

// Pass-level failures carry a sentinel so callers can match them across the
// port boundary; per-workload mutation failures are counted, not returned.
var (
	ErrListNamespaces  = errors.New("list namespaces")
	ErrNamespaceAbsent = errors.New("target namespace absent")
	ErrListWorkloads   = errors.New("list workloads")
	ErrListExposure    = errors.New("list exposure objects")
)
