package reconciler

import "context"

// Repository is the port interface for cluster operations.
// Implementations are provided by adapters in the outbound layer.
type Repository interface {
	ListNamespacesQuery(
		ctx context.Context,
		excluding map[string]struct{},
	) ([]string, error)

	NamespaceExistsQuery(
		ctx context.Context,
		namespace string,
	) (bool, error)

	ListWorkloadsQuery(
		ctx context.Context,
		namespace string,
	) ([]Workload, error)

	SetAnnotationsCommand(
		ctx context.Context,
		namespace,
		name string,
		annotations map[string]string,
	) error

	ClearAnnotationsCommand(
		ctx context.Context,
		namespace,
		name string,
		keys []string,
	) error

	ScaleWorkloadCommand(
		ctx context.Context,
		namespace,
		name string,
		replicas int32,
	) error

	DeleteWorkloadCommand(
		ctx context.Context,
		namespace,
		name string,
	) error

	ListServicesQuery(
		ctx context.Context,
		namespace string,
	) ([]ServiceRef, error)

	DeleteServiceCommand(
		ctx context.Context,
		namespace,
		name string,
	) error

	ListRoutesQuery(
		ctx context.Context,
		namespace string,
	) ([]Route, error)

	DeleteRouteCommand(
		ctx context.Context,
		namespace,
		name string,
	) error

	ListPodsQuery(
		ctx context.Context,
		namespace string,
		selector map[string]string,
		excludingPhases []string,
	) ([]PodRef, error)

	// RoutesSupported reports whether the route.openshift.io extension is
	// served by the cluster. Probed once, cached for the process lifetime.
	RoutesSupported(ctx context.Context) bool
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}

// forbidden is a private interface for checking permission errors
// without importing the adapter package.
type forbidden interface {
	IsForbidden()
}
