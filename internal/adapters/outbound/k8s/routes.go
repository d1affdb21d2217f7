package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/skillcoder/idle-reaper/internal/logic/reconciler"
)

// routeGVR addresses the OpenShift route extension; there is no typed
// client for it in client-go, so routes go through the dynamic client.
var routeGVR = schema.GroupVersionResource{
	Group:    "route.openshift.io",
	Version:  "v1",
	Resource: "routes",
}

const routeGroupVersion = "route.openshift.io/v1"

// RoutesSupported probes the discovery API once for the route extension and
// caches the answer for the process lifetime. A probe failure downgrades to
// "unsupported": the kind is skipped for the run, never treated as an error.
func (a *Adapter) RoutesSupported(ctx context.Context) bool {
	a.routesOnce.Do(func() {
		resources, err := a.clientset.Discovery().ServerResourcesForGroupVersion(routeGroupVersion)
		if err != nil {
			a.logger.DebugContext(ctx, "route extension not served", "reason", err)

			return
		}

		for i := range resources.APIResources {
			if resources.APIResources[i].Name == routeGVR.Resource {
				a.routesSupported = true

				return
			}
		}
	})

	return a.routesSupported
}

func (a *Adapter) ListRoutesQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.Route, error) {
	routeList, err := a.dynamicClient.Resource(routeGVR).Namespace(namespace).List(
		ctx,
		metav1.ListOptions{},
	)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", mapError(err))
	}

	routes := make([]reconciler.Route, 0, len(routeList.Items))
	for i := range routeList.Items {
		routes = append(routes, toDomainRoute(&routeList.Items[i]))
	}

	return routes, nil
}

func (a *Adapter) DeleteRouteCommand(
	ctx context.Context,
	namespace,
	name string,
) error {
	err := a.dynamicClient.Resource(routeGVR).Namespace(namespace).Delete(
		ctx,
		name,
		metav1.DeleteOptions{},
	)
	if err != nil {
		return fmt.Errorf("delete route: %w", mapError(err))
	}

	return nil
}
