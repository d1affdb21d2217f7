package k8s

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/skillcoder/idle-reaper/internal/logic/reconciler"
)

func toDomainWorkload(deploy *appsv1.Deployment) reconciler.Workload {
	// spec.replicas defaults to 1 when unset, same as the API server
	var desired int32 = 1
	if deploy.Spec.Replicas != nil {
		desired = *deploy.Spec.Replicas
	}

	return reconciler.Workload{
		Name:              deploy.Name,
		Namespace:         deploy.Namespace,
		CreationTimestamp: deploy.CreationTimestamp.Time,
		DesiredReplicas:   desired,
		ObservedReplicas:  deploy.Status.Replicas,
		Annotations:       deploy.Annotations,
	}
}

func toDomainService(svc *corev1.Service) reconciler.ServiceRef {
	return reconciler.ServiceRef{
		Name:      svc.Name,
		Namespace: svc.Namespace,
		Selector:  svc.Spec.Selector,
	}
}

func toDomainRoute(route *unstructured.Unstructured) reconciler.Route {
	// spec.to.name is empty when the route has no service target; the
	// reconciler treats such routes as backing-less.
	target, _, _ := unstructured.NestedString(route.Object, "spec", "to", "name")

	return reconciler.Route{
		Name:              route.GetName(),
		Namespace:         route.GetNamespace(),
		TargetServiceName: target,
	}
}
