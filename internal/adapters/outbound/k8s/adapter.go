package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/skillcoder/idle-reaper/internal/logic/reconciler"
)

// Adapter implements the reconciler.Repository port against a Kubernetes
// (optionally OpenShift) cluster. Typed clientset for core objects, dynamic
// client for the route extension.
type Adapter struct {
	logger        *slog.Logger
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface

	routesOnce      sync.Once
	routesSupported bool
}

// New creates a new cluster adapter.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
) *Adapter {
	return &Adapter{
		logger:        logger,
		clientset:     clientset,
		dynamicClient: dynamicClient,
	}
}

var _ reconciler.Repository = (*Adapter)(nil)

// CheckConnectivity verifies the API server is reachable. Called once at
// startup; a failure here is fatal for the run.
func (a *Adapter) CheckConnectivity(_ context.Context) error {
	if _, err := a.clientset.Discovery().ServerVersion(); err != nil {
		return fmt.Errorf("server version: %w", err)
	}

	return nil
}

func (a *Adapter) ListNamespacesQuery(
	ctx context.Context,
	excluding map[string]struct{},
) ([]string, error) {
	nsList, err := a.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", mapError(err))
	}

	namespaces := make([]string, 0, len(nsList.Items))

	for i := range nsList.Items {
		name := nsList.Items[i].Name
		if _, ok := excluding[name]; ok {
			continue
		}

		namespaces = append(namespaces, name)
	}

	return namespaces, nil
}

func (a *Adapter) NamespaceExistsQuery(
	ctx context.Context,
	namespace string,
) (bool, error) {
	_, err := a.clientset.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("get namespace: %w", mapError(err))
	}

	return true, nil
}

func (a *Adapter) ListWorkloadsQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.Workload, error) {
	deployList, err := a.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", mapError(err))
	}

	workloads := make([]reconciler.Workload, 0, len(deployList.Items))
	for i := range deployList.Items {
		workloads = append(workloads, toDomainWorkload(&deployList.Items[i]))
	}

	return workloads, nil
}

func (a *Adapter) SetAnnotationsCommand(
	ctx context.Context,
	namespace,
	name string,
	annotations map[string]string,
) error {
	values := make(map[string]any, len(annotations))
	for key, value := range annotations {
		values[key] = value
	}

	return a.patchDeploymentAnnotations(ctx, namespace, name, values)
}

func (a *Adapter) ClearAnnotationsCommand(
	ctx context.Context,
	namespace,
	name string,
	keys []string,
) error {
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		// nil removes the key under a JSON merge patch
		values[key] = nil
	}

	return a.patchDeploymentAnnotations(ctx, namespace, name, values)
}

func (a *Adapter) patchDeploymentAnnotations(
	ctx context.Context,
	namespace,
	name string,
	annotations map[string]any,
) error {
	patch := map[string]any{
		"metadata": map[string]any{
			"annotations": annotations,
		},
	}

	patchBytes, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal annotation patch: %w", err)
	}

	_, err = a.clientset.AppsV1().Deployments(namespace).Patch(
		ctx,
		name,
		types.MergePatchType,
		patchBytes,
		metav1.PatchOptions{},
	)
	if err != nil {
		return fmt.Errorf("patch deployment annotations: %w", mapError(err))
	}

	return nil
}

func (a *Adapter) ScaleWorkloadCommand(
	ctx context.Context,
	namespace,
	name string,
	replicas int32,
) error {
	patch := map[string]any{
		"spec": map[string]any{
			"replicas": replicas,
		},
	}

	patchBytes, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal scale patch: %w", err)
	}

	_, err = a.clientset.AppsV1().Deployments(namespace).Patch(
		ctx,
		name,
		types.MergePatchType,
		patchBytes,
		metav1.PatchOptions{},
	)
	if err != nil {
		return fmt.Errorf("patch deployment scale: %w", mapError(err))
	}

	return nil
}

func (a *Adapter) DeleteWorkloadCommand(
	ctx context.Context,
	namespace,
	name string,
) error {
	err := a.clientset.AppsV1().Deployments(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("delete deployment: %w", mapError(err))
	}

	return nil
}

func (a *Adapter) ListServicesQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.ServiceRef, error) {
	svcList, err := a.clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list services: %w", mapError(err))
	}

	services := make([]reconciler.ServiceRef, 0, len(svcList.Items))
	for i := range svcList.Items {
		services = append(services, toDomainService(&svcList.Items[i]))
	}

	return services, nil
}

func (a *Adapter) DeleteServiceCommand(
	ctx context.Context,
	namespace,
	name string,
) error {
	err := a.clientset.CoreV1().Services(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("delete service: %w", mapError(err))
	}

	return nil
}

func (a *Adapter) ListPodsQuery(
	ctx context.Context,
	namespace string,
	selector map[string]string,
	excludingPhases []string,
) ([]reconciler.PodRef, error) {
	podList, err := a.clientset.CoreV1().Pods(namespace).List(
		ctx,
		metav1.ListOptions{
			LabelSelector: labels.SelectorFromSet(selector).String(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list pods: %w", mapError(err))
	}

	excluded := make(map[string]struct{}, len(excludingPhases))
	for _, phase := range excludingPhases {
		excluded[phase] = struct{}{}
	}

	pods := make([]reconciler.PodRef, 0, len(podList.Items))

	for i := range podList.Items {
		phase := string(podList.Items[i].Status.Phase)
		if _, ok := excluded[phase]; ok {
			continue
		}

		pods = append(pods, reconciler.PodRef{
			Name:  podList.Items[i].Name,
			Phase: phase,
		})
	}

	return pods, nil
}

// mapError translates API errors into the adapter's private error types so
// the logic layer can match them without importing client-go.
func mapError(err error) error {
	switch {
	case apierrors.IsNotFound(err):
		return errNotFound
	case apierrors.IsForbidden(err):
		return errForbidden
	}

	return err
}
