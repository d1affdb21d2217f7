package reconciler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skillcoder/idle-reaper/internal/logic/reconciler"
)

// MockRepository is a testify mock of the reconciler.Repository port.
type MockRepository struct {
	mock.Mock
}

func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepository) ListNamespacesQuery(
	ctx context.Context,
	excluding map[string]struct{},
) ([]string, error) {
	args := m.Called(ctx, excluding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) NamespaceExistsQuery(
	ctx context.Context,
	namespace string,
) (bool, error) {
	args := m.Called(ctx, namespace)

	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListWorkloadsQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.Workload, error) {
	args := m.Called(ctx, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]reconciler.Workload), args.Error(1)
}

func (m *MockRepository) SetAnnotationsCommand(
	ctx context.Context,
	namespace,
	name string,
	annotations map[string]string,
) error {
	args := m.Called(ctx, namespace, name, annotations)

	return args.Error(0)
}

func (m *MockRepository) ClearAnnotationsCommand(
	ctx context.Context,
	namespace,
	name string,
	keys []string,
) error {
	args := m.Called(ctx, namespace, name, keys)

	return args.Error(0)
}

func (m *MockRepository) ScaleWorkloadCommand(
	ctx context.Context,
	namespace,
	name string,
	replicas int32,
) error {
	args := m.Called(ctx, namespace, name, replicas)

	return args.Error(0)
}

func (m *MockRepository) DeleteWorkloadCommand(
	ctx context.Context,
	namespace,
	name string,
) error {
	args := m.Called(ctx, namespace, name)

	return args.Error(0)
}

func (m *MockRepository) ListServicesQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.ServiceRef, error) {
	args := m.Called(ctx, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]reconciler.ServiceRef), args.Error(1)
}

func (m *MockRepository) DeleteServiceCommand(
	ctx context.Context,
	namespace,
	name string,
) error {
	args := m.Called(ctx, namespace, name)

	return args.Error(0)
}

func (m *MockRepository) ListRoutesQuery(
	ctx context.Context,
	namespace string,
) ([]reconciler.Route, error) {
	args := m.Called(ctx, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]reconciler.Route), args.Error(1)
}

func (m *MockRepository) DeleteRouteCommand(
	ctx context.Context,
	namespace,
	name string,
) error {
	args := m.Called(ctx, namespace, name)

	return args.Error(0)
}

func (m *MockRepository) ListPodsQuery(
	ctx context.Context,
	namespace string,
	selector map[string]string,
	excludingPhases []string,
) ([]reconciler.PodRef, error) {
	args := m.Called(ctx, namespace, selector, excludingPhases)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]reconciler.PodRef), args.Error(1)
}

func (m *MockRepository) RoutesSupported(ctx context.Context) bool {
	args := m.Called(ctx)

	return args.Bool(0)
}

// testNotFoundError and testForbiddenError implement the reconciler's
// private error interfaces so the mock can return them and the reconciler
// recognizes them.
type testNotFoundError struct{}

func (testNotFoundError) Error() string { return "not found" }
func (testNotFoundError) IsNotFound()   {}

type testForbiddenError struct{}

func (testForbiddenError) Error() string { return "forbidden" }
func (testForbiddenError) IsForbidden()  {}
