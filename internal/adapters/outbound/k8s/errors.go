package k8s

// NotFoundError represents a "not found" case that is not an error:
// the desired end state (absence) is already achieved.
type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "object not found"
}

func (e *NotFoundError) IsNotFound() {}

var errNotFound = &NotFoundError{}

// ForbiddenError represents a mutation rejected by RBAC.
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string {
	return "operation forbidden"
}

func (e *ForbiddenError) IsForbidden() {}

var errForbidden = &ForbiddenError{}
