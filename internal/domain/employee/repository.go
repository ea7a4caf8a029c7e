package employee

import (
	"context"
	"errors"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// EmployeeRepository is the read-only collaborator contract against the
// employee directory.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns employees eligible for the absence sweep.
	ListActive(ctx context.Context) ([]Employee, error)

	// ListAdmins returns employees that receive escalation notifications.
	ListAdmins(ctx context.Context) ([]Employee, error)
}
