package ports

import (
	"context"
	"errors"

	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

// Returned by sources when a change set no longer matches the stored rows.
var (
	ErrRowGone      = errors.New("EMPLOYEE_ROW_GONE")
	ErrDuplicateRow = errors.New("EMPLOYEE_DUPLICATE_ROW")
)

// EmployeeSource is the server of record behind the grid.
type EmployeeSource interface {
	ListEmployees(ctx context.Context) ([]types.Employee, error)
	ApplyChangeSet(ctx context.Context, cs types.ChangeSet) error
}

// ChangeSetHistory is implemented by sources that keep applied change sets.
type ChangeSetHistory interface {
	ListChangeSets(ctx context.Context, limit int) ([]types.ChangeSet, error)
}
