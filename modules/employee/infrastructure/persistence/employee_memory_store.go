package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/jacksonlee411/employee-grid/modules/employee/domain/ports"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

const DefaultSeedEmployees = 50

// SeedEmployees builds the demo data set: n engineers named "Employee N Doe".
func SeedEmployees(n int) []types.Employee {
	out := make([]types.Employee, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, types.Employee{
			EmployeeID: i,
			FirstName:  fmt.Sprintf("Employee %d", i),
			LastName:   "Doe",
			Department: "Engineering",
			Salary:     60000,
			Skills: []types.Skill{
				{Name: "Scala", Rating: 5, YearsOfExperience: 3},
				{Name: "Angular", Rating: 4, YearsOfExperience: 2},
				{Name: "GraphDB", Rating: 3, YearsOfExperience: 1},
			},
			Status: types.StatusServer,
		})
	}
	return out
}

type EmployeeMemoryStore struct {
	mu      sync.Mutex
	rows    []types.Employee
	history []types.ChangeSet
}

func NewEmployeeMemoryStore(rows []types.Employee) ports.EmployeeSource {
	s := &EmployeeMemoryStore{}
	for _, r := range rows {
		s.rows = append(s.rows, r.Clone())
	}
	return s
}

func (s *EmployeeMemoryStore) ListEmployees(context.Context) ([]types.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Employee, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *EmployeeMemoryStore) ApplyChangeSet(_ context.Context, cs types.ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[int]bool, len(s.rows))
	for _, r := range s.rows {
		ids[r.EmployeeID] = true
	}
	for _, d := range cs.Deleted {
		if !ids[d.EmployeeID] {
			return fmt.Errorf("%w: %d", ports.ErrRowGone, d.EmployeeID)
		}
	}
	for _, e := range cs.Edited {
		if !ids[e.Original.EmployeeID] {
			return fmt.Errorf("%w: %d", ports.ErrRowGone, e.Original.EmployeeID)
		}
	}
	for _, a := range cs.Added {
		if ids[a.EmployeeID] {
			return fmt.Errorf("%w: %d", ports.ErrDuplicateRow, a.EmployeeID)
		}
		ids[a.EmployeeID] = true
	}

	s.rows = cs.ApplyTo(s.rows)
	s.history = append(s.history, cs)
	return nil
}

// ListChangeSets returns applied change sets, newest first. limit <= 0
// returns all of them.
func (s *EmployeeMemoryStore) ListChangeSets(_ context.Context, limit int) ([]types.ChangeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if limit > 0 {
		n = min(n, limit)
	}
	out := make([]types.ChangeSet, 0, n)
	for i := len(s.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.history[i])
	}
	return out, nil
}
