package services

import (
	"fmt"

	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

// RowStore holds the server-of-record rows in source order. Rows in the
// store never carry a pending status.
type RowStore struct {
	rows  []types.Employee
	index map[int]int
}

func NewRowStore(rows []types.Employee) (*RowStore, error) {
	s := &RowStore{}
	if err := s.Reset(rows); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RowStore) Reset(rows []types.Employee) error {
	next := make([]types.Employee, 0, len(rows))
	index := make(map[int]int, len(rows))
	for _, r := range rows {
		if _, dup := index[r.EmployeeID]; dup {
			return fmt.Errorf("%w: duplicate employee_id %d", ErrEmployeeIDConflict, r.EmployeeID)
		}
		index[r.EmployeeID] = len(next)
		next = append(next, committed(r))
	}
	s.rows = next
	s.index = index
	return nil
}

func (s *RowStore) Len() int { return len(s.rows) }

func (s *RowStore) Has(id int) bool {
	_, ok := s.index[id]
	return ok
}

func (s *RowStore) Get(id int) (types.Employee, bool) {
	i, ok := s.index[id]
	if !ok {
		return types.Employee{}, false
	}
	return s.rows[i].Clone(), true
}

// At returns the row at position i in source order.
func (s *RowStore) At(i int) types.Employee {
	return s.rows[i].Clone()
}

// Slice returns rows [start, end) clamped to the store bounds.
func (s *RowStore) Slice(start, end int) []types.Employee {
	start = max(start, 0)
	end = min(end, len(s.rows))
	if start >= end {
		return []types.Employee{}
	}
	out := make([]types.Employee, 0, end-start)
	for _, r := range s.rows[start:end] {
		out = append(out, r.Clone())
	}
	return out
}

func (s *RowStore) Rows() []types.Employee {
	return s.Slice(0, len(s.rows))
}

func (s *RowStore) MaxID() int {
	m := 0
	for _, r := range s.rows {
		m = max(m, r.EmployeeID)
	}
	return m
}
