package persistence

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/ports"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

//go:embed schema.sql
var schemaSQL string

type pgBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type EmployeePGStore struct {
	pool pgBeginner
}

func NewEmployeePGStore(pool pgBeginner) *EmployeePGStore {
	return &EmployeePGStore{pool: pool}
}

var (
	_ ports.EmployeeSource   = (*EmployeePGStore)(nil)
	_ ports.ChangeSetHistory = (*EmployeePGStore)(nil)
	_ ports.ChangeSetHistory = (*EmployeeMemoryStore)(nil)
)

// EnsureSchema creates the employee schema if it does not exist yet.
func (s *EmployeePGStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return tx.Commit(ctx)
}

// Seed inserts rows that are not present yet. Existing IDs are left alone.
func (s *EmployeePGStore) Seed(ctx context.Context, rows []types.Employee) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	inserted := 0
	for _, r := range rows {
		tag, err := tx.Exec(ctx, `
	INSERT INTO employee.employees (employee_id, first_name, last_name, department, salary)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (employee_id) DO NOTHING
	`, r.EmployeeID, r.FirstName, r.LastName, r.Department, r.Salary)
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		if err := insertSkills(ctx, tx, r.EmployeeID, r.Skills); err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *EmployeePGStore) ListEmployees(ctx context.Context) ([]types.Employee, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	rows, err := tx.Query(ctx, `
	SELECT employee_id, first_name, last_name, department, salary
	FROM employee.employees
	ORDER BY row_seq ASC
	`)
	if err != nil {
		return nil, err
	}
	var out []types.Employee
	index := make(map[int]int)
	for rows.Next() {
		var e types.Employee
		if err := rows.Scan(&e.EmployeeID, &e.FirstName, &e.LastName, &e.Department, &e.Salary); err != nil {
			rows.Close()
			return nil, err
		}
		e.Status = types.StatusServer
		index[e.EmployeeID] = len(out)
		out = append(out, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	skills, err := tx.Query(ctx, `
	SELECT employee_id, name, rating, years_of_experience
	FROM employee.employee_skills
	ORDER BY employee_id ASC, seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer skills.Close()
	for skills.Next() {
		var parent int
		var sk types.Skill
		if err := skills.Scan(&parent, &sk.Name, &sk.Rating, &sk.YearsOfExperience); err != nil {
			return nil, err
		}
		i, ok := index[parent]
		if !ok {
			continue
		}
		sk.Status = types.StatusServer
		out[i].Skills = append(out[i].Skills, sk)
	}
	if err := skills.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyChangeSet writes deletions, edits, skill deletions and additions in
// one transaction and records the change set itself.
func (s *EmployeePGStore) ApplyChangeSet(ctx context.Context, cs types.ChangeSet) error {
	payload, err := json.Marshal(cs)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	for _, d := range cs.Deleted {
		tag, err := tx.Exec(ctx, `DELETE FROM employee.employees WHERE employee_id = $1`, d.EmployeeID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %d", ports.ErrRowGone, d.EmployeeID)
		}
	}

	for _, e := range cs.Edited {
		tag, err := tx.Exec(ctx, `
	UPDATE employee.employees
	SET first_name = $2, last_name = $3, department = $4, salary = $5, updated_at = now()
	WHERE employee_id = $1
	`, e.Original.EmployeeID, e.Updated.FirstName, e.Updated.LastName, e.Updated.Department, e.Updated.Salary)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %d", ports.ErrRowGone, e.Original.EmployeeID)
		}
	}

	for _, parent := range sortedParents(cs.DeletedSkills) {
		for _, sk := range cs.DeletedSkills[parent] {
			if _, err := tx.Exec(ctx, `
	DELETE FROM employee.employee_skills
	WHERE employee_id = $1 AND name = $2
	`, parent, sk.Name); err != nil {
				return err
			}
		}
	}

	for _, a := range cs.Added {
		tag, err := tx.Exec(ctx, `
	INSERT INTO employee.employees (employee_id, first_name, last_name, department, salary)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (employee_id) DO NOTHING
	`, a.EmployeeID, a.FirstName, a.LastName, a.Department, a.Salary)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %d", ports.ErrDuplicateRow, a.EmployeeID)
		}
		if err := insertSkills(ctx, tx, a.EmployeeID, a.Skills); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
	INSERT INTO employee.change_sets (changeset_uuid, created_at, added_count, edited_count, deleted_count, payload)
	VALUES ($1::uuid, $2, $3, $4, $5, $6::jsonb)
	`, cs.ID, cs.CreatedAt, len(cs.Added), len(cs.Edited), len(cs.Deleted), payload); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListChangeSets returns recorded change sets, newest first.
func (s *EmployeePGStore) ListChangeSets(ctx context.Context, limit int) ([]types.ChangeSet, error) {
	if limit <= 0 {
		limit = 100
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	rows, err := tx.Query(ctx, `
	SELECT payload
	FROM employee.change_sets
	ORDER BY created_at DESC, changeset_uuid DESC
	LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ChangeSet
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cs types.ChangeSet
		if err := json.Unmarshal(raw, &cs); err != nil {
			return nil, fmt.Errorf("decode change set: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func insertSkills(ctx context.Context, tx pgx.Tx, employeeID int, skills []types.Skill) error {
	for i, sk := range skills {
		if _, err := tx.Exec(ctx, `
	INSERT INTO employee.employee_skills (employee_id, name, seq, rating, years_of_experience)
	VALUES ($1, $2, $3, $4, $5)
	`, employeeID, sk.Name, i, sk.Rating, sk.YearsOfExperience); err != nil {
			return err
		}
	}
	return nil
}

func sortedParents(m map[int][]types.Skill) []int {
	return slices.Sorted(maps.Keys(m))
}
