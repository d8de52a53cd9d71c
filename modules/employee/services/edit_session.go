package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jacksonlee411/employee-grid/modules/employee/domain/ports"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
	"github.com/jacksonlee411/employee-grid/pkg/httperr"
	"github.com/jacksonlee411/employee-grid/pkg/uuidv7"
)

// DefaultTemplate seeds rows created by Add.
var DefaultTemplate = types.Employee{
	Skills: []types.Skill{{Name: "Scala", Rating: 5, YearsOfExperience: 3}},
}

type SessionOptions struct {
	Validator      *RequiredFieldValidator
	Template       *types.Employee
	Logger         *log.Logger
	NewChangeSetID func() (string, error)
	Now            func() time.Time
}

// EditSession is the row edit-state machine for one grid. Pending changes
// live only in the ledger and the deleted-skills map; the row store is
// touched on commit alone. It is not safe for concurrent use.
type EditSession struct {
	source    ports.EmployeeSource
	store     *RowStore
	ledger    *Ledger
	deleted   *DeletedSkills
	validator *RequiredFieldValidator
	template  types.Employee
	logger    *log.Logger
	newID     func() (string, error)
	now       func() time.Time
}

type Page struct {
	StartRow int              `json:"start_row" cbor:"start_row"`
	EndRow   int              `json:"end_row" cbor:"end_row"`
	RowCount int              `json:"row_count" cbor:"row_count"`
	Rows     []types.Employee `json:"rows" cbor:"rows"`
}

func NewEditSession(ctx context.Context, source ports.EmployeeSource, opts SessionOptions) (*EditSession, error) {
	if source == nil {
		return nil, errors.New("edit session: missing employee source")
	}
	validator := opts.Validator
	if validator == nil {
		v, err := NewRequiredFieldValidator(DefaultRequiredFieldRules)
		if err != nil {
			return nil, err
		}
		validator = v
	}
	template := DefaultTemplate
	if opts.Template != nil {
		template = *opts.Template
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewChangeSetID
	if newID == nil {
		newID = func() (string, error) {
			u, err := uuidv7.NewAt(now())
			if err != nil {
				return "", err
			}
			return u.String(), nil
		}
	}

	store, err := NewRowStore(nil)
	if err != nil {
		return nil, err
	}
	s := &EditSession{
		source:    source,
		store:     store,
		ledger:    NewLedger(),
		deleted:   NewDeletedSkills(),
		validator: validator,
		template:  template.Clone(),
		logger:    logger,
		newID:     newID,
		now:       now,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload refetches the server of record. It is refused while changes are
// pending.
func (s *EditSession) Reload(ctx context.Context) error {
	if s.EditMode() {
		return ErrPendingChanges
	}
	rows, err := s.source.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}
	return s.store.Reset(rows)
}

func (s *EditSession) Add() types.Employee {
	id := max(s.store.MaxID(), s.ledger.MaxID()) + 1
	row := s.template.Clone()
	row.EmployeeID = id
	row.Status = types.StatusBeingAdded
	s.ledger.Record(id, types.PendingChange{Updated: row})
	return s.decorate(row)
}

func (s *EditSession) StartEdit(id int) (types.Employee, error) {
	if c, ok := s.ledger.Get(id); ok {
		if c.Status().IsPendingAdd() {
			c.Updated.Status = types.StatusBeingAdded
		} else {
			c.Updated.Status = types.StatusBeingEdited
		}
		s.ledger.Record(id, c)
		return s.decorate(c.Updated), nil
	}

	row, ok := s.store.Get(id)
	if !ok {
		return types.Employee{}, ErrEmployeeNotFound
	}
	orig := row.Clone()
	work := row
	work.Status = types.StatusBeingEdited
	s.ledger.Record(id, types.PendingChange{Original: &orig, Updated: work})
	return s.decorate(work), nil
}

// Update applies a cell edit to a row that is open for editing. The status
// does not change.
func (s *EditSession) Update(id int, patch types.EmployeePatch) (types.Employee, error) {
	c, err := s.openEntry(id)
	if err != nil {
		return types.Employee{}, err
	}
	if !c.Status().Editable() {
		return types.Employee{}, fmt.Errorf("%w: row %d is %s", ErrInvalidTransition, id, c.Status())
	}

	work := c.Updated
	patch.Apply(&work)
	newID := id
	if patch.EmployeeID != nil && *patch.EmployeeID != id {
		if !c.Status().IsPendingAdd() {
			return types.Employee{}, fmt.Errorf("%w: employee_id of row %d is fixed", ErrInvalidTransition, id)
		}
		if *patch.EmployeeID <= 0 {
			return types.Employee{}, httperr.NewBadRequestCode("invalid_employee_id", "employee_id must be positive")
		}
		newID = *patch.EmployeeID
	}
	if err := s.rekey(id, newID); err != nil {
		return types.Employee{}, err
	}
	work.EmployeeID = newID
	s.ledger.Record(newID, types.PendingChange{Original: c.Original, Updated: work})
	return s.decorate(work), nil
}

// Confirm is the "commit this row" signal. A row being added becomes Added,
// a row being edited becomes Edited. Rows with empty required fields are
// left untouched and a *RequiredFieldsError is returned.
func (s *EditSession) Confirm(id int, patch types.EmployeePatch) (types.Employee, error) {
	c, err := s.openEntry(id)
	if err != nil {
		return types.Employee{}, err
	}

	work := c.Updated
	patch.Apply(&work)

	switch {
	case c.Status().IsPendingAdd():
		newID := id
		if patch.EmployeeID != nil {
			if *patch.EmployeeID <= 0 {
				return types.Employee{}, httperr.NewBadRequestCode("invalid_employee_id", "employee_id must be positive")
			}
			newID = *patch.EmployeeID
			work.EmployeeID = newID
		}
		if err := s.validator.Check(work); err != nil {
			return types.Employee{}, err
		}
		if err := s.rekey(id, newID); err != nil {
			return types.Employee{}, err
		}
		work.Status = types.StatusAdded
		s.ledger.Record(newID, types.PendingChange{Updated: work})
		return s.decorate(work), nil

	case c.Status().IsPendingEdit():
		if patch.EmployeeID != nil && *patch.EmployeeID != id {
			return types.Employee{}, fmt.Errorf("%w: employee_id of row %d is fixed", ErrInvalidTransition, id)
		}
		if err := s.validator.Check(work); err != nil {
			return types.Employee{}, err
		}
		if c.Original != nil && work.SameFields(*c.Original) {
			s.ledger.Remove(id)
			return s.decorate(c.Original.Clone()), nil
		}
		work.Status = types.StatusEdited
		s.ledger.Record(id, types.PendingChange{Original: c.Original, Updated: work})
		return s.decorate(work), nil

	default:
		return types.Employee{}, fmt.Errorf("%w: row %d is %s", ErrInvalidTransition, id, c.Status())
	}
}

// Delete marks a committed row Deleted. A row that was never committed is
// dropped outright and removed is true.
func (s *EditSession) Delete(id int) (row types.Employee, removed bool, err error) {
	if c, ok := s.ledger.Get(id); ok {
		if c.Status().IsPendingAdd() {
			s.ledger.Remove(id)
			s.deleted.Drop(id)
			return s.decorate(c.Updated), true, nil
		}
		c.Updated.Status = types.StatusDeleted
		s.ledger.Record(id, c)
		return s.decorate(c.Updated), false, nil
	}

	cur, ok := s.store.Get(id)
	if !ok {
		return types.Employee{}, false, ErrEmployeeNotFound
	}
	orig := cur.Clone()
	cur.Status = types.StatusDeleted
	s.ledger.Record(id, types.PendingChange{Original: &orig, Updated: cur})
	return s.decorate(cur), false, nil
}

// Undo reverts one row to its server-of-record snapshot, including its
// pending skill deletions. Rows that were never committed are removed.
func (s *EditSession) Undo(id int) (row types.Employee, removed bool, err error) {
	c, ok := s.ledger.Get(id)
	if !ok {
		cur, inStore := s.store.Get(id)
		if !inStore {
			return types.Employee{}, false, ErrEmployeeNotFound
		}
		if len(s.deleted.Items(id)) == 0 {
			return types.Employee{}, false, fmt.Errorf("%w: row %d has no pending change", ErrInvalidTransition, id)
		}
		s.deleted.Drop(id)
		return s.decorate(cur), false, nil
	}

	s.ledger.Remove(id)
	s.deleted.Drop(id)
	if c.Status().IsPendingAdd() {
		return s.decorate(c.Updated), true, nil
	}
	if c.Original == nil {
		cur, _ := s.store.Get(id)
		return s.decorate(cur), false, nil
	}
	orig := c.Original.Clone()
	orig.Status = types.StatusServer
	return s.decorate(orig), false, nil
}

func (s *EditSession) DeleteSkill(parentID int, name string) (types.Skill, error) {
	parent, ok := s.current(parentID)
	if !ok {
		return types.Skill{}, ErrEmployeeNotFound
	}
	if parent.Status == types.StatusDeleted {
		return types.Skill{}, fmt.Errorf("%w: row %d is deleted", ErrInvalidTransition, parentID)
	}
	i := parent.SkillIndex(name)
	if i < 0 {
		return types.Skill{}, ErrSkillNotFound
	}
	skill := parent.Skills[i]
	skill.Status = types.StatusDeleted
	s.deleted.MarkDeleted(parentID, skill)
	return skill, nil
}

func (s *EditSession) UndoSkill(parentID int, name string) (types.Skill, error) {
	parent, ok := s.current(parentID)
	if !ok {
		return types.Skill{}, ErrEmployeeNotFound
	}
	if !s.deleted.Unmark(parentID, name) {
		if parent.SkillIndex(name) < 0 {
			return types.Skill{}, ErrSkillNotFound
		}
		return types.Skill{}, fmt.Errorf("%w: skill %q is not deleted", ErrInvalidTransition, name)
	}
	parent = s.decorate(parent)
	return parent.Skills[parent.SkillIndex(name)], nil
}

func (s *EditSession) Row(id int) (types.Employee, error) {
	row, ok := s.current(id)
	if !ok {
		return types.Employee{}, ErrEmployeeNotFound
	}
	return s.decorate(row), nil
}

func (s *EditSession) Status(id int) (types.RowStatus, error) {
	row, ok := s.current(id)
	if !ok {
		return "", ErrEmployeeNotFound
	}
	return row.Status, nil
}

// FetchPage serves the grid's server-side row model. Pending adds occupy
// the leading positions, newest first, followed by the row store.
func (s *EditSession) FetchPage(start, end int) (Page, error) {
	if start < 0 || end < start {
		return Page{}, httperr.NewBadRequestCode("invalid_row_range", "invalid row range")
	}
	added := s.pendingAdds()
	total := len(added) + s.store.Len()
	end = min(end, total)

	rows := make([]types.Employee, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		if i < len(added) {
			rows = append(rows, s.decorate(added[i]))
			continue
		}
		r := s.store.At(i - len(added))
		if c, ok := s.ledger.Get(r.EmployeeID); ok {
			r = c.Updated
		}
		rows = append(rows, s.decorate(r))
	}
	return Page{StartRow: start, EndRow: start + len(rows), RowCount: total, Rows: rows}, nil
}

// Skills is the detail-row accessor for the master/detail view.
func (s *EditSession) Skills(parentID int) ([]types.Skill, error) {
	row, err := s.Row(parentID)
	if err != nil {
		return nil, err
	}
	if row.Skills == nil {
		return []types.Skill{}, nil
	}
	return row.Skills, nil
}

func (s *EditSession) Pending() []LedgerEntry {
	return s.ledger.All()
}

func (s *EditSession) DeletedSkills() map[int][]types.Skill {
	return s.deleted.All()
}

// EditMode reports whether anything is waiting for save or cancel.
func (s *EditSession) EditMode() bool {
	return s.ledger.Len() > 0 || s.deleted.Len() > 0
}

func (s *EditSession) current(id int) (types.Employee, bool) {
	if c, ok := s.ledger.Get(id); ok {
		return c.Updated, true
	}
	return s.store.Get(id)
}

func (s *EditSession) openEntry(id int) (types.PendingChange, error) {
	c, ok := s.ledger.Get(id)
	if ok {
		return c, nil
	}
	if s.store.Has(id) {
		return types.PendingChange{}, fmt.Errorf("%w: row %d is not being edited", ErrInvalidTransition, id)
	}
	return types.PendingChange{}, ErrEmployeeNotFound
}

func (s *EditSession) rekey(from, to int) error {
	if from == to {
		return nil
	}
	if s.store.Has(to) || s.ledger.Has(to) {
		return fmt.Errorf("%w: employee_id %d", ErrEmployeeIDConflict, to)
	}
	s.ledger.Rekey(from, to)
	s.deleted.Rekey(from, to)
	return nil
}

func (s *EditSession) pendingAdds() []types.Employee {
	entries := s.ledger.All()
	out := make([]types.Employee, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if c := entries[i].Change; c.Status().IsPendingAdd() {
			out = append(out, c.Updated)
		}
	}
	return out
}

// decorate fills in skill statuses: skills marked deleted are Deleted,
// other skills of a pending add share the row's status, the rest are Server.
func (s *EditSession) decorate(e types.Employee) types.Employee {
	e = e.Clone()
	for i := range e.Skills {
		switch {
		case s.deleted.IsDeleted(e.EmployeeID, e.Skills[i].Name):
			e.Skills[i].Status = types.StatusDeleted
		case e.Status.IsPendingAdd():
			e.Skills[i].Status = e.Status
		default:
			e.Skills[i].Status = types.StatusServer
		}
	}
	return e
}
