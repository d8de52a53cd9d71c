package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

// Commit validates every pending add and edit, hands the change set to the
// employee source and, only once the source accepted it, folds it into the
// row store and clears the ledger and the deleted-skills map. Any failure
// leaves the session exactly as it was.
func (s *EditSession) Commit(ctx context.Context) (types.ChangeSet, error) {
	cs, err := s.changeSet(true)
	if err != nil {
		return types.ChangeSet{}, err
	}
	if cs.Empty() {
		s.ledger.Clear()
		s.deleted.Clear()
		return cs, nil
	}

	next, err := NewRowStore(cs.ApplyTo(s.store.Rows()))
	if err != nil {
		return types.ChangeSet{}, err
	}
	id, err := s.newID()
	if err != nil {
		return types.ChangeSet{}, fmt.Errorf("changeset id: %w", err)
	}
	cs.ID = id
	cs.CreatedAt = s.now().UTC()

	if err := s.source.ApplyChangeSet(ctx, cs); err != nil {
		return types.ChangeSet{}, fmt.Errorf("apply change set: %w", err)
	}

	s.store = next
	s.ledger.Clear()
	s.deleted.Clear()
	s.logChangeSet("committed", cs)
	return cs, nil
}

// Cancel discards every pending change. The row store already holds the
// pre-edit rows, so clearing the ledger restores them. The discarded
// changes are returned for logging.
func (s *EditSession) Cancel() types.ChangeSet {
	cs, _ := s.changeSet(false)
	s.ledger.Clear()
	s.deleted.Clear()
	if !cs.Empty() {
		s.logChangeSet("discarded", cs)
	}
	return cs
}

func (s *EditSession) changeSet(validate bool) (types.ChangeSet, error) {
	cs := types.ChangeSet{DeletedSkills: make(map[int][]types.Skill)}
	// Skill deletions under these rows are folded into the row itself.
	foldedRows := make(map[int]struct{})

	for _, e := range s.ledger.All() {
		c := e.Change
		switch {
		case c.Status() == types.StatusDeleted:
			row := c.Updated
			if c.Original != nil {
				row = c.Original.Clone()
			}
			row.Status = types.StatusDeleted
			cs.Deleted = append(cs.Deleted, row)
			foldedRows[e.EmployeeID] = struct{}{}

		case c.Status().IsPendingAdd():
			if validate {
				if err := s.validator.Check(c.Updated); err != nil {
					return types.ChangeSet{}, err
				}
			}
			row := committed(c.Updated)
			row.Skills = slices.DeleteFunc(row.Skills, func(sk types.Skill) bool {
				return s.deleted.IsDeleted(e.EmployeeID, sk.Name)
			})
			cs.Added = append(cs.Added, row)
			foldedRows[e.EmployeeID] = struct{}{}

		case c.Status().IsPendingEdit():
			if c.Original == nil || c.Updated.SameFields(*c.Original) {
				continue
			}
			if validate {
				if err := s.validator.Check(c.Updated); err != nil {
					return types.ChangeSet{}, err
				}
			}
			cs.Edited = append(cs.Edited, types.EditedRow{
				Original: committed(*c.Original),
				Updated:  committed(c.Updated),
			})
		}
	}

	// A row deletion subsumes deletions of its skills; a new row is
	// written without them.
	for _, parent := range s.deleted.Parents() {
		if _, folded := foldedRows[parent]; folded {
			continue
		}
		cs.DeletedSkills[parent] = s.deleted.Items(parent)
	}
	return cs, nil
}

func committed(e types.Employee) types.Employee {
	out := e.Clone()
	out.Status = types.StatusServer
	for i := range out.Skills {
		out.Skills[i].Status = types.StatusServer
	}
	return out
}

func (s *EditSession) logChangeSet(verb string, cs types.ChangeSet) {
	s.logger.Printf("employee: changeset %q %s added=%d edited=%d deleted=%d skill_parents=%d",
		cs.ID, verb, len(cs.Added), len(cs.Edited), len(cs.Deleted), len(cs.DeletedSkills))
	for _, a := range cs.Added {
		s.logger.Printf("employee: %s new row %d %q", verb, a.EmployeeID, a.FirstName)
	}
	for _, d := range cs.Deleted {
		s.logger.Printf("employee: %s deleted row %d %q", verb, d.EmployeeID, d.FirstName)
	}
}
