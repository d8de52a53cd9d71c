package types

import "time"

// PendingChange is one ledger entry. Original is nil for rows that were
// added in the current session.
type PendingChange struct {
	Original *Employee `json:"original,omitempty"`
	Updated  Employee  `json:"updated"`
}

func (c PendingChange) Status() RowStatus {
	return c.Updated.Status
}

type EditedRow struct {
	Original Employee `json:"original"`
	Updated  Employee `json:"updated"`
}

type ChangeSet struct {
	ID            string          `json:"changeset_uuid"`
	CreatedAt     time.Time       `json:"created_at"`
	Added         []Employee      `json:"added"`
	Edited        []EditedRow     `json:"edited"`
	Deleted       []Employee      `json:"deleted"`
	DeletedSkills map[int][]Skill `json:"deleted_skills"`
}

func (cs ChangeSet) Empty() bool {
	return len(cs.Added) == 0 && len(cs.Edited) == 0 && len(cs.Deleted) == 0 && len(cs.DeletedSkills) == 0
}

// ApplyTo returns rows with the change set applied: edited rows replaced,
// deleted skills dropped, deleted rows removed, added rows appended.
// Every returned row carries StatusServer.
func (cs ChangeSet) ApplyTo(rows []Employee) []Employee {
	edited := make(map[int]Employee, len(cs.Edited))
	for _, e := range cs.Edited {
		edited[e.Original.EmployeeID] = e.Updated
	}
	deleted := make(map[int]struct{}, len(cs.Deleted))
	for _, e := range cs.Deleted {
		deleted[e.EmployeeID] = struct{}{}
	}

	out := make([]Employee, 0, len(rows)+len(cs.Added))
	for _, r := range rows {
		if _, ok := deleted[r.EmployeeID]; ok {
			continue
		}
		if u, ok := edited[r.EmployeeID]; ok {
			r = u
		}
		r = r.Clone()
		if gone := cs.DeletedSkills[r.EmployeeID]; len(gone) > 0 {
			r.Skills = withoutSkills(r.Skills, gone)
		}
		out = append(out, r.asServer())
	}
	for _, a := range cs.Added {
		out = append(out, a.Clone().asServer())
	}
	return out
}

func (e Employee) asServer() Employee {
	e.Status = StatusServer
	for i := range e.Skills {
		e.Skills[i].Status = StatusServer
	}
	return e
}

func withoutSkills(skills []Skill, gone []Skill) []Skill {
	out := skills[:0]
	for _, s := range skills {
		drop := false
		for _, g := range gone {
			if g.Name == s.Name {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, s)
		}
	}
	return out
}
