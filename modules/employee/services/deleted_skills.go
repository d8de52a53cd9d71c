package services

import (
	"maps"
	"slices"

	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

// DeletedSkills tracks nested skills marked deleted, per parent employee.
// A parent key is present only while its list is non-empty.
type DeletedSkills struct {
	byParent map[int][]types.Skill
}

func NewDeletedSkills() *DeletedSkills {
	return &DeletedSkills{byParent: make(map[int][]types.Skill)}
}

func (d *DeletedSkills) MarkDeleted(parentID int, item types.Skill) {
	if d.IsDeleted(parentID, item.Name) {
		return
	}
	item.Status = types.StatusDeleted
	d.byParent[parentID] = append(d.byParent[parentID], item)
}

func (d *DeletedSkills) Unmark(parentID int, name string) bool {
	items := d.byParent[parentID]
	for i, it := range items {
		if it.Name != name {
			continue
		}
		items = slices.Delete(items, i, i+1)
		if len(items) == 0 {
			delete(d.byParent, parentID)
		} else {
			d.byParent[parentID] = items
		}
		return true
	}
	return false
}

// Drop forgets every deletion recorded under parentID.
func (d *DeletedSkills) Drop(parentID int) {
	delete(d.byParent, parentID)
}

// Rekey moves the deletions recorded under from to to, replacing any under to.
func (d *DeletedSkills) Rekey(from, to int) {
	if from == to {
		return
	}
	items, ok := d.byParent[from]
	delete(d.byParent, from)
	if ok {
		d.byParent[to] = items
	}
}

func (d *DeletedSkills) IsDeleted(parentID int, name string) bool {
	for _, it := range d.byParent[parentID] {
		if it.Name == name {
			return true
		}
	}
	return false
}

func (d *DeletedSkills) Items(parentID int) []types.Skill {
	return slices.Clone(d.byParent[parentID])
}

func (d *DeletedSkills) Parents() []int {
	return slices.Sorted(maps.Keys(d.byParent))
}

func (d *DeletedSkills) All() map[int][]types.Skill {
	out := make(map[int][]types.Skill, len(d.byParent))
	for k, v := range d.byParent {
		out[k] = slices.Clone(v)
	}
	return out
}

func (d *DeletedSkills) Len() int { return len(d.byParent) }

func (d *DeletedSkills) Clear() {
	clear(d.byParent)
}
