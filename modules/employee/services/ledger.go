package services

import "github.com/jacksonlee411/employee-grid/modules/employee/domain/types"

type LedgerEntry struct {
	EmployeeID int                 `json:"employee_id"`
	Change     types.PendingChange `json:"change"`
}

// Ledger is the pending-change set, keyed by row ID, at most one entry per
// row. All() reports entries in the order they were first recorded.
type Ledger struct {
	entries map[int]types.PendingChange
	order   []int
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[int]types.PendingChange)}
}

// Record inserts or replaces the entry for id. An entry whose updated side
// is back at StatusServer is removed instead.
func (l *Ledger) Record(id int, c types.PendingChange) {
	if c.Status() == types.StatusServer {
		l.Remove(id)
		return
	}
	if _, ok := l.entries[id]; !ok {
		l.order = append(l.order, id)
	}
	l.entries[id] = cloneChange(c)
}

func (l *Ledger) Get(id int) (types.PendingChange, bool) {
	c, ok := l.entries[id]
	if !ok {
		return types.PendingChange{}, false
	}
	return cloneChange(c), true
}

func (l *Ledger) Has(id int) bool {
	_, ok := l.entries[id]
	return ok
}

func (l *Ledger) Remove(id int) bool {
	if _, ok := l.entries[id]; !ok {
		return false
	}
	delete(l.entries, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Rekey moves the entry for from to to, keeping its position.
func (l *Ledger) Rekey(from, to int) bool {
	c, ok := l.entries[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	if _, taken := l.entries[to]; taken {
		return false
	}
	delete(l.entries, from)
	l.entries[to] = c
	for i, v := range l.order {
		if v == from {
			l.order[i] = to
			break
		}
	}
	return true
}

func (l *Ledger) All() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, LedgerEntry{EmployeeID: id, Change: cloneChange(l.entries[id])})
	}
	return out
}

func (l *Ledger) Len() int { return len(l.order) }

func (l *Ledger) MaxID() int {
	m := 0
	for _, id := range l.order {
		m = max(m, id)
	}
	return m
}

func (l *Ledger) Clear() {
	l.entries = make(map[int]types.PendingChange)
	l.order = nil
}

func cloneChange(c types.PendingChange) types.PendingChange {
	out := types.PendingChange{Updated: c.Updated.Clone()}
	if c.Original != nil {
		o := c.Original.Clone()
		out.Original = &o
	}
	return out
}
