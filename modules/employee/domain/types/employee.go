package types

import "strconv"

type RowStatus string

const (
	StatusServer      RowStatus = "server"
	StatusBeingAdded  RowStatus = "being_added"
	StatusAdded       RowStatus = "added"
	StatusBeingEdited RowStatus = "being_edited"
	StatusEdited      RowStatus = "edited"
	StatusDeleted     RowStatus = "deleted"
)

var AllStatuses = []RowStatus{
	StatusServer,
	StatusBeingAdded,
	StatusAdded,
	StatusBeingEdited,
	StatusEdited,
	StatusDeleted,
}

func (s RowStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsPendingAdd reports whether the row has never been committed.
func (s RowStatus) IsPendingAdd() bool {
	return s == StatusBeingAdded || s == StatusAdded
}

func (s RowStatus) IsPendingEdit() bool {
	return s == StatusBeingEdited || s == StatusEdited
}

// Editable is the cell-renderer capability: input widgets for rows that are
// open for editing, static labels for everything else.
func (s RowStatus) Editable() bool {
	return s == StatusBeingAdded || s == StatusBeingEdited
}

type Skill struct {
	Name              string    `json:"name" cbor:"name"`
	Rating            int       `json:"rating" cbor:"rating"`
	YearsOfExperience int       `json:"years_of_experience" cbor:"years_of_experience"`
	Status            RowStatus `json:"status" cbor:"status"`
}

type Employee struct {
	EmployeeID int       `json:"employee_id" cbor:"employee_id"`
	FirstName  string    `json:"first_name" cbor:"first_name"`
	LastName   string    `json:"last_name" cbor:"last_name"`
	Department string    `json:"department" cbor:"department"`
	Salary     int64     `json:"salary" cbor:"salary"`
	Skills     []Skill   `json:"skills" cbor:"skills"`
	Status     RowStatus `json:"status" cbor:"status"`
}

// RowID is the stable key the grid uses for diffing and repainting.
func (e Employee) RowID() string {
	return strconv.Itoa(e.EmployeeID)
}

func (e Employee) Clone() Employee {
	out := e
	if e.Skills != nil {
		out.Skills = append([]Skill(nil), e.Skills...)
	}
	return out
}

// SameFields compares the domain fields of two rows, ignoring status.
func (e Employee) SameFields(o Employee) bool {
	if e.EmployeeID != o.EmployeeID ||
		e.FirstName != o.FirstName ||
		e.LastName != o.LastName ||
		e.Department != o.Department ||
		e.Salary != o.Salary ||
		len(e.Skills) != len(o.Skills) {
		return false
	}
	for i := range e.Skills {
		a, b := e.Skills[i], o.Skills[i]
		if a.Name != b.Name || a.Rating != b.Rating || a.YearsOfExperience != b.YearsOfExperience {
			return false
		}
	}
	return true
}

func (e Employee) SkillIndex(name string) int {
	for i, s := range e.Skills {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// EmployeePatch carries the cells a grid edit touched; nil fields are left as-is.
type EmployeePatch struct {
	EmployeeID *int    `json:"employee_id,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Department *string `json:"department,omitempty"`
	Salary     *int64  `json:"salary,omitempty"`
}

func (p EmployeePatch) Empty() bool {
	return p.EmployeeID == nil && p.FirstName == nil && p.LastName == nil && p.Department == nil && p.Salary == nil
}

// Apply writes the patch onto e. EmployeeID is left to the caller because
// changing it re-keys the row.
func (p EmployeePatch) Apply(e *Employee) {
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
}
