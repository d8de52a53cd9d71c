package services

import (
	"errors"
	"strings"
)

var (
	ErrEmployeeNotFound   = errors.New("EMPLOYEE_NOT_FOUND")
	ErrSkillNotFound      = errors.New("SKILL_NOT_FOUND")
	ErrInvalidTransition  = errors.New("EMPLOYEE_INVALID_TRANSITION")
	ErrEmployeeIDConflict = errors.New("EMPLOYEE_ID_CONFLICT")
	ErrPendingChanges     = errors.New("EMPLOYEE_PENDING_CHANGES")
)

// RequiredFieldsError rejects a confirm or commit whose row has empty
// required fields. The row keeps its previous state.
type RequiredFieldsError struct {
	EmployeeID int
	Fields     []string
}

func (e *RequiredFieldsError) Error() string { return "EMPLOYEE_REQUIRED_FIELDS_MISSING" }

func (e *RequiredFieldsError) Detail() string {
	return "required fields missing: " + strings.Join(e.Fields, ", ")
}
