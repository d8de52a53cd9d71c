package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jacksonlee411/employee-grid/internal/routing"
)

// writeError answers with the internal_api envelope shared by every JSON route.
func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	routing.WriteError(w, r, routing.RouteClassInternalAPI, status, code, message)
}

func pgErrorMessage(err error) string {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok && pgErr != nil {
		if msg := strings.TrimSpace(pgErr.Message); msg != "" {
			return msg
		}
	}
	return "UNKNOWN"
}

func pgErrorCode(err error) string {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok && pgErr != nil {
		return strings.TrimSpace(pgErr.Code)
	}
	return ""
}

func isPgInvalidInput(err error) bool {
	switch pgErrorCode(err) {
	case "22P02", "22003", "22007", "22008":
		return true
	default:
		return false
	}
}

// stablePgMessage maps a row-source failure to a stable code: a raised
// upper-snake message wins, then known constraint names.
func stablePgMessage(err error) string {
	if msg := pgErrorMessage(err); isStableDBCode(msg) {
		return msg
	}
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok && pgErr != nil {
		switch strings.TrimSpace(pgErr.ConstraintName) {
		case "employees_pkey":
			return "EMPLOYEE_ID_CONFLICT"
		case "employees_employee_id_check", "employees_first_name_check", "employees_department_check":
			return "EMPLOYEE_REQUIRED_FIELDS_MISSING"
		case "employee_skills_pkey":
			return "SKILL_DUPLICATE"
		}
	}
	return err.Error()
}

func isStableDBCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || code == "UNKNOWN" {
		return false
	}
	if code[0] < 'A' || code[0] > 'Z' {
		return false
	}
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' {
			continue
		}
		return false
	}
	return true
}
