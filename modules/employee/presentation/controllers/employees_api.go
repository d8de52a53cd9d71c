package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/ports"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
	"github.com/jacksonlee411/employee-grid/modules/employee/services"
	"github.com/jacksonlee411/employee-grid/pkg/httperr"
)

const (
	defaultMaxPageSize  = 100
	defaultHistoryLimit = 20
	contentTypeCBOR     = "application/cbor"
)

// EmployeesController exposes one edit session over HTTP. Requests are
// serialized; the session itself is single-threaded.
type EmployeesController struct {
	Session     *services.EditSession
	Styles      services.RowStyles
	History     ports.ChangeSetHistory
	MaxPageSize int
	Logger      *log.Logger

	mu sync.Mutex
}

type rowAPIRequest struct {
	EmployeeID *int                `json:"employee_id"`
	Fields     types.EmployeePatch `json:"fields"`
}

type skillAPIRequest struct {
	EmployeeID *int   `json:"employee_id"`
	Name       string `json:"name"`
}

type rowView struct {
	types.Employee
	RowID      string `json:"row_id" cbor:"row_id"`
	Editable   bool   `json:"editable" cbor:"editable"`
	Background string `json:"background" cbor:"background"`
}

type pageView struct {
	StartRow int       `json:"start_row" cbor:"start_row"`
	EndRow   int       `json:"end_row" cbor:"end_row"`
	RowCount int       `json:"row_count" cbor:"row_count"`
	EditMode bool      `json:"edit_mode" cbor:"edit_mode"`
	Rows     []rowView `json:"rows" cbor:"rows"`
}

type rowResult struct {
	Row      rowView `json:"row"`
	Removed  bool    `json:"removed"`
	EditMode bool    `json:"edit_mode"`
}

var sessionErrorStatus = []struct {
	err    error
	status int
}{
	{err: services.ErrEmployeeNotFound, status: http.StatusNotFound},
	{err: services.ErrSkillNotFound, status: http.StatusNotFound},
	{err: services.ErrInvalidTransition, status: http.StatusConflict},
	{err: services.ErrEmployeeIDConflict, status: http.StatusConflict},
	{err: services.ErrPendingChanges, status: http.StatusConflict},
	{err: ports.ErrRowGone, status: http.StatusConflict},
	{err: ports.ErrDuplicateRow, status: http.StatusConflict},
}

func (c *EmployeesController) HandleRowsAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	maxPage := c.MaxPageSize
	if maxPage <= 0 {
		maxPage = defaultMaxPageSize
	}
	start, ok := queryInt(r, "start_row", 0)
	if !ok || start < 0 {
		writeError(w, r, http.StatusBadRequest, "invalid_row_range", "invalid start_row")
		return
	}
	span := min(maxPage, math.MaxInt-start)
	end, ok := queryInt(r, "end_row", start+span)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_row_range", "invalid end_row")
		return
	}
	if end >= start && end-start > span {
		end = start + span
	}

	c.mu.Lock()
	page, err := c.Session.FetchPage(start, end)
	editMode := c.Session.EditMode()
	c.mu.Unlock()
	if err != nil {
		c.writeSessionError(w, r, err, "fetch failed")
		return
	}

	out := pageView{
		StartRow: page.StartRow,
		EndRow:   page.EndRow,
		RowCount: page.RowCount,
		EditMode: editMode,
		Rows:     make([]rowView, 0, len(page.Rows)),
	}
	for _, row := range page.Rows {
		out.Rows = append(out.Rows, c.view(row))
	}

	if wantsCBOR(r) {
		b, err := cbor.Marshal(out)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "encode_failed", "encode failed")
			return
		}
		w.Header().Set("Content-Type", contentTypeCBOR)
		_, _ = w.Write(b)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *EmployeesController) HandleRowSkillsAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("employee_id"))
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, "missing_employee_id", "employee_id is required")
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_employee_id", "invalid employee_id")
		return
	}

	c.mu.Lock()
	skills, err := c.Session.Skills(id)
	c.mu.Unlock()
	if err != nil {
		c.writeSessionError(w, r, err, "skills failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id": id,
		"skills":      skills,
	})
}

func (c *EmployeesController) HandleRowAddAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	c.mu.Lock()
	row := c.Session.Add()
	editMode := c.Session.EditMode()
	c.mu.Unlock()

	writeJSON(w, http.StatusCreated, rowResult{Row: c.view(row), EditMode: editMode})
}

func (c *EmployeesController) HandleRowEditAPI(w http.ResponseWriter, r *http.Request) {
	c.handleRowOp(w, r, func(req rowAPIRequest) (types.Employee, bool, error) {
		row, err := c.Session.StartEdit(*req.EmployeeID)
		return row, false, err
	}, "edit failed")
}

func (c *EmployeesController) HandleRowUpdateAPI(w http.ResponseWriter, r *http.Request) {
	c.handleRowOp(w, r, func(req rowAPIRequest) (types.Employee, bool, error) {
		row, err := c.Session.Update(*req.EmployeeID, req.Fields)
		return row, false, err
	}, "update failed")
}

func (c *EmployeesController) HandleRowConfirmAPI(w http.ResponseWriter, r *http.Request) {
	c.handleRowOp(w, r, func(req rowAPIRequest) (types.Employee, bool, error) {
		row, err := c.Session.Confirm(*req.EmployeeID, req.Fields)
		return row, false, err
	}, "confirm failed")
}

func (c *EmployeesController) HandleRowDeleteAPI(w http.ResponseWriter, r *http.Request) {
	c.handleRowOp(w, r, func(req rowAPIRequest) (types.Employee, bool, error) {
		return c.Session.Delete(*req.EmployeeID)
	}, "delete failed")
}

func (c *EmployeesController) HandleRowUndoAPI(w http.ResponseWriter, r *http.Request) {
	c.handleRowOp(w, r, func(req rowAPIRequest) (types.Employee, bool, error) {
		return c.Session.Undo(*req.EmployeeID)
	}, "undo failed")
}

func (c *EmployeesController) HandleSkillDeleteAPI(w http.ResponseWriter, r *http.Request) {
	c.handleSkillOp(w, r, c.Session.DeleteSkill, "skill delete failed")
}

func (c *EmployeesController) HandleSkillUndoAPI(w http.ResponseWriter, r *http.Request) {
	c.handleSkillOp(w, r, c.Session.UndoSkill, "skill undo failed")
}

func (c *EmployeesController) HandleChangesAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	c.mu.Lock()
	pending := c.Session.Pending()
	deleted := c.Session.DeletedSkills()
	editMode := c.Session.EditMode()
	c.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"edit_mode":      editMode,
		"pending":        pending,
		"deleted_skills": deleted,
	})
}

func (c *EmployeesController) HandleChangesCommitAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	c.mu.Lock()
	cs, err := c.Session.Commit(r.Context())
	c.mu.Unlock()
	if err != nil {
		c.writeSessionError(w, r, err, "commit failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changeset": cs})
}

func (c *EmployeesController) HandleChangesCancelAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	c.mu.Lock()
	cs := c.Session.Cancel()
	c.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"discarded": cs})
}

// HandleRowsReloadAPI refetches rows from the source. It is refused while
// changes are pending.
func (c *EmployeesController) HandleRowsReloadAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	c.mu.Lock()
	err := c.Session.Reload(r.Context())
	var page services.Page
	if err == nil {
		page, err = c.Session.FetchPage(0, 0)
	}
	c.mu.Unlock()
	if err != nil {
		c.writeSessionError(w, r, err, "reload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"row_count": page.RowCount})
}

func (c *EmployeesController) HandleChangesHistoryAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if c.History == nil {
		writeError(w, r, http.StatusNotFound, "history_unavailable", "change history is not kept by this source")
		return
	}
	limit, ok := queryInt(r, "limit", defaultHistoryLimit)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_limit", "invalid limit")
		return
	}

	sets, err := c.History.ListChangeSets(r.Context(), limit)
	if err != nil {
		c.writeSessionError(w, r, err, "history failed")
		return
	}
	if sets == nil {
		sets = make([]types.ChangeSet, 0)
	}
	writeJSON(w, http.StatusOK, map[string]any{"changesets": sets})
}

func (c *EmployeesController) HandleRowStylesAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	out := make(map[types.RowStatus]services.RowStyle, len(types.AllStatuses))
	for _, st := range types.AllStatuses {
		out[st] = c.styles().For(st)
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *EmployeesController) handleRowOp(w http.ResponseWriter, r *http.Request, op func(rowAPIRequest) (types.Employee, bool, error), failMsg string) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var req rowAPIRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	if req.EmployeeID == nil {
		writeError(w, r, http.StatusBadRequest, "missing_employee_id", "employee_id is required")
		return
	}

	c.mu.Lock()
	row, removed, err := op(req)
	editMode := c.Session.EditMode()
	c.mu.Unlock()
	if err != nil {
		c.writeSessionError(w, r, err, failMsg)
		return
	}
	writeJSON(w, http.StatusOK, rowResult{Row: c.view(row), Removed: removed, EditMode: editMode})
}

func (c *EmployeesController) handleSkillOp(w http.ResponseWriter, r *http.Request, op func(int, string) (types.Skill, error), failMsg string) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var req skillAPIRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.EmployeeID == nil {
		writeError(w, r, http.StatusBadRequest, "missing_employee_id", "employee_id is required")
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "missing_skill_name", "name is required")
		return
	}

	c.mu.Lock()
	skill, err := op(*req.EmployeeID, req.Name)
	editMode := c.Session.EditMode()
	c.mu.Unlock()
	if err != nil {
		c.writeSessionError(w, r, err, failMsg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id": *req.EmployeeID,
		"skill":       skill,
		"edit_mode":   editMode,
	})
}

func (c *EmployeesController) view(row types.Employee) rowView {
	return rowView{
		Employee:   row,
		RowID:      row.RowID(),
		Editable:   row.Status.Editable(),
		Background: c.styles().For(row.Status).Background,
	}
}

func (c *EmployeesController) styles() services.RowStyles {
	if c.Styles == nil {
		return services.DefaultRowStyles()
	}
	return c.Styles
}

func (c *EmployeesController) writeSessionError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if rfe, ok := errors.AsType[*services.RequiredFieldsError](err); ok {
		writeError(w, r, http.StatusUnprocessableEntity, rfe.Error(), rfe.Detail())
		return
	}
	for _, m := range sessionErrorStatus {
		if errors.Is(err, m.err) {
			writeError(w, r, m.status, m.err.Error(), err.Error())
			return
		}
	}
	if code, ok := httperr.Code(err); ok {
		writeError(w, r, http.StatusBadRequest, code, err.Error())
		return
	}

	code := stablePgMessage(err)
	switch {
	case isStableDBCode(code):
		writeError(w, r, http.StatusUnprocessableEntity, code, message)
	case isPgInvalidInput(err):
		writeError(w, r, http.StatusBadRequest, "invalid_input", message)
	default:
		c.logger().Printf("employee: %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", message)
	}
}

func (c *EmployeesController) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

func queryInt(r *http.Request, key string, def int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func readJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(body, v)
}

func wantsCBOR(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), contentTypeCBOR)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
