package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jacksonlee411/employee-grid/internal/routing"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/ports"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
	"github.com/jacksonlee411/employee-grid/modules/employee/infrastructure/persistence"
	"github.com/jacksonlee411/employee-grid/modules/employee/services"
)

type failingSource struct {
	ports.EmployeeSource
	applyErr error
}

func (f failingSource) ApplyChangeSet(ctx context.Context, cs types.ChangeSet) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	return f.EmployeeSource.ApplyChangeSet(ctx, cs)
}

func newTestController(t *testing.T, source ports.EmployeeSource) *EmployeesController {
	t.Helper()
	if source == nil {
		source = persistence.NewEmployeeMemoryStore(persistence.SeedEmployees(3))
	}
	logger := log.New(io.Discard, "", 0)
	session, err := services.NewEditSession(context.Background(), source, services.SessionOptions{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	c := &EmployeesController{Session: session, Logger: logger}
	if h, ok := source.(ports.ChangeSetHistory); ok {
		c.History = h
	}
	return c
}

func call(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) routing.ErrorEnvelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status=%d want=%d body=%s", rec.Code, status, rec.Body.String())
	}
	env := decode[routing.ErrorEnvelope](t, rec)
	if env.Code != code {
		t.Fatalf("code=%q want=%q", env.Code, code)
	}
	return env
}

func TestEmployeesAPI_AddConfirmCommit(t *testing.T) {
	c := newTestController(t, nil)

	rec := call(t, c.HandleRowAddAPI, http.MethodPost, "/employee/api/rows/add", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	added := decode[rowResult](t, rec)
	if added.Row.EmployeeID != 4 || added.Row.Status != types.StatusBeingAdded || !added.Row.Editable || added.Row.RowID != "4" {
		t.Fatalf("added=%+v", added.Row)
	}
	if added.Row.Background != "#fff3cd" || !added.EditMode {
		t.Fatalf("added=%+v", added)
	}

	rec = call(t, c.HandleRowConfirmAPI, http.MethodPost, "/employee/api/rows/confirm", `{"employee_id":4}`)
	env := wantError(t, rec, http.StatusUnprocessableEntity, "EMPLOYEE_REQUIRED_FIELDS_MISSING")
	if !strings.Contains(env.Message, "first_name") || !strings.Contains(env.Message, "department") {
		t.Fatalf("message=%q", env.Message)
	}

	rec = call(t, c.HandleRowConfirmAPI, http.MethodPost, "/employee/api/rows/confirm",
		`{"employee_id":4,"fields":{"first_name":"Jane","last_name":"Smith","department":"Marketing","salary":70000}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	confirmed := decode[rowResult](t, rec)
	if confirmed.Row.Status != types.StatusAdded || confirmed.Row.Editable || confirmed.Row.Salary != 70000 {
		t.Fatalf("confirmed=%+v", confirmed.Row)
	}

	rec = call(t, c.HandleChangesAPI, http.MethodGet, "/employee/api/changes", "")
	changes := decode[struct {
		EditMode bool                   `json:"edit_mode"`
		Pending  []services.LedgerEntry `json:"pending"`
	}](t, rec)
	if !changes.EditMode || len(changes.Pending) != 1 || changes.Pending[0].EmployeeID != 4 {
		t.Fatalf("changes=%+v", changes)
	}

	rec = call(t, c.HandleChangesCommitAPI, http.MethodPost, "/employee/api/changes/commit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	committed := decode[struct {
		ChangeSet types.ChangeSet `json:"changeset"`
	}](t, rec)
	if len(committed.ChangeSet.Added) != 1 || committed.ChangeSet.ID == "" {
		t.Fatalf("changeset=%+v", committed.ChangeSet)
	}

	rec = call(t, c.HandleRowsAPI, http.MethodGet, "/employee/api/rows?start_row=0&end_row=10", "")
	page := decode[pageView](t, rec)
	if page.RowCount != 4 || page.EditMode || page.Rows[3].EmployeeID != 4 || page.Rows[3].Status != types.StatusServer {
		t.Fatalf("page=%+v", page)
	}

	rec = call(t, c.HandleChangesHistoryAPI, http.MethodGet, "/employee/api/changes/history", "")
	history := decode[struct {
		ChangeSets []types.ChangeSet `json:"changesets"`
	}](t, rec)
	if len(history.ChangeSets) != 1 || history.ChangeSets[0].ID != committed.ChangeSet.ID {
		t.Fatalf("history=%+v", history)
	}
}

func TestEmployeesAPI_EditDeleteUndo(t *testing.T) {
	c := newTestController(t, nil)

	rec := call(t, c.HandleRowEditAPI, http.MethodPost, "/employee/api/rows/edit", `{"employee_id":2}`)
	if got := decode[rowResult](t, rec); got.Row.Status != types.StatusBeingEdited || !got.Row.Editable {
		t.Fatalf("row=%+v", got.Row)
	}
	rec = call(t, c.HandleRowUpdateAPI, http.MethodPost, "/employee/api/rows/update", `{"employee_id":2,"fields":{"first_name":"Changed"}}`)
	if got := decode[rowResult](t, rec); got.Row.FirstName != "Changed" || got.Row.Status != types.StatusBeingEdited {
		t.Fatalf("row=%+v", got.Row)
	}
	rec = call(t, c.HandleRowConfirmAPI, http.MethodPost, "/employee/api/rows/confirm", `{"employee_id":2}`)
	if got := decode[rowResult](t, rec); got.Row.Status != types.StatusEdited || got.Row.Background != "#cce5ff" {
		t.Fatalf("row=%+v", got.Row)
	}
	rec = call(t, c.HandleRowDeleteAPI, http.MethodPost, "/employee/api/rows/delete", `{"employee_id":2}`)
	if got := decode[rowResult](t, rec); got.Row.Status != types.StatusDeleted || got.Row.Background != "#f8d7da" || got.Removed {
		t.Fatalf("got=%+v", got)
	}
	rec = call(t, c.HandleRowUndoAPI, http.MethodPost, "/employee/api/rows/undo", `{"employee_id":2}`)
	got := decode[rowResult](t, rec)
	if got.Row.Status != types.StatusServer || got.Row.FirstName != "Employee 2" || got.EditMode {
		t.Fatalf("got=%+v", got)
	}

	rec = call(t, c.HandleRowAddAPI, http.MethodPost, "/employee/api/rows/add", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d", rec.Code)
	}
	rec = call(t, c.HandleRowDeleteAPI, http.MethodPost, "/employee/api/rows/delete", `{"employee_id":4}`)
	if got := decode[rowResult](t, rec); !got.Removed || got.EditMode {
		t.Fatalf("got=%+v", got)
	}
}

func TestEmployeesAPI_Skills(t *testing.T) {
	c := newTestController(t, nil)

	rec := call(t, c.HandleRowSkillsAPI, http.MethodGet, "/employee/api/rows/skills?employee_id=1", "")
	skills := decode[struct {
		Skills []types.Skill `json:"skills"`
	}](t, rec)
	if len(skills.Skills) != 3 || skills.Skills[0].Status != types.StatusServer {
		t.Fatalf("skills=%+v", skills)
	}

	rec = call(t, c.HandleSkillDeleteAPI, http.MethodPost, "/employee/api/skills/delete", `{"employee_id":1,"name":"Scala"}`)
	deleted := decode[struct {
		Skill    types.Skill `json:"skill"`
		EditMode bool        `json:"edit_mode"`
	}](t, rec)
	if deleted.Skill.Status != types.StatusDeleted || !deleted.EditMode {
		t.Fatalf("deleted=%+v", deleted)
	}

	rec = call(t, c.HandleChangesAPI, http.MethodGet, "/employee/api/changes", "")
	changes := decode[struct {
		DeletedSkills map[int][]types.Skill `json:"deleted_skills"`
	}](t, rec)
	if len(changes.DeletedSkills[1]) != 1 {
		t.Fatalf("changes=%+v", changes)
	}

	rec = call(t, c.HandleSkillUndoAPI, http.MethodPost, "/employee/api/skills/undo", `{"employee_id":1,"name":"Scala"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = call(t, c.HandleSkillDeleteAPI, http.MethodPost, "/employee/api/skills/delete", `{"employee_id":1,"name":"Cobol"}`)
	wantError(t, rec, http.StatusNotFound, "SKILL_NOT_FOUND")
	rec = call(t, c.HandleSkillUndoAPI, http.MethodPost, "/employee/api/skills/undo", `{"employee_id":1,"name":"Scala"}`)
	wantError(t, rec, http.StatusConflict, "EMPLOYEE_INVALID_TRANSITION")
	rec = call(t, c.HandleSkillDeleteAPI, http.MethodPost, "/employee/api/skills/delete", `{"employee_id":1}`)
	wantError(t, rec, http.StatusBadRequest, "missing_skill_name")
	rec = call(t, c.HandleSkillDeleteAPI, http.MethodPost, "/employee/api/skills/delete", `{"name":"Scala"}`)
	wantError(t, rec, http.StatusBadRequest, "missing_employee_id")
	rec = call(t, c.HandleRowSkillsAPI, http.MethodGet, "/employee/api/rows/skills", "")
	wantError(t, rec, http.StatusBadRequest, "missing_employee_id")
	rec = call(t, c.HandleRowSkillsAPI, http.MethodGet, "/employee/api/rows/skills?employee_id=x", "")
	wantError(t, rec, http.StatusBadRequest, "invalid_employee_id")
	rec = call(t, c.HandleRowSkillsAPI, http.MethodGet, "/employee/api/rows/skills?employee_id=99", "")
	wantError(t, rec, http.StatusNotFound, "EMPLOYEE_NOT_FOUND")
}

func TestEmployeesAPI_Cancel(t *testing.T) {
	c := newTestController(t, nil)
	call(t, c.HandleRowAddAPI, http.MethodPost, "/employee/api/rows/add", "")
	call(t, c.HandleRowDeleteAPI, http.MethodPost, "/employee/api/rows/delete", `{"employee_id":1}`)

	rec := call(t, c.HandleChangesCancelAPI, http.MethodPost, "/employee/api/changes/cancel", "")
	discarded := decode[struct {
		Discarded types.ChangeSet `json:"discarded"`
	}](t, rec)
	if len(discarded.Discarded.Added) != 1 || len(discarded.Discarded.Deleted) != 1 {
		t.Fatalf("discarded=%+v", discarded)
	}

	rec = call(t, c.HandleRowsAPI, http.MethodGet, "/employee/api/rows", "")
	page := decode[pageView](t, rec)
	if page.RowCount != 3 || page.EditMode {
		t.Fatalf("page=%+v", page)
	}
	for _, r := range page.Rows {
		if r.Status != types.StatusServer || r.Background != "#ffffff" {
			t.Fatalf("row=%+v", r)
		}
	}
}

func TestEmployeesAPI_RowsPaging(t *testing.T) {
	c := newTestController(t, persistence.NewEmployeeMemoryStore(persistence.SeedEmployees(10)))
	c.MaxPageSize = 4

	rec := call(t, c.HandleRowsAPI, http.MethodGet, "/employee/api/rows?start_row=2&end_row=100", "")
	page := decode[pageView](t, rec)
	if page.StartRow != 2 || page.EndRow != 6 || len(page.Rows) != 4 || page.RowCount != 10 || page.Rows[0].EmployeeID != 3 {
		t.Fatalf("page=%+v", page)
	}

	rec = call(t, c.HandleRowsAPI, http.MethodGet, "/employee/api/rows?start_row=x", "")
	wantError(t, rec, http.StatusBadRequest, "invalid_row_range")
	rec = call(t, c.HandleRowsAPI, http.MethodGet, "/employee/api/rows?end_row=x", "")
	wantError(t, rec, http.StatusBadRequest, "invalid_row_range")
	rec = call(t, c.HandleRowsAPI, http.MethodGet, "/employee/api/rows?start_row=5&end_row=1", "")
	wantError(t, rec, http.StatusBadRequest, "invalid_row_range")
	rec = call(t, c.HandleRowsAPI, http.MethodGet, "/employee/api/rows?start_row=-1", "")
	wantError(t, rec, http.StatusBadRequest, "invalid_row_range")
}

func TestEmployeesAPI_RowsPagingNearMaxInt(t *testing.T) {
	c := newTestController(t, nil)

	for _, start := range []int{math.MaxInt, math.MaxInt - 50} {
		target := "/employee/api/rows?start_row=" + strconv.Itoa(start)
		rec := call(t, c.HandleRowsAPI, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("start=%d status=%d body=%s", start, rec.Code, rec.Body.String())
		}
		page := decode[pageView](t, rec)
		if page.StartRow != start || page.EndRow != start || len(page.Rows) != 0 || page.RowCount != 3 {
			t.Fatalf("page=%+v", page)
		}
	}

	target := "/employee/api/rows?start_row=" + strconv.Itoa(math.MaxInt-1) + "&end_row=" + strconv.Itoa(math.MaxInt)
	rec := call(t, c.HandleRowsAPI, http.MethodGet, target, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestEmployeesAPI_RowsCBOR(t *testing.T) {
	c := newTestController(t, nil)
	call(t, c.HandleRowAddAPI, http.MethodPost, "/employee/api/rows/add", "")

	req := httptest.NewRequest(http.MethodGet, "/employee/api/rows?start_row=0&end_row=2", nil)
	req.Header.Set("Accept", "application/cbor")
	rec := httptest.NewRecorder()
	c.HandleRowsAPI(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/cbor" {
		t.Fatalf("status=%d content-type=%q", rec.Code, rec.Header().Get("Content-Type"))
	}
	var page pageView
	if err := cbor.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.RowCount != 4 || len(page.Rows) != 2 || !page.EditMode {
		t.Fatalf("page=%+v", page)
	}
	if page.Rows[0].EmployeeID != 4 || page.Rows[0].Status != types.StatusBeingAdded || !page.Rows[0].Editable {
		t.Fatalf("row=%+v", page.Rows[0])
	}
	if page.Rows[1].FirstName != "Employee 1" || page.Rows[1].RowID != "1" {
		t.Fatalf("row=%+v", page.Rows[1])
	}
}

func TestEmployeesAPI_RequestErrors(t *testing.T) {
	c := newTestController(t, nil)

	rec := call(t, c.HandleRowEditAPI, http.MethodPost, "/employee/api/rows/edit", `{bad`)
	wantError(t, rec, http.StatusBadRequest, "bad_json")
	rec = call(t, c.HandleRowEditAPI, http.MethodPost, "/employee/api/rows/edit", "")
	wantError(t, rec, http.StatusBadRequest, "bad_json")
	rec = call(t, c.HandleRowEditAPI, http.MethodPost, "/employee/api/rows/edit", `{}`)
	wantError(t, rec, http.StatusBadRequest, "missing_employee_id")
	rec = call(t, c.HandleRowEditAPI, http.MethodPost, "/employee/api/rows/edit", `{"employee_id":99}`)
	wantError(t, rec, http.StatusNotFound, "EMPLOYEE_NOT_FOUND")
	rec = call(t, c.HandleRowUpdateAPI, http.MethodPost, "/employee/api/rows/update", `{"employee_id":1,"fields":{"first_name":"x"}}`)
	wantError(t, rec, http.StatusConflict, "EMPLOYEE_INVALID_TRANSITION")
	rec = call(t, c.HandleRowUndoAPI, http.MethodPost, "/employee/api/rows/undo", `{"employee_id":1}`)
	wantError(t, rec, http.StatusConflict, "EMPLOYEE_INVALID_TRANSITION")

	call(t, c.HandleRowAddAPI, http.MethodPost, "/employee/api/rows/add", "")
	rec = call(t, c.HandleRowUpdateAPI, http.MethodPost, "/employee/api/rows/update", `{"employee_id":4,"fields":{"employee_id":0}}`)
	wantError(t, rec, http.StatusBadRequest, "invalid_employee_id")
	rec = call(t, c.HandleRowConfirmAPI, http.MethodPost, "/employee/api/rows/confirm",
		`{"employee_id":4,"fields":{"employee_id":2,"first_name":"A","department":"B"}}`)
	wantError(t, rec, http.StatusConflict, "EMPLOYEE_ID_CONFLICT")

	rec = call(t, c.HandleChangesCommitAPI, http.MethodPost, "/employee/api/changes/commit", "")
	wantError(t, rec, http.StatusUnprocessableEntity, "EMPLOYEE_REQUIRED_FIELDS_MISSING")

	for _, h := range []http.HandlerFunc{c.HandleRowsAPI, c.HandleRowSkillsAPI, c.HandleChangesAPI, c.HandleChangesHistoryAPI, c.HandleRowStylesAPI} {
		rec := call(t, h, http.MethodPost, "/x", "")
		wantError(t, rec, http.StatusMethodNotAllowed, "method_not_allowed")
	}
	for _, h := range []http.HandlerFunc{
		c.HandleRowAddAPI, c.HandleRowEditAPI, c.HandleRowUpdateAPI, c.HandleRowConfirmAPI,
		c.HandleRowDeleteAPI, c.HandleRowUndoAPI, c.HandleSkillDeleteAPI, c.HandleSkillUndoAPI,
		c.HandleChangesCommitAPI, c.HandleChangesCancelAPI,
	} {
		rec := call(t, h, http.MethodGet, "/x", "")
		wantError(t, rec, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

func TestEmployeesAPI_CommitSourceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "raised stable code", err: &pgconn.PgError{Message: "EMPLOYEE_LOCKED"}, status: http.StatusUnprocessableEntity, code: "EMPLOYEE_LOCKED"},
		{name: "primary key", err: &pgconn.PgError{Message: "duplicate key", ConstraintName: "employees_pkey"}, status: http.StatusUnprocessableEntity, code: "EMPLOYEE_ID_CONFLICT"},
		{name: "invalid input", err: &pgconn.PgError{Message: "bad", Code: "22P02"}, status: http.StatusBadRequest, code: "invalid_input"},
		{name: "row gone", err: ports.ErrRowGone, status: http.StatusConflict, code: "EMPLOYEE_ROW_GONE"},
		{name: "unknown", err: errors.New("connection reset"), status: http.StatusInternalServerError, code: "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			src := failingSource{
				EmployeeSource: persistence.NewEmployeeMemoryStore(persistence.SeedEmployees(2)),
				applyErr:       tc.err,
			}
			c := newTestController(t, src)
			c.Logger = log.New(&logs, "", 0)
			call(t, c.HandleRowDeleteAPI, http.MethodPost, "/employee/api/rows/delete", `{"employee_id":1}`)

			rec := call(t, c.HandleChangesCommitAPI, http.MethodPost, "/employee/api/changes/commit", "")
			wantError(t, rec, tc.status, tc.code)

			if tc.code == "internal_error" && !strings.Contains(logs.String(), "connection reset") {
				t.Fatalf("logs=%q", logs.String())
			}
			// The failed commit leaves the deletion pending.
			rec = call(t, c.HandleChangesAPI, http.MethodGet, "/employee/api/changes", "")
			if got := decode[struct {
				EditMode bool `json:"edit_mode"`
			}](t, rec); !got.EditMode {
				t.Fatal("expected pending changes after failed commit")
			}
		})
	}
}

func TestEmployeesAPI_HistoryAndStyles(t *testing.T) {
	c := newTestController(t, nil)
	rec := call(t, c.HandleChangesHistoryAPI, http.MethodGet, "/employee/api/changes/history?limit=x", "")
	wantError(t, rec, http.StatusBadRequest, "invalid_limit")
	rec = call(t, c.HandleChangesHistoryAPI, http.MethodGet, "/employee/api/changes/history", "")
	if got := decode[map[string][]types.ChangeSet](t, rec); got["changesets"] == nil || len(got["changesets"]) != 0 {
		t.Fatalf("got=%+v", got)
	}

	c.History = nil
	rec = call(t, c.HandleChangesHistoryAPI, http.MethodGet, "/employee/api/changes/history", "")
	wantError(t, rec, http.StatusNotFound, "history_unavailable")

	c.Styles = services.DefaultRowStyles()
	c.Styles[types.StatusAdded] = services.RowStyle{Background: "#00ff00"}
	rec = call(t, c.HandleRowStylesAPI, http.MethodGet, "/employee/api/row-styles", "")
	styles := decode[map[types.RowStatus]services.RowStyle](t, rec)
	if len(styles) != 6 || styles[types.StatusAdded].Background != "#00ff00" || styles[types.StatusServer].Background != "#ffffff" {
		t.Fatalf("styles=%+v", styles)
	}
}

func TestWriteError_TraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/employee/api/rows/add", nil)
	req.Header.Set("traceparent", "00-0123456789ABCDEF0123456789abcdef-0123456789abcdef-01")
	rec := httptest.NewRecorder()
	writeError(rec, req, http.StatusConflict, "EMPLOYEE_INVALID_TRANSITION", "x")

	env := decode[routing.ErrorEnvelope](t, rec)
	if env.TraceID != "0123456789abcdef0123456789abcdef" || env.Meta.Path != "/employee/api/rows/add" || env.Meta.Method != http.MethodPost {
		t.Fatalf("env=%+v", env)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type=%q", ct)
	}
}

func TestEmployeesAPI_Reload(t *testing.T) {
	source := persistence.NewEmployeeMemoryStore(persistence.SeedEmployees(3))
	c := newTestController(t, source)

	if err := source.ApplyChangeSet(context.Background(), types.ChangeSet{
		Added: []types.Employee{{EmployeeID: 10, FirstName: "Outside", Department: "Ops"}},
	}); err != nil {
		t.Fatal(err)
	}
	rec := call(t, c.HandleRowsReloadAPI, http.MethodPost, "/employee/api/rows/reload", "")
	if got := decode[map[string]int](t, rec); got["row_count"] != 4 {
		t.Fatalf("got=%v", got)
	}

	call(t, c.HandleRowDeleteAPI, http.MethodPost, "/employee/api/rows/delete", `{"employee_id":1}`)
	rec = call(t, c.HandleRowsReloadAPI, http.MethodPost, "/employee/api/rows/reload", "")
	wantError(t, rec, http.StatusConflict, "EMPLOYEE_PENDING_CHANGES")

	rec = call(t, c.HandleRowsReloadAPI, http.MethodGet, "/employee/api/rows/reload", "")
	wantError(t, rec, http.StatusMethodNotAllowed, "method_not_allowed")
}
