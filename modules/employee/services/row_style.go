package services

import (
	"fmt"
	"strings"

	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
)

type RowStyle struct {
	Background string `json:"background" yaml:"background"`
}

type RowStyles map[types.RowStatus]RowStyle

const defaultBackground = "#ffffff"

func DefaultRowStyles() RowStyles {
	return RowStyles{
		types.StatusServer:      {Background: defaultBackground},
		types.StatusBeingAdded:  {Background: "#fff3cd"},
		types.StatusAdded:       {Background: "#d4edda"},
		types.StatusBeingEdited: {Background: "#d1ecf1"},
		types.StatusEdited:      {Background: "#cce5ff"},
		types.StatusDeleted:     {Background: "#f8d7da"},
	}
}

// For maps a row status to its background. Unknown statuses render like
// server rows.
func (s RowStyles) For(status types.RowStatus) RowStyle {
	if st, ok := s[status]; ok && st.Background != "" {
		return st
	}
	return RowStyle{Background: defaultBackground}
}

// Validate requires one distinct background per status.
func (s RowStyles) Validate() error {
	seen := make(map[string]types.RowStatus, len(types.AllStatuses))
	for _, st := range types.AllStatuses {
		style, ok := s[st]
		if !ok || strings.TrimSpace(style.Background) == "" {
			return fmt.Errorf("row styles: missing background for %s", st)
		}
		bg := strings.ToLower(strings.TrimSpace(style.Background))
		if other, dup := seen[bg]; dup {
			return fmt.Errorf("row styles: %s and %s share background %s", other, st, bg)
		}
		seen[bg] = st
	}
	for st := range s {
		if !st.Valid() {
			return fmt.Errorf("row styles: unknown status %q", st)
		}
	}
	return nil
}
