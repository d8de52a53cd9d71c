package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jacksonlee411/employee-grid/internal/routing"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/ports"
	"github.com/jacksonlee411/employee-grid/modules/employee/presentation/controllers"
	"github.com/jacksonlee411/employee-grid/modules/employee/services"
)

func NewHandler() (http.Handler, error) {
	return NewHandlerWithOptions(HandlerOptions{})
}

type HandlerOptions struct {
	Source         ports.EmployeeSource
	Grid           *GridConfig
	Logger         *log.Logger
	NewChangeSetID func() (string, error)
	Now            func() time.Time
}

func NewHandlerWithOptions(opts HandlerOptions) (http.Handler, error) {
	allowlistPath := os.Getenv("ALLOWLIST_PATH")
	if allowlistPath == "" {
		p, err := findConfigFile("config/routing/allowlist.yaml")
		if err != nil {
			return nil, err
		}
		allowlistPath = p
	}

	a, err := routing.LoadAllowlist(allowlistPath)
	if err != nil {
		return nil, err
	}

	classifier, err := routing.NewClassifier(a, "server")
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	var grid GridConfig
	if opts.Grid != nil {
		grid = *opts.Grid
	} else {
		gridPath := os.Getenv("GRID_CONFIG_PATH")
		if gridPath == "" {
			p, err := findConfigFile("config/grid.yaml")
			if err != nil {
				return nil, err
			}
			gridPath = p
		}
		grid, err = LoadGridConfig(gridPath)
		if err != nil {
			return nil, err
		}
	}

	validator, err := services.NewRequiredFieldValidator(grid.RequiredFields)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	source := opts.Source
	if source == nil {
		source, err = employeeSourceFromEnv(ctx, grid)
		if err != nil {
			return nil, err
		}
	}

	session, err := services.NewEditSession(ctx, source, services.SessionOptions{
		Validator:      validator,
		Logger:         logger,
		NewChangeSetID: opts.NewChangeSetID,
		Now:            opts.Now,
	})
	if err != nil {
		return nil, err
	}

	employees := &controllers.EmployeesController{
		Session:     session,
		Styles:      grid.RowStyles,
		MaxPageSize: grid.MaxPageSize,
		Logger:      logger,
	}
	if h, ok := source.(ports.ChangeSetHistory); ok {
		employees.History = h
	}

	health := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	router := routing.NewRouter(classifier, logger)
	routes := []struct {
		rc      routing.RouteClass
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{routing.RouteClassOps, http.MethodGet, "/health", health},
		{routing.RouteClassOps, http.MethodGet, "/healthz", health},
		{routing.RouteClassInternalAPI, http.MethodGet, "/employee/api/rows", employees.HandleRowsAPI},
		{routing.RouteClassInternalAPI, http.MethodGet, "/employee/api/rows/skills", employees.HandleRowSkillsAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/rows/reload", employees.HandleRowsReloadAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/rows/add", employees.HandleRowAddAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/rows/edit", employees.HandleRowEditAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/rows/update", employees.HandleRowUpdateAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/rows/confirm", employees.HandleRowConfirmAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/rows/delete", employees.HandleRowDeleteAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/rows/undo", employees.HandleRowUndoAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/skills/delete", employees.HandleSkillDeleteAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/skills/undo", employees.HandleSkillUndoAPI},
		{routing.RouteClassInternalAPI, http.MethodGet, "/employee/api/changes", employees.HandleChangesAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/changes/commit", employees.HandleChangesCommitAPI},
		{routing.RouteClassInternalAPI, http.MethodPost, "/employee/api/changes/cancel", employees.HandleChangesCancelAPI},
		{routing.RouteClassInternalAPI, http.MethodGet, "/employee/api/changes/history", employees.HandleChangesHistoryAPI},
		{routing.RouteClassInternalAPI, http.MethodGet, "/employee/api/row-styles", employees.HandleRowStylesAPI},
	}
	for _, rt := range routes {
		if err := router.Handle(rt.rc, rt.method, rt.path, rt.handler); err != nil {
			return nil, err
		}
	}
	return router, nil
}

func MustNewHandler() http.Handler {
	h, err := NewHandler()
	if err != nil {
		panic(errors.New("server: failed to build handler: " + err.Error()))
	}
	return h
}

// findConfigFile walks up from the working directory so tests run from any
// package directory find the repo config.
func findConfigFile(rel string) (string, error) {
	path := rel
	for range 8 {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = filepath.Join("..", path)
	}
	return "", errors.New("server: " + rel + " not found")
}
