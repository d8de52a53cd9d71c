package routing

import (
	"errors"
	"slices"
	"strings"
)

type RouteClass string

const (
	RouteClassUI          RouteClass = "ui"
	RouteClassInternalAPI RouteClass = "internal_api"
	RouteClassOps         RouteClass = "ops"
	RouteClassStatic      RouteClass = "static"
)

func (rc RouteClass) valid() bool {
	switch rc {
	case RouteClassUI, RouteClassInternalAPI, RouteClassOps, RouteClassStatic:
		return true
	default:
		return false
	}
}

// Classifier answers route class and method questions for one entrypoint.
// Paths outside the allowlist fall back to prefix rules.
type Classifier struct {
	entrypoint string
	routes     map[string]Route
}

func NewClassifier(a Allowlist, entrypoint string) (*Classifier, error) {
	ep, ok := a.Entrypoints[entrypoint]
	if !ok {
		return nil, errors.New("allowlist: missing entrypoint")
	}
	if len(ep.Routes) == 0 {
		return nil, errors.New("allowlist: entrypoint routes empty")
	}

	routes := make(map[string]Route, len(ep.Routes))
	for _, r := range ep.Routes {
		if r.Path == "" || r.RouteClass == "" {
			return nil, errors.New("allowlist: invalid route")
		}
		routes[r.Path] = r
	}
	return &Classifier{entrypoint: entrypoint, routes: routes}, nil
}

func (c *Classifier) Entrypoint() string {
	return c.entrypoint
}

func (c *Classifier) Classify(path string) RouteClass {
	if r, ok := c.routes[path]; ok {
		return RouteClass(r.RouteClass)
	}

	switch {
	case isModuleInternalAPI(path):
		return RouteClassInternalAPI
	case path == "/health" || path == "/healthz":
		return RouteClassOps
	case hasPrefixSegment(path, "/assets") || hasPrefixSegment(path, "/static"):
		return RouteClassStatic
	default:
		return RouteClassUI
	}
}

// Allowed reports whether the allowlist admits method on path.
func (c *Classifier) Allowed(path, method string) bool {
	r, ok := c.routes[path]
	return ok && slices.Contains(r.Methods, method)
}

// Methods returns the allowlisted methods for path, nil when unlisted.
func (c *Classifier) Methods(path string) []string {
	r, ok := c.routes[path]
	if !ok {
		return nil
	}
	return slices.Clone(r.Methods)
}

func hasPrefixSegment(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func isModuleInternalAPI(path string) bool {
	// /{module}/api/*
	// segment-boundary: module must be a single segment.
	if !strings.HasPrefix(path, "/") {
		return false
	}
	rest := strings.TrimPrefix(path, "/")
	module, after, ok := strings.Cut(rest, "/")
	if !ok || module == "" {
		return false
	}
	return hasPrefixSegment("/"+after, "/api")
}
