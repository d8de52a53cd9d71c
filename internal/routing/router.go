package routing

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
)

type Router struct {
	classifier *Classifier
	routes     map[string]map[string]routeEntry
	logger     *log.Logger
}

type routeEntry struct {
	rc      RouteClass
	handler http.Handler
}

func NewRouter(classifier *Classifier, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		classifier: classifier,
		routes:     make(map[string]map[string]routeEntry),
		logger:     logger,
	}
}

// Handle registers h for method on path. The pair must be allowlisted and
// the route class must match the allowlist entry.
func (r *Router) Handle(rc RouteClass, method string, path string, h http.Handler) error {
	if !r.classifier.Allowed(path, method) {
		return fmt.Errorf("routing: %s %s not in allowlist for %s", method, path, r.classifier.Entrypoint())
	}
	if got := r.classifier.Classify(path); got != rc {
		return fmt.Errorf("routing: %s route_class=%s, allowlist says %s", path, rc, got)
	}
	if r.routes[path] == nil {
		r.routes[path] = make(map[string]routeEntry)
	}
	if _, dup := r.routes[path][method]; dup {
		return fmt.Errorf("routing: %s %s registered twice", method, path)
	}

	r.routes[path][method] = routeEntry{
		rc: rc,
		handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Printf("routing: panic %s %s: %v\n%s", req.Method, req.URL.Path, rec, debug.Stack())
					WriteError(w, req, rc, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			h.ServeHTTP(w, req)
		}),
	}
	return nil
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	methods, ok := r.routes[req.URL.Path]
	if !ok {
		WriteError(w, req, r.classifier.Classify(req.URL.Path), http.StatusNotFound, "not_found", "not found")
		return
	}
	entry, ok := methods[req.Method]
	if !ok {
		w.Header().Set("Allow", allowHeader(methods))
		WriteError(w, req, entrypointClass(methods, r.classifier.Classify(req.URL.Path)), http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	entry.handler.ServeHTTP(w, req)
}

func entrypointClass(methods map[string]routeEntry, fallback RouteClass) RouteClass {
	for _, e := range methods {
		return e.rc
	}
	return fallback
}

func allowHeader(methods map[string]routeEntry) string {
	out := make([]string, 0, len(methods))
	for m := range methods {
		out = append(out, m)
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}
