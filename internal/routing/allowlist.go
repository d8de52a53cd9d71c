package routing

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type Allowlist struct {
	Version     int                   `yaml:"version"`
	Entrypoints map[string]Entrypoint `yaml:"entrypoints"`
}

type Entrypoint struct {
	Routes []Route `yaml:"routes"`
}

type Route struct {
	Path       string   `yaml:"path"`
	Methods    []string `yaml:"methods"`
	RouteClass string   `yaml:"route_class"`
}

var knownMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

func ParseAllowlistYAML(b []byte) (Allowlist, error) {
	var a Allowlist
	if err := yaml.Unmarshal(b, &a); err != nil {
		return Allowlist{}, err
	}
	if a.Version != 1 {
		return Allowlist{}, errors.New("allowlist: unsupported version")
	}
	if a.Entrypoints == nil {
		return Allowlist{}, errors.New("allowlist: missing entrypoints")
	}
	for name, ep := range a.Entrypoints {
		if err := ep.validate(); err != nil {
			return Allowlist{}, fmt.Errorf("allowlist: entrypoint %s: %w", name, err)
		}
	}
	return a, nil
}

func LoadAllowlist(path string) (Allowlist, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Allowlist{}, err
	}
	return ParseAllowlistYAML(b)
}

func (ep Entrypoint) validate() error {
	seen := make(map[string]bool, len(ep.Routes))
	for _, r := range ep.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("route %q: path must start with /", r.Path)
		}
		if seen[r.Path] {
			return fmt.Errorf("route %q: duplicate path", r.Path)
		}
		seen[r.Path] = true
		if !RouteClass(r.RouteClass).valid() {
			return fmt.Errorf("route %q: unknown route_class %q", r.Path, r.RouteClass)
		}
		if len(r.Methods) == 0 {
			return fmt.Errorf("route %q: methods empty", r.Path)
		}
		for _, m := range r.Methods {
			if !slices.Contains(knownMethods, m) {
				return fmt.Errorf("route %q: unknown method %q", r.Path, m)
			}
		}
	}
	return nil
}
