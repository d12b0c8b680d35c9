package progress

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed flows/claim.yaml
var flowsFS embed.FS

// Flow is the static, ordered page configuration of one workflow.
type Flow struct {
	Name  string `yaml:"name"`
	Pages []Page `yaml:"pages"`
}

// ErrInvalidFlow is wrapped by every flow validation failure.
var ErrInvalidFlow = errors.New("invalid flow")

// ParseFlow decodes and validates a YAML flow definition.
func ParseFlow(data []byte) (Flow, error) {
	var f Flow
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Flow{}, fmt.Errorf("parse flow: %w", err)
	}
	if err := f.Validate(DefaultConditions()); err != nil {
		return Flow{}, err
	}
	return f, nil
}

// LoadFlow reads a flow file. An empty path returns the embedded claim flow.
func LoadFlow(path string) (Flow, error) {
	if path == "" {
		return DefaultClaimFlow(), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied configuration path
	if err != nil {
		return Flow{}, fmt.Errorf("read flow file: %w", err)
	}
	return ParseFlow(data)
}

// DefaultClaimFlow returns the embedded benefits application flow.
func DefaultClaimFlow() Flow {
	data, err := flowsFS.ReadFile("flows/claim.yaml")
	if err != nil {
		panic(fmt.Errorf("read embedded claim flow: %w", err))
	}
	f, err := ParseFlow(data)
	if err != nil {
		panic(fmt.Errorf("embedded claim flow: %w", err))
	}
	return f
}

// Validate checks that routes are unique and non-empty and that every
// page condition is known.
func (f Flow) Validate(conds Conditions) error {
	if len(f.Pages) == 0 {
		return fmt.Errorf("%w: no pages", ErrInvalidFlow)
	}
	seen := make(map[string]struct{}, len(f.Pages))
	for i, p := range f.Pages {
		route := strings.TrimSpace(p.Route)
		if route == "" {
			return fmt.Errorf("%w: page %d has no route", ErrInvalidFlow, i)
		}
		if _, dup := seen[route]; dup {
			return fmt.Errorf("%w: duplicate route %s", ErrInvalidFlow, route)
		}
		seen[route] = struct{}{}
		if p.Condition != "" {
			if _, ok := conds[p.Condition]; !ok {
				return fmt.Errorf("%w: route %s uses unknown condition %q", ErrInvalidFlow, route, p.Condition)
			}
		}
	}
	return nil
}

// PagesFor returns the pages whose step matches name, in flow order.
func (f Flow) PagesFor(step string) []Page {
	var out []Page
	for _, p := range f.Pages {
		if p.Step == step {
			out = append(out, p)
		}
	}
	return out
}

// Page returns the page registered for route.
func (f Flow) Page(route string) (Page, bool) {
	for _, p := range f.Pages {
		if p.Route == route {
			return p, true
		}
	}
	return Page{}, false
}

// Next returns the first reachable page after route. The second result is
// false when route is unknown or is the last reachable page.
func (f Flow) Next(route string, ctx Context, conds Conditions) (string, bool) {
	if conds == nil {
		conds = DefaultConditions()
	}
	found := false
	for _, p := range f.Pages {
		if found {
			if conds.Holds(p.Condition, ctx) {
				return p.Route, true
			}
			continue
		}
		if p.Route == route {
			found = true
		}
	}
	return "", false
}
