// Package testutil holds import guards shared by the architecture tests of
// the portal packages.
package testutil

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Forbidden matches import paths a package must not depend on.
type Forbidden func(importPath string) bool

// InternalImportForbidden matches any path with an internal/ segment.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/")
}

// InfraImportForbidden matches the concrete storage and blob backends.
func InfraImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/infra/") || strings.HasSuffix(path, "/internal/infra")
}

// PrefixForbidden matches import paths equal to, or nested under, any of prefixes.
func PrefixForbidden(prefixes ...string) Forbidden {
	return func(path string) bool {
		for _, p := range prefixes {
			if path == p || strings.HasPrefix(path, p+"/") {
				return true
			}
		}
		return false
	}
}

// AnyForbidden matches when any of preds does.
func AnyForbidden(preds ...Forbidden) Forbidden {
	return func(path string) bool {
		for _, p := range preds {
			if p(path) {
				return true
			}
		}
		return false
	}
}

// AssertNoDirectImports fails when a non-test file in dir imports a
// forbidden path. Subdirectories are not scanned.
func AssertNoDirectImports(t testing.TB, dir string, forbidden Forbidden, reason string) {
	t.Helper()
	viols, err := directImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("scan imports of %s: %v", dir, err)
	}
	report(t, "direct imports", reason, viols)
}

// AssertNoTransitiveDependency fails when `go list -deps pattern` lists a
// forbidden package. Skipped in -short mode.
func AssertNoTransitiveDependency(t testing.TB, pattern string, forbidden Forbidden, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skip("go list -deps skipped in short mode")
	}
	out, err := goListDeps(pattern)
	if err != nil {
		t.Fatalf("go list -deps %s: %v\n%s", pattern, err, out)
	}
	report(t, "transitive dependency", reason, matching(strings.Split(string(out), "\n"), forbidden))
}

var goListDeps = func(pattern string) ([]byte, error) {
	return exec.Command("go", "list", "-deps", pattern).CombinedOutput() // #nosec G204 -- fixed binary, test-supplied pattern
}

func matching(paths []string, forbidden Forbidden) []string {
	var out []string
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" && forbidden(p) {
			out = append(out, p)
		}
	}
	return out
}

func directImportViolations(dir string, forbidden Forbidden) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range f.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if forbidden(path) {
				viols = append(viols, fmt.Sprintf("%s (in %s)", path, name))
			}
		}
	}
	sort.Strings(viols)
	return viols, nil
}

type fatalf interface {
	Fatalf(format string, args ...any)
}

func report(t fatalf, kind, reason string, viols []string) {
	if len(viols) == 0 {
		return
	}
	t.Fatalf("forbidden %s (%s):\n%s", kind, reason, strings.Join(viols, "\n"))
}
