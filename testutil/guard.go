// Package testutil holds helpers the package tests use to enforce import
// boundaries between the facade packages and the infra driver tree.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoTransitiveDependency resolves the full dependency closure of
// pattern via `go list -deps` and fails when any path in it matches the
// forbidden predicate. reason is included in the failure message.
func AssertNoTransitiveDependency(t testing.TB, pattern string, forbidden func(path string) bool, reason string) {
	t.Helper()
	offenders, out, err := dependencyClosureOffenders(pattern, forbidden)
	if err != nil {
		t.Fatalf("go list failed: %v\n%s", err, string(out))
	}
	failOnOffenders(t, "transitive dependency", reason, offenders)
}

// AssertNoDirectImports parses the import blocks of every non-test .go file
// in dir and fails when any import path matches the forbidden predicate.
// Build tags are not evaluated; every file in the directory is checked.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	offenders, err := directImportOffenders(dir, forbidden)
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
	}
	failOnOffenders(t, "direct import", reason, offenders)
}

// InfraImportForbidden matches import paths inside the infra driver tree.
// Only the facade packages may depend on those; everything else goes through
// the driver interfaces.
func InfraImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/infra/")
}

var goListDeps = func(pattern string) ([]byte, error) {
	cmd := exec.Command("go", "list", "-deps", pattern)
	return cmd.CombinedOutput()
}

func dependencyClosureOffenders(pattern string, forbidden func(path string) bool) ([]string, []byte, error) {
	out, err := goListDeps(pattern)
	if err != nil {
		return nil, out, err
	}
	var offenders []string
	for _, line := range strings.Split(string(out), "\n") {
		pkg := strings.TrimSpace(line)
		if pkg != "" && forbidden(pkg) {
			offenders = append(offenders, pkg)
		}
	}
	return offenders, out, nil
}

func directImportOffenders(dir string, forbidden func(importPath string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var offenders []string
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
			ip := strings.Trim(imp.Path.Value, "\"")
			if forbidden(ip) {
				offenders = append(offenders, ip+" (in "+name+")")
			}
		}
	}
	return offenders, nil
}

type fatalLogger interface {
	Fatalf(format string, args ...any)
}

func failOnOffenders(t fatalLogger, kind, reason string, offenders []string) {
	if len(offenders) > 0 {
		t.Fatalf("forbidden %s (%s):\n%s", kind, reason, strings.Join(offenders, "\n"))
	}
}
