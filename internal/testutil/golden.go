// Package testutil holds helpers shared by package tests.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// Golden compares output against files under a testdata directory.
type Golden struct {
	t       *testing.T
	baseDir string
}

// NewGolden creates a golden file helper rooted at baseDir.
func NewGolden(t *testing.T, baseDir string) *Golden {
	return &Golden{t: t, baseDir: baseDir}
}

// Assert compares actual byte-for-byte against <baseDir>/<name>.golden.
// Run the tests with -update to rewrite the file instead.
func (g *Golden) Assert(name string, actual []byte) {
	g.t.Helper()

	path := filepath.Join(g.baseDir, name+".golden")
	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			g.t.Fatalf("creating golden directory: %v", err)
		}
		if err := os.WriteFile(path, actual, 0o600); err != nil {
			g.t.Fatalf("writing golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		g.t.Fatalf("reading golden file %s: %v", path, err)
	}
	if string(actual) != string(expected) {
		g.t.Errorf("output mismatch for %s:\n--- expected ---\n%q\n--- actual ---\n%q",
			name, expected, actual)
	}
}
