package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// BlockedDir returns a directory path that can never be created because one
// of its parents is a regular file. Unlike permission bits this also holds
// when tests run as root.
func BlockedDir(t *testing.T) string {
	t.Helper()
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(parent, []byte("x"), 0o600); err != nil {
		t.Fatalf("creating blocking file: %v", err)
	}
	return filepath.Join(parent, "crash")
}

// ReadDirNames lists the names in dir, failing the test on error. A missing
// directory yields no names.
func ReadDirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
