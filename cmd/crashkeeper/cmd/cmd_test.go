package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/crashlog"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
)

// isolate points HOME, the working directory and the storage root at fresh
// temp directories so no real configuration leaks into a test. It returns
// the root.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Chdir(t.TempDir())
	return filepath.Join(home, "root")
}

// execute runs the root command with args and returns everything it wrote.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		factsYAML, showRaw, showCopy = false, false, false
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeCrashLog stores a crash log under root as the crash handler would,
// stamped with at.
func writeCrashLog(t *testing.T, root string, at time.Time, message string) string {
	t.Helper()
	w := crashlog.NewWriter(filepath.Join(root, "crash"), nil,
		crashlog.WithClock(func() time.Time { return at }))
	path, err := w.WriteFile(diagnostics.NewFacts("versionName", "1.0"), fault.NewRecord("", message, nil, nil))
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(path, at, at))
	return path
}
