// Package app holds the application-level context a host hands to the crash
// handler at startup.
package app

import (
	"os"
	"path/filepath"
)

// Context describes the running application. It is created once by the host
// bootstrap and treated as read-only afterwards.
type Context struct {
	Name        string
	VersionName string
	VersionCode int

	// Root is the application's private storage root. Crash logs go to
	// Root/crash.
	Root string
}

// CrashDir returns the directory crash logs are written to.
func (c *Context) CrashDir() string {
	return filepath.Join(c.Root, "crash")
}

// DefaultRoot returns the per-user data directory for an application:
// $XDG_DATA_HOME/<name>, falling back to ~/.local/share/<name> and finally
// to a directory under the system temp dir.
func DefaultRoot(name string) string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, name)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", name)
	}
	return filepath.Join(os.TempDir(), name)
}
