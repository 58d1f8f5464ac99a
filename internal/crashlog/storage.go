package crashlog

import (
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// StorageProbe reports whether the storage holding path can take writes.
type StorageProbe interface {
	Available(path string) bool
}

// StorageProbeFunc adapts a function to StorageProbe.
type StorageProbeFunc func(path string) bool

// Available calls f(path).
func (f StorageProbeFunc) Available(path string) bool { return f(path) }

// AlwaysAvailable is the probe for hosts without a notion of removable or
// unmounted storage.
var AlwaysAvailable StorageProbe = StorageProbeFunc(func(string) bool { return true })

// MountProbe checks that the filesystem holding path is mounted and
// readable by asking for its usage statistics. Paths that do not exist yet
// are checked through their nearest existing ancestor.
type MountProbe struct{}

// Available implements StorageProbe.
func (MountProbe) Available(path string) bool {
	dir, ok := existingAncestor(path)
	if !ok {
		return false
	}
	usage, err := disk.Usage(dir)
	if err != nil {
		return false
	}
	return usage.Total > 0
}

func existingAncestor(path string) (string, bool) {
	dir := filepath.Clean(path)
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
