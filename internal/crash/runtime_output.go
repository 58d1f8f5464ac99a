package crash

import (
	"os"
	"path/filepath"
	"runtime/debug"
)

// RuntimeCrashFile receives fatal runtime errors (concurrent map writes,
// stack exhaustion, out of memory) that never reach Recover.
const RuntimeCrashFile = "runtime-crash.log"

func (h *Handler) mirrorRuntimeCrashes() {
	if h.app == nil {
		h.logger.Warn("runtime crash output disabled", "error", "no application context")
		return
	}
	dir := h.app.CrashDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		h.logger.Warn("runtime crash output disabled", "dir", dir, "error", err)
		return
	}
	path := filepath.Join(dir, RuntimeCrashFile)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		h.logger.Warn("runtime crash output disabled", "path", path, "error", err)
		return
	}
	// The runtime keeps its own duplicate of the descriptor.
	defer f.Close()
	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err != nil {
		h.logger.Warn("runtime crash output disabled", "path", path, "error", err)
		return
	}
	h.logger.Debug("mirroring runtime crashes", "path", path)
}
