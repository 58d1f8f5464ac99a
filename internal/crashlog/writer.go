// Package crashlog renders crash logs and persists them, one file per crash,
// under the application's crash directory.
package crashlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fsutil"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

// File naming. The hour is the 12-hour clock without an AM/PM marker, so a
// morning and an evening crash in the same minute and second share a name.
const (
	FilePrefix = "crash-"
	FileSuffix = ".log"
	timeLayout = "2006-01-02-03-04-05"
)

// ErrStorageUnavailable is returned when the storage probe rejects the
// crash directory.
var ErrStorageUnavailable = errors.New("crash storage unavailable")

// FileName returns the crash log name for a capture time.
func FileName(t time.Time) string {
	return FilePrefix + t.Format(timeLayout) + FileSuffix
}

// Writer persists crash logs.
type Writer struct {
	dir       string
	perm      os.FileMode
	probe     StorageProbe
	now       func() time.Time
	sanitizer *logging.Sanitizer
	logger    *logging.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithStorageProbe sets the storage gate. Defaults to AlwaysAvailable.
func WithStorageProbe(p StorageProbe) Option {
	return func(w *Writer) { w.probe = p }
}

// WithClock sets the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithSanitizer redacts credentials from the rendered log before it is
// written.
func WithSanitizer(s *logging.Sanitizer) Option {
	return func(w *Writer) { w.sanitizer = s }
}

// WithPermissions sets the crash file mode. Defaults to 0600.
func WithPermissions(perm os.FileMode) Option {
	return func(w *Writer) { w.perm = perm }
}

// NewWriter creates a writer for dir, typically app.Context.CrashDir().
func NewWriter(dir string, logger *logging.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	w := &Writer{
		dir:    dir,
		perm:   0o600,
		probe:  AlwaysAvailable,
		now:    time.Now,
		logger: logger.WithComponent("crashlog"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the crash directory.
func (w *Writer) Dir() string { return w.dir }

// Write renders and persists a crash log and returns its path. It never
// fails: when storage is unavailable or the write errors, the problem is
// logged and "" is returned.
func (w *Writer) Write(facts *diagnostics.Facts, rec *fault.Record) string {
	path, err := w.WriteFile(facts, rec)
	switch {
	case errors.Is(err, ErrStorageUnavailable):
		w.logger.Warn("crash log skipped", "dir", w.dir, "error", err)
		return ""
	case err != nil:
		w.logger.Error("writing crash log", "dir", w.dir, "error", err)
		return ""
	}
	w.logger.Info("crash log written", "path", path)
	return path
}

// WriteFile is Write with the error returned instead of logged.
func (w *Writer) WriteFile(facts *diagnostics.Facts, rec *fault.Record) (string, error) {
	if w.probe != nil && !w.probe.Available(w.dir) {
		return "", fmt.Errorf("%w: %s", ErrStorageUnavailable, w.dir)
	}

	data := Render(facts, rec)
	if w.sanitizer != nil {
		data = []byte(w.sanitizer.Sanitize(string(data)))
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating crash dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(w.now()))
	err := fsutil.WriteScoped(path, w.perm, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
