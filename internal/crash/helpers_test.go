package crash

import (
	"sync"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/app"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/notify"
)

type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.codes = append(e.codes, code)
}

func (e *exitRecorder) Codes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.codes...)
}

// recordingHandler is a FaultHandler with identity, so tests can check which
// handler was captured.
type recordingHandler struct {
	mu    sync.Mutex
	calls []*fault.Record
}

func (r *recordingHandler) HandleFault(_ Goroutine, rec *fault.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, rec)
}

func (r *recordingHandler) Calls() []*fault.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*fault.Record(nil), r.calls...)
}

type collectorFunc func(*app.Context) *diagnostics.Facts

func (f collectorFunc) Collect(a *app.Context) *diagnostics.Facts { return f(a) }

type writerFunc func(*diagnostics.Facts, *fault.Record) string

func (f writerFunc) Write(facts *diagnostics.Facts, rec *fault.Record) string { return f(facts, rec) }

func testAppContext(t *testing.T) *app.Context {
	t.Helper()
	return &app.Context{Name: "demo", VersionName: "1.0", VersionCode: 3, Root: t.TempDir()}
}

// newTestHandler builds a handler that records exits instead of exiting,
// never sleeps and only records the version facts.
func newTestHandler(t *testing.T, opts ...Option) (*Handler, *exitRecorder, *app.Context) {
	t.Helper()
	appCtx := testAppContext(t)
	ex := &exitRecorder{}
	base := []Option{
		WithLogger(logging.NewNop()),
		WithNotifier(notify.Nop),
		WithCollector(diagnostics.NewCollector(logging.NewNop(),
			diagnostics.WithSources(),
			diagnostics.WithIDGenerator(nil),
		)),
		WithExitFunc(ex.exit),
		WithSleep(func(time.Duration) {}),
	}
	return New(appCtx, append(base, opts...)...), ex, appCtx
}

// useDefaultHandler swaps the process-wide default handler for the duration
// of a test.
func useDefaultHandler(t *testing.T, h FaultHandler) {
	t.Helper()
	prev := SetDefaultHandler(h)
	t.Cleanup(func() { SetDefaultHandler(prev) })
}
