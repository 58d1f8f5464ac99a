package crash

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/app"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/crashlog"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/notify"
)

// Defaults for the crash path.
const (
	DefaultGracePeriod   = time.Second
	DefaultExitCode      = 1
	DefaultNotifyMessage = "an unhandled error occurred"
)

// Collector gathers the facts written ahead of a fault.
type Collector interface {
	Collect(appCtx *app.Context) *diagnostics.Facts
}

// LogWriter persists a crash log and returns its path, or "" when nothing
// was written.
type LogWriter interface {
	Write(facts *diagnostics.Facts, rec *fault.Record) string
}

// Handler is the crash-path FaultHandler. A non-nil fault is fatal: once
// HandleFault starts the crash path the process exits, whatever happens in
// between.
type Handler struct {
	app           *app.Context
	logger        *logging.Logger
	notifier      notify.Notifier
	message       string
	collector     Collector
	writer        LogWriter
	probe         crashlog.StorageProbe
	grace         time.Duration
	exitCode      int
	exit          func(int)
	sleep         func(time.Duration)
	maxDepth      int
	runtimeOutput bool

	installOnce sync.Once
	previous    atomic.Pointer[handlerBox]

	// owner is the crashing goroutine's ID plus one; zero while idle.
	owner atomic.Uint64
	done  chan struct{}
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the fallback logger used to report problems on the crash
// path.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithNotifier sets the notifier. Pass notify.Nop to disable notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(h *Handler) { h.notifier = n }
}

// WithNotifyMessage sets the text shown to the user.
func WithNotifyMessage(msg string) Option {
	return func(h *Handler) { h.message = msg }
}

// WithCollector replaces the diagnostic collector.
func WithCollector(c Collector) Option {
	return func(h *Handler) { h.collector = c }
}

// WithWriter replaces the crash log writer.
func WithWriter(w LogWriter) Option {
	return func(h *Handler) { h.writer = w }
}

// WithStorageProbe gates the default writer on storage availability.
func WithStorageProbe(p crashlog.StorageProbe) Option {
	return func(h *Handler) { h.probe = p }
}

// WithGracePeriod sets how long the crash path waits before exiting.
func WithGracePeriod(d time.Duration) Option {
	return func(h *Handler) {
		if d >= 0 {
			h.grace = d
		}
	}
}

// WithExitCode sets the exit status. Non-positive codes are ignored so a
// crash never reports success.
func WithExitCode(code int) Option {
	return func(h *Handler) {
		if code > 0 {
			h.exitCode = code
		}
	}
}

// WithExitFunc replaces os.Exit.
func WithExitFunc(exit func(int)) Option {
	return func(h *Handler) { h.exit = exit }
}

// WithSleep replaces time.Sleep for the grace period.
func WithSleep(sleep func(time.Duration)) Option {
	return func(h *Handler) { h.sleep = sleep }
}

// WithMaxCauseDepth bounds how many causes are recorded per fault.
func WithMaxCauseDepth(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxDepth = n
		}
	}
}

// WithRuntimeCrashOutput also mirrors fatal runtime errors, which cannot be
// recovered, into <root>/crash/runtime-crash.log when the handler is
// installed.
func WithRuntimeCrashOutput(enabled bool) Option {
	return func(h *Handler) { h.runtimeOutput = enabled }
}

// New creates a handler for appCtx. It does not install it.
func New(appCtx *app.Context, opts ...Option) *Handler {
	h := &Handler{
		app:      appCtx,
		logger:   logging.New(logging.DefaultConfig()),
		message:  DefaultNotifyMessage,
		grace:    DefaultGracePeriod,
		exitCode: DefaultExitCode,
		exit:     os.Exit,
		sleep:    time.Sleep,
		maxDepth: fault.DefaultMaxCauseDepth,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("crash")
	if h.exit == nil {
		h.exit = os.Exit
	}
	if h.sleep == nil {
		h.sleep = time.Sleep
	}

	if h.notifier == nil {
		h.notifier = notify.Fallback(
			notify.NewToast(os.Stderr, notify.DefaultDuration),
			notify.LogNotifier{Logger: h.logger},
		)
	}
	if h.collector == nil {
		h.collector = diagnostics.NewCollector(h.logger)
	}
	if h.writer == nil && appCtx != nil {
		var wopts []crashlog.Option
		if h.probe != nil {
			wopts = append(wopts, crashlog.WithStorageProbe(h.probe))
		}
		h.writer = crashlog.NewWriter(appCtx.CrashDir(), h.logger, wopts...)
	}
	return h
}

var (
	installOnce sync.Once
	installed   *Handler
)

// Install creates the process-wide handler on first use and makes it the
// default fault handler. Later calls return the same handler and ignore
// their arguments.
func Install(appCtx *app.Context, opts ...Option) *Handler {
	installOnce.Do(func() {
		installed = New(appCtx, opts...).Install()
	})
	return installed
}

// Install registers h as the default fault handler, keeping the handler it
// replaces for nil faults. Only the first call has any effect.
func (h *Handler) Install() *Handler {
	h.installOnce.Do(func() {
		if h.runtimeOutput {
			h.mirrorRuntimeCrashes()
		}
		h.previous.Store(&handlerBox{h: SetDefaultHandler(h)})
	})
	return h
}

// Previous returns the handler that was the default when h was installed.
func (h *Handler) Previous() FaultHandler {
	if box := h.previous.Load(); box != nil {
		return box.h
	}
	return nil
}

// HandleFault implements FaultHandler.
func (h *Handler) HandleFault(g Goroutine, rec *fault.Record) {
	if rec == nil {
		if prev := h.Previous(); prev != nil {
			prev.HandleFault(g, nil)
		}
		return
	}

	log := h.logger.WithGoroutine(g.ID)
	if g.Name != "" {
		log = log.With("goroutine_name", g.Name)
	}
	if !h.owner.CompareAndSwap(0, g.ID+1) {
		log.Error("fault raised while crashing", "fault", rec.Title())
		if g.ID != 0 && h.owner.Load() == g.ID+1 {
			return
		}
		<-h.done
		return
	}

	defer close(h.done)
	defer h.exit(h.exitCode)

	log.Error("unhandled fault", "fault", rec.Title())

	h.step(log, "notify", h.notifyAsync)

	var facts *diagnostics.Facts
	h.step(log, "collect", func() {
		facts = h.collector.Collect(h.app)
	})
	h.step(log, "write", func() {
		if h.writer == nil {
			log.Warn("crash log skipped", "error", diagnostics.ErrNoAppContext)
			return
		}
		h.writer.Write(facts, rec)
	})

	h.sleep(h.grace)
}

// step runs one crash path step, containing any panic it raises.
func (h *Handler) step(log *logging.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("crash path step failed", "step", name, "panic", r)
		}
	}()
	fn()
}

func (h *Handler) notifyAsync() {
	if h.notifier == nil {
		return
	}
	n, msg, log := h.notifier, h.message, h.logger
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Debug("notification failed", "panic", r)
			}
		}()
		if err := n.Notify(context.Background(), msg); err != nil {
			log.Debug("notification failed", "error", err)
		}
	}()
}
