package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/crash"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fault"
)

var (
	demoWorkers    int
	demoPanicAfter time.Duration
	demoDuration   time.Duration
)

// Replaced in tests so the crash path does not end the test binary.
var demoExit = os.Exit

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a small worker pool that crashes on purpose",
	Long: `demo plays a host application: it installs the crash handler first,
then runs a pool of workers. With --panic-after one worker panics with a
wrapped error chain, which writes a crash log and exits the process.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoWorkers, "workers", 3, "number of workers")
	demoCmd.Flags().DurationVar(&demoPanicAfter, "panic-after", 2*time.Second,
		"make worker 0 panic after this long (0 disables)")
	demoCmd.Flags().DurationVar(&demoDuration, "duration", 0,
		"stop after this long (0 runs until interrupted)")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if demoWorkers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", demoWorkers)
	}
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	appCtx := cfg.AppContext()

	opts, err := crash.FromConfig(cfg.Crash, appCtx, logger)
	if err != nil {
		return err
	}
	crash.Install(appCtx, append(opts, crash.WithExitFunc(demoExit))...)
	defer crash.Recover()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if demoDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, demoDuration)
		defer cancel()
	}

	crash.GoNamed("heartbeat", func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logger.Debug("demo heartbeat")
			}
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	for i := range demoWorkers {
		g.Go(func() error {
			defer crash.Recover()
			return demoWorker(gctx, i, demoPanicAfter)
		})
	}
	logger.Info("demo running", "workers", demoWorkers, "panic_after", demoPanicAfter, "crash_dir", appCtx.CrashDir())
	return g.Wait()
}

func demoWorker(ctx context.Context, id int, panicAfter time.Duration) error {
	var fuse <-chan time.Time
	if id == 0 && panicAfter > 0 {
		fuse = time.After(panicAfter)
	}
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		case <-fuse:
			cause := fault.Wrap(fault.New("connection reset by peer"), "flushing batch")
			panic(fault.Wrap(cause, fmt.Sprintf("worker %d", id)))
		}
	}
}
