package crash

import (
	"fmt"
	"os"
	"time"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/app"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/config"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/crashlog"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/notify"
)

// FromConfig translates the crash section of the configuration into handler
// options.
func FromConfig(cfg config.CrashConfig, appCtx *app.Context, logger *logging.Logger) ([]Option, error) {
	grace, err := cfg.GraceDuration()
	if err != nil {
		return nil, fmt.Errorf("crash config: %w", err)
	}
	display, err := cfg.NotifyDisplayDuration()
	if err != nil {
		return nil, fmt.Errorf("crash config: %w", err)
	}

	display = displayWithin(display, grace)

	opts := []Option{
		WithLogger(logger),
		WithGracePeriod(grace),
		WithExitCode(cfg.ExitCode),
		WithMaxCauseDepth(cfg.MaxCauseDepth),
		WithRuntimeCrashOutput(cfg.RuntimeOutput && appCtx != nil),
	}
	if cfg.NotifyMessage != "" {
		opts = append(opts, WithNotifyMessage(cfg.NotifyMessage))
	}

	if cfg.Notify {
		var fallback notify.Notifier = notify.Nop
		if logger != nil {
			fallback = notify.LogNotifier{Logger: logger}
		}
		opts = append(opts, WithNotifier(notify.Fallback(notify.NewToast(os.Stderr, display), fallback)))
	} else {
		opts = append(opts, WithNotifier(notify.Nop))
	}

	if cfg.RequireMountedStorage {
		opts = append(opts, WithStorageProbe(crashlog.MountProbe{}))
	}
	return opts, nil
}

// displayWithin caps the toast so it is gone before the grace period ends;
// a program killed mid-render leaves the terminal cursor hidden.
func displayWithin(display, grace time.Duration) time.Duration {
	if grace > 0 && (display <= 0 || display > grace) {
		return grace
	}
	return display
}
