package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/crashlog"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the path of every new crash log until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.AppContext().CrashDir()
	logger.Info("watching for crash logs", "dir", dir)

	out := cmd.OutOrStdout()
	return watchCrashes(cmd.Context(), dir, logger, nil, func(path string) {
		fmt.Fprintln(out, path)
	})
}

// watchCrashes reports each crash log that appears in dir until ctx is
// done. ready, when not nil, is closed once the watch is in place.
func watchCrashes(ctx context.Context, dir string, logger *logging.Logger, ready chan<- struct{}, onCrash func(path string)) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating crash dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Crash logs are renamed into place, which shows up as a create.
			if !ev.Has(fsnotify.Create) || !isCrashLog(ev.Name) {
				continue
			}
			onCrash(ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "dir", dir, "error", err)
		}
	}
}

func isCrashLog(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, crashlog.FilePrefix) && strings.HasSuffix(name, crashlog.FileSuffix)
}
