package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/crashlog"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fsutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List crash logs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.AppContext().CrashDir()
	entries, err := crashLogs(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no crash logs in %s\n", dir)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.Size, e.ModTime.Format(time.DateTime))
	}
	return w.Flush()
}

// crashLogs lists the crash logs in dir. A missing directory holds none.
func crashLogs(dir string) ([]fsutil.Entry, error) {
	entries, err := fsutil.ListFiles(dir, crashlog.FilePrefix, crashlog.FileSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing crash logs: %w", err)
	}
	return entries, nil
}
