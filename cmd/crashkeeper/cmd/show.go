package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/clip"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/fsutil"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

var (
	showRaw  bool
	showCopy bool
)

var errNoCrashLogs = errors.New("no crash logs found")

var showCmd = &cobra.Command{
	Use:   "show [query]",
	Short: "Print a crash log (the latest, or the best match for query)",
	Long: `Print a crash log. Without a query the newest log is shown; otherwise
the log whose file name best matches the query, e.g. 'show 10-17' or
'show 0305'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the file as is, without terminal rendering")
	showCmd.Flags().BoolVar(&showCopy, "copy", false, "also copy the log to the clipboard")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	entries, err := crashLogs(cfg.AppContext().CrashDir())
	if err != nil {
		return err
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	entry, err := pickLog(entries, query)
	if err != nil {
		return err
	}

	data, err := fsutil.ReadFileScoped(entry.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", entry.Name, err)
	}

	out := cmd.OutOrStdout()
	if err := renderLog(out, entry.Name, string(data), showRaw || !logging.IsTerminal(out)); err != nil {
		return err
	}

	if showCopy {
		res, err := clip.Copy(string(data))
		if err != nil {
			return fmt.Errorf("copying crash log: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), res)
	}
	return nil
}

// pickLog returns the newest entry, or the entry whose name best matches
// query. entries must be sorted newest first.
func pickLog(entries []fsutil.Entry, query string) (fsutil.Entry, error) {
	if len(entries) == 0 {
		return fsutil.Entry{}, errNoCrashLogs
	}
	if query == "" {
		return entries[0], nil
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return fsutil.Entry{}, fmt.Errorf("no crash log matches %q", query)
	}
	return entries[matches[0].Index], nil
}

func renderLog(out io.Writer, name, content string, raw bool) error {
	if raw {
		_, err := io.WriteString(out, content)
		if err == nil && content != "" {
			_, err = io.WriteString(out, "\n")
		}
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	md := "# " + name + "\n\n```\n" + content + "\n```\n"
	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering crash log: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}
