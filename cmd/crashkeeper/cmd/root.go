// Package cmd implements the crashkeeper command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/config"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	rootDir   string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "crashkeeper",
	Short: "Record unhandled faults as crash logs",
	Long: `crashkeeper turns faults that nothing else handled into crash logs:
a block of diagnostic facts followed by the fault and its causes, written to
<root>/crash before the process exits.

Use it to inspect the logs a host application left behind, or run 'demo' to
watch the crash path end to end.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion injects build information.
func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .crashkeeper.yaml or ~/.config/crashkeeper/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "",
		"application storage root; crash logs live in <root>/crash")

	// Bind flags to viper (errors are nil when flag exists)
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("app.root", rootCmd.PersistentFlags().Lookup("root"))
}

// loadConfig reads and validates the configuration and builds the logger
// every command reports through.
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.NewLoaderWithViper(viper.GetViper()).WithConfigFile(cfgFile).Load()
	if err != nil {
		return nil, nil, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	return cfg, logger, nil
}
