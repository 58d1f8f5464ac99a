package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/diagnostics"
)

var factsYAML bool

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Print the diagnostic facts a crash log would record now",
	Args:  cobra.NoArgs,
	RunE:  runFacts,
}

func init() {
	factsCmd.Flags().BoolVar(&factsYAML, "yaml", false, "print facts as a YAML mapping")
	rootCmd.AddCommand(factsCmd)
}

func runFacts(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	facts := diagnostics.NewCollector(logger).Collect(cfg.AppContext())
	return printFacts(cmd, facts, factsYAML)
}

func printFacts(cmd *cobra.Command, facts *diagnostics.Facts, asYAML bool) error {
	out := cmd.OutOrStdout()
	if asYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(facts); err != nil {
			return fmt.Errorf("encoding facts: %w", err)
		}
		return enc.Close()
	}
	for k, v := range facts.All() {
		fmt.Fprintf(out, "%s=%s\n", k, v)
	}
	return nil
}
