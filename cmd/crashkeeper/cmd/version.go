package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "crashkeeper %s\n", appVersion)
		fmt.Fprintf(out, "  commit: %s\n", appCommit)
		fmt.Fprintf(out, "  built:  %s\n", appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
