package cmd

import (
	"fmt"

	"github.com/rohmanhakim/consents/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Summary())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
