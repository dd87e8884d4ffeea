package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/mangascout/internal/extract"
)

var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the mangascout version and heuristic rules version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "mangascout version:", Version)
		fmt.Fprintln(cmd.OutOrStdout(), "rules version:", extract.RulesVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
