package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inlinegames",
	Short: "Maintenance tooling for the inline games bot",
	Long: `inlinegames retires inactive inline game sessions: their messages are
replaced with an "empty session" notice, the records are deleted and
leftover temporary files are removed.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cleanCmd)
}
