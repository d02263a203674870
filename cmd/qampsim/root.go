package main

import (
	"os"

	"github.com/spf13/cobra"

	"qampsim/internal/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "qampsim",
	Short: "Compare state-vector, path-integral and Savitch circuit amplitude simulators",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			logging.Disable()
		}
	},
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable structured logging")
}
