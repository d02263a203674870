package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qampsim"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the qampsim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(qampsim.Version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
