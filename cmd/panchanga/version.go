package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "panchanga %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
