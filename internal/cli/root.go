// Package cli implements the schedge command-line interface using Cobra.
// Each subcommand maps to one backend operation (tasks, week, queue, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "schedge",
	Short: "schedge — personal task scheduling client",
	Long: `schedge is a client for the schedge scheduling service.
Tasks live on the server; the client edits them, renders the computed
week, and follows live updates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
