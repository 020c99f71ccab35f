package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/schedge-app/schedge/internal/tui"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive terminal client",
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Load(ctx); err != nil {
		return err
	}
	a.StartPush(ctx)

	return tui.Run(a)
}
