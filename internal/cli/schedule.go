package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Ask the server to recompute slots",
	RunE:  runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Client.EnqueueScheduling(context.Background(), a.UserID()); err != nil {
		return err
	}
	fmt.Println("Scheduling requested.")
	return nil
}
