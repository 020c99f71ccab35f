package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queueCmd)
}

var queueCmd = &cobra.Command{
	Use:   "queue [id ...]",
	Short: "Show or replace the task ordering",
	Long: `With no arguments, print the current queue. With arguments,
replace the queue wholesale with the given task ids.`,
	RunE: runQueue,
}

func runQueue(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if len(args) == 0 {
		queue, err := a.Client.Queue(ctx, a.UserID())
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}
		out := make([]string, len(queue))
		for i, id := range queue {
			out[i] = strconv.FormatInt(id, 10)
		}
		fmt.Println(strings.Join(out, " "))
		return nil
	}

	queue := make([]int64, len(args))
	for i, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", arg)
		}
		queue[i] = id
	}
	if _, err := a.Client.PostQueue(ctx, a.UserID(), queue); err != nil {
		return err
	}
	fmt.Printf("Queue replaced (%d tasks)\n", len(queue))
	return nil
}
