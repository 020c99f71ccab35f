package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"ls"},
	Short:   "List tasks on the server",
	RunE:    runTasks,
}

func runTasks(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.Client.Tasks(context.Background(), a.UserID())
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks. Run 'schedge add' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tWHEN\t")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t\n",
			t.Base().ID,
			leisureMark(t),
			t.Base().Name,
			t.Type(),
			describeTask(t),
		)
	}
	return w.Flush()
}
