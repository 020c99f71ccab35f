package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/schedge-app/schedge/internal/calendar"
	"github.com/schedge-app/schedge/internal/domain"
)

func init() {
	rootCmd.AddCommand(weekCmd)
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show this week's computed schedule",
	RunE:  runWeek,
}

func runWeek(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	st, err := a.Client.State(ctx, a.UserID())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, day := range calendar.WeekOf(time.Now()) {
		chunks := calendar.SlotsForDay(st.Slots, day)
		if len(chunks) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t\t\n", day.Format("Monday, Jan 2"))
		for _, c := range chunks {
			name := "(deleted task)"
			if t := domain.TaskByID(st.Tasks, c.Task.Base().ID); t != nil {
				name = t.Base().Name
			}
			fmt.Fprintf(w, "  %s – %s\t%s\t\n",
				c.ChunkStart.Format("15:04"),
				c.ChunkEnd.Format("15:04"),
				name,
			)
		}
	}
	return w.Flush()
}
