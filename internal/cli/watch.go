package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/schedge-app/schedge/internal/api"
	"github.com/schedge-app/schedge/internal/domain"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live state updates from the server",
	Long:  `Subscribe to the push channel and print a line per snapshot until interrupted.`,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Store.Subscribe(func(st domain.State) {
		fmt.Printf("snapshot: %d tasks, %d slots\n", len(st.Tasks), len(st.Slots))
	})
	a.OnConnStatus(func(s api.ConnStatus) {
		fmt.Printf("connection: %s\n", s)
	})

	if err := a.Load(ctx); err != nil {
		return err
	}
	a.StartPush(ctx)

	<-ctx.Done()
	return nil
}
