package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/schedge-app/schedge/internal/config"
	"github.com/schedge-app/schedge/internal/mockserver"
)

func init() {
	mockCmd.Flags().StringVar(&mockListen, "listen", "", "Listen address (overrides config)")
	mockCmd.Flags().StringVar(&mockSeed, "seed", "", "YAML seed file (overrides config)")
	rootCmd.AddCommand(mockCmd)
}

var (
	mockListen string
	mockSeed   string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run the built-in mock backend",
	Long: `Start a local schedge backend with SQLite storage and a naive
scheduler. Useful for development and demos without a real server.`,
	RunE: runMock,
}

func runMock(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if mockListen != "" {
		cfg.Mock.Listen = mockListen
	}
	if mockSeed != "" {
		cfg.Mock.Seed = mockSeed
	}

	db, err := mockserver.OpenDB(cfg.Mock.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mockserver.NewServer(db)
	if cfg.Mock.Seed != "" {
		if err := srv.LoadSeed(cfg.Mock.Seed); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = srv.ListenAndServe(ctx, cfg.Mock.Listen)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
