package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/schedge-app/schedge/internal/config"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to ~/.schedge/config.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", filepath.Join(config.SchedgeHome(), "config.toml"))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("server url:   %s\n", cfg.Server.URL)
		fmt.Printf("user id:      %d\n", cfg.Server.UserID)
		fmt.Printf("debounce:     %s\n", cfg.Debounce())
		fmt.Printf("backoff:      %s .. %s\n", cfg.BackoffBase(), cfg.BackoffCap())
		fmt.Printf("mock listen:  %s\n", cfg.Mock.Listen)
		fmt.Printf("mock db:      %s\n", cfg.Mock.DBPath)
		return nil
	},
}
