// Package cli implements the avr command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lucky0011198/AVR-GARMENT/internal/daemon"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "avr",
	Short: "Garment workshop order tracker",
	Long: `avr tracks garment orders through a workshop: parties, their items,
per-size cutting capacity, and which worker took how many pieces of
which size. State lives in a local SQLite database and is served over
a JSON REST API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(),
		"Path to the TOML config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (daemon.Config, error) {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return daemon.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".avr-garment", "config.toml")
}
