package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetsim/ridepool/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "ridepool",
	Short: "Ride-pooling fleet assignment optimizer",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig returns the file-based configuration when --config is set, the
// defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
