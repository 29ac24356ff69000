// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/greensocial/green/internal/config"
	"github.com/greensocial/green/internal/logger"
)

var (
	configPath string        // Path to the configuration directory
	cfg        config.Config //nolint:gochecknoglobals
)

var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "green",
	Short: "Green is the settings backend of the Green social network",
	Long: `Green stores the application settings of the Green social network
and serves them through a small JSON API.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error

		if cfg, err = config.ReadConfig(configPath); err != nil {
			return err
		}

		return logger.Init(cfg.Log)
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
