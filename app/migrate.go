package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/greensocial/green/internal/daemon"
)

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := daemon.Open(&cfg)
		if err != nil {
			return err
		}
		defer daemon.Close(db)

		if err = daemon.Migrate(db); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.Engine).Msg("database migrated")

		return nil
	},
}
