package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greensocial/green/internal/daemon"
	"github.com/greensocial/green/internal/db/controller/setting"
	"github.com/greensocial/green/internal/db/uow"
)

func init() { //nolint:gochecknoinits
	settingListCmd.Flags().StringVar(&listPrefix, "prefix", "", "Only list settings whose name starts with prefix")

	settingCmd.AddCommand(settingListCmd, settingGetCmd, settingSetCmd, settingDeleteCmd)
	rootCmd.AddCommand(settingCmd)
}

var (
	listPrefix string

	settingCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "setting",
		Short: "Manage settings stored in the database",
	}

	settingListCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "list",
		Short: "List settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, closeDB, err := openUnitOfWork()
			if err != nil {
				return err
			}
			defer closeDB()

			list, err := setting.List(u, setting.ListOptions{Prefix: listPrefix})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
			_, _ = fmt.Fprintln(w, "ID\tNAME\tVALUE")

			for _, s := range list {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, s.Value)
			}

			return w.Flush()
		},
	}

	settingGetCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "get NAME",
		Short: "Print the value of a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, closeDB, err := openUnitOfWork()
			if err != nil {
				return err
			}
			defer closeDB()

			s, err := setting.Get(u, args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Value)

			return err
		},
	}

	settingSetCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "set NAME VALUE",
		Short: "Create or update a setting",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			u, closeDB, err := openUnitOfWork()
			if err != nil {
				return err
			}
			defer closeDB()

			s, err := setting.Set(u, args[0], args[1])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", s.ID, s)

			return err
		},
	}

	settingDeleteCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "delete NAME",
		Short: "Delete a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			u, closeDB, err := openUnitOfWork()
			if err != nil {
				return err
			}
			defer closeDB()

			return setting.DeleteByName(u, args[0])
		},
	}
)

// openUnitOfWork opens the configured database for one command. The returned
// func closes the connection pool.
func openUnitOfWork() (*uow.UnitOfWork, func(), error) {
	db, err := daemon.Open(&cfg)
	if err != nil {
		return nil, nil, err
	}

	return uow.New(db), func() { daemon.Close(db) }, nil
}
