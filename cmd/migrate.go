package cmd

import (
	"github.com/spf13/cobra"
)

// migrateCmd creates or updates the tour tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the tour tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		if err := a.service.Migrate(ctx); err != nil {
			return err
		}
		a.logger.Info("Tour tables migrated")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
