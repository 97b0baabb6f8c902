package cmd

import (
	"fmt"
	"strings"

	"tour-admin/feature/tour/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncParallel int

// syncCmd syncs one category or all of them from TourAPI.
var syncCmd = &cobra.Command{
	Use:   "sync [category|all]",
	Short: "Sync catalog records from TourAPI",
	Long: `Fetches every page of a category and upserts the structural fields locally.
Enrichment fields are never touched and nothing is deleted.

Categories: ` + strings.Join(models.CategoryNames(), ", ") + `

Examples:
  sync spot
  sync all --parallel 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		if err := a.service.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		if args[0] != "all" {
			_, err := a.service.Sync(ctx, args[0], progressPrinter("Fetching "+args[0]+" page"))
			return err
		}

		failed := 0
		for _, r := range a.service.SyncAll(ctx, syncParallel, nil) {
			if r.Error != "" {
				failed++
				a.logger.Error("Category failed", zap.String("category", r.Category), zap.String("error", r.Error))
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d categories failed to sync", failed)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().IntVar(&syncParallel, "parallel", 0, "Categories synced concurrently with 'all' (0 uses SYNC_PARALLEL)")
	RootCmd.AddCommand(syncCmd)
}
