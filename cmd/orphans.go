package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"tour-admin/core/reconcile"
	"tour-admin/feature/tour"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	purgeOrphans  bool
	dryRunOrphans bool
	yesConfirm    bool
)

// orphansCmd audits a category for records that vanished upstream.
var orphansCmd = &cobra.Command{
	Use:   "orphans <category>",
	Short: "List local records missing from TourAPI (optionally delete them)",
	Long: `Lists local records of a category whose content id is no longer in the catalog.
With --purge the listed orphans are deleted after confirmation. When object
storage is enabled they are archived first.

Examples:
  # Report only
  orphans spot

  # Delete with interactive confirmation
  orphans spot --purge

  # Delete non-interactively
  orphans spot --purge --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		orphans, err := a.service.FindOrphans(ctx, args[0])
		if err != nil {
			return err
		}
		printOrphanReport(a.logger, orphans)

		if !purgeOrphans {
			if len(orphans) > 0 {
				a.logger.Info("No actions requested. Use --purge to delete the orphans listed above.")
			}
			return nil
		}
		if len(orphans) == 0 {
			a.logger.Info("No orphans to delete.")
			return nil
		}

		if !dryRunOrphans && !confirmDestructiveAction() {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		result, err := a.service.DeleteOrphans(ctx, args[0], tour.DeleteRequest{
			IDs:       lo.Map(orphans, func(o reconcile.Orphan, _ int) string { return o.Key }),
			Confirmed: true,
			DryRun:    dryRunOrphans,
		})
		if err != nil {
			return fmt.Errorf("failed to delete orphans: %w", err)
		}
		if result.DryRun {
			a.logger.Info("Dry-run mode: No changes were made.", zap.Int("would_delete", result.Requested-len(result.Skipped)))
		}
		return nil
	},
}

func init() {
	orphansCmd.Flags().BoolVar(&purgeOrphans, "purge", false, "Delete the listed orphans")
	orphansCmd.Flags().BoolVar(&dryRunOrphans, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	orphansCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(orphansCmd)
}

// printOrphanReport logs a summary and a sample of orphans.
func printOrphanReport(l *zap.Logger, orphans []reconcile.Orphan) {
	enriched := lo.CountBy(orphans, func(o reconcile.Orphan) bool { return o.Enriched })
	l.Info("Orphan report",
		zap.Int("orphans", len(orphans)),
		zap.Int("enriched", enriched),
	)

	maxShow := min(len(orphans), 10)
	for _, o := range orphans[:maxShow] {
		l.Info("Orphan",
			zap.String("content_id", o.Key),
			zap.String("title", o.Label),
			zap.Bool("enriched", o.Enriched),
		)
	}
	if len(orphans) > maxShow {
		l.Info("Additional orphans not shown", zap.Int("count", len(orphans)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
