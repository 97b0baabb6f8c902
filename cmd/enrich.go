package cmd

import (
	"fmt"
	"strings"

	"tour-admin/feature/tour"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	enrichCategory string
	enrichLimit    int
)

// enrichCmd runs one enrichment pass.
var enrichCmd = &cobra.Command{
	Use:   "enrich <pass>",
	Short: "Fill missing enrichment fields",
	Long: `Runs one enrichment pass over the records still missing its field.
A failing record is reported and skipped; rerunning retries only what is left.

Passes: ` + strings.Join(tour.Passes, ", ") + `

Examples:
  enrich overview --category spot
  enrich rooms
  enrich english --category restaurant --limit 50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		summary, err := a.service.Enrich(ctx, args[0], enrichCategory, enrichLimit, progressPrinter(args[0]))
		if err != nil {
			return err
		}

		for name, result := range summary.Categories {
			for _, f := range result.Failures {
				a.logger.Warn("Record not enriched",
					zap.String("category", name),
					zap.String("content_id", f.Key),
					zap.String("title", f.Label),
					zap.Bool("no_match", f.NoMatch),
					zap.String("reason", f.Reason),
				)
			}
		}
		for name, msg := range summary.Errors {
			a.logger.Error("Category failed", zap.String("category", name), zap.String("error", msg))
		}
		if len(summary.Errors) > 0 {
			return fmt.Errorf("%d categories failed", len(summary.Errors))
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichCategory, "category", "", "Restrict to one category (default all applicable)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "Maximum records per category (0 means no limit)")
	RootCmd.AddCommand(enrichCmd)
}
