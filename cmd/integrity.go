package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tour-admin/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag  bool
	jsonFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check storage, schema and catalog health",
	Long:  `Checks the orphan archive folders, the tour table schema and TourAPI reachability.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix archive folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the tour table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// catalogCmd represents the integrity catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Check TourAPI reachability for every category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, schemaCmd, catalogCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
	integrityCmd.Flags().BoolVar(&jsonFlag, "json", false, "Save the combined report as JSON")
}

func runIntegrityChecks(ctx context.Context, runStructure, runSchema, runCatalog bool) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	logg := a.logger
	defer logg.Sync()

	svc := integrity.NewService(a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.ArchivePrefix, logg, a.db, a.catalog)
	report := make(map[string]any)

	if runStructure {
		logg.Info("Checking archive folder structure...")
		missing, err := svc.CheckStructure(ctx)
		switch {
		case err != nil:
			logg.Error("Structure check failed", zap.Error(err))
			report["structure"] = map[string]any{"status": "error", "error": err.Error()}
		case len(missing) == 0:
			logg.Info("Structure is intact.")
			report["structure"] = map[string]any{"status": "ok", "missing": missing}
		default:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			report["structure"] = map[string]any{"status": "ok", "missing": missing}
			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run 'integrity structure --fix' to create missing folders.")
			}
		}
	}

	if runSchema {
		logg.Info("Checking tour table schema...")
		schemaReport, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		report["schema"] = schemaReport
		if schemaReport.Matched {
			logg.Info("Schema matches the models.")
		} else {
			for table, tbl := range schemaReport.Tables {
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
			}
			for _, e := range schemaReport.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
			logg.Info("Run 'migrate' to add missing columns.")
		}
	}

	if runCatalog {
		logg.Info("Checking TourAPI catalog...")
		catalogReport, err := svc.CheckCatalog(ctx)
		if err != nil {
			return fmt.Errorf("catalog check failed: %w", err)
		}
		report["catalog"] = catalogReport
		for _, r := range catalogReport {
			if r.Reachable {
				logg.Info("Category reachable", zap.String("category", r.Category), zap.Int("total_count", r.TotalCount))
			} else {
				logg.Warn("Category unreachable", zap.String("category", r.Category), zap.String("error", r.Error))
			}
		}
	}

	if jsonFlag {
		filename := fmt.Sprintf("integrity_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Integrity report saved", zap.String("file", filename))
	}

	return nil
}
