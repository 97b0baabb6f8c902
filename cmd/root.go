package cmd

import (
	"fmt"
	"os"

	"tour-admin/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tour-admin",
	Short: "TourAPI sync and enrichment admin",
	Long: `Tour Admin keeps a local copy of the Korea Tourism Organization catalog.
It syncs each category from TourAPI, fills enrichment fields in separate passes
and lets an operator review records that disappeared upstream.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with ISO8601 timestamps for CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
