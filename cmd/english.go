package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// englishCmd groups the manual English mapping commands.
var englishCmd = &cobra.Command{
	Use:   "english",
	Short: "Manual English mapping",
}

var englishUnmappedCmd = &cobra.Command{
	Use:   "unmapped <category>",
	Short: "List records without an English counterpart and the free English records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		view, err := a.service.EnglishPicker(ctx, args[0], true)
		if err != nil {
			return err
		}

		fmt.Printf("\n=== Unmapped %s (%d) ===\n", view.Category, len(view.Unmapped))
		for _, c := range view.Unmapped {
			fmt.Printf("%-10s %s\n", c.ContentID, c.Title)
		}
		fmt.Printf("\n=== Free English records (%d) ===\n", len(view.Candidates))
		for _, c := range view.Candidates {
			fmt.Printf("%-10s %s\n", c.ContentID, c.Title)
		}
		return nil
	},
}

var englishMapCmd = &cobra.Command{
	Use:   "map <category> <content_id> <content_id_en>",
	Short: "Link a record to an English catalog record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		return a.service.MapEnglish(ctx, args[0], args[1], args[2])
	},
}

func init() {
	englishCmd.AddCommand(englishUnmappedCmd, englishMapCmd)
	RootCmd.AddCommand(englishCmd)
}
