package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/app"
)

// reportCmd prints the learning report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show learning statistics and weak words",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		deck, err := c.Deck.ActiveDeck(ctx)
		if err != nil {
			return err
		}
		report, err := c.Tracker.Report(ctx, deck)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
