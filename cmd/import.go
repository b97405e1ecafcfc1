package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/adapter/deck"
	"github.com/eslsoft/vocdrill/internal/app"
)

// importCmd loads a word list into the deck store.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import deck words from an xlsx, csv or plain text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := deck.Load(args[0])
		if err != nil {
			return err
		}

		c, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		summary, err := c.Deck.ImportWords(cmd.Context(), words)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d entries (%d skipped)\n",
			summary.Imported, summary.Processed, summary.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
