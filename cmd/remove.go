package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/app"
)

// removeCmd drops a word from the deck along with its scheduling state.
// Quiz history for the word is kept; it simply stops being reported.
var removeCmd = &cobra.Command{
	Use:   "remove <word>",
	Short: "Remove a word from the deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := c.Deck.RemoveWord(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
