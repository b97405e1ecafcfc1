package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/app"
)

// dueCmd lists deck words currently due for review.
var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List words due for review",
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
		states, err := c.Scheduler.DueStates(ctx, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, state := range states {
			if !deck.Contains(state.WordKey) {
				continue
			}
			shown++
			fmt.Fprintf(out, "%-20s due %s  interval %dd  ef %.2f  reps %d\n",
				state.WordKey, state.DueDate.Format("2006-01-02"),
				state.IntervalDays, state.EasinessFactor, state.RepetitionCount)
		}
		if shown == 0 {
			fmt.Fprintln(out, "nothing due, well done")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)
}
