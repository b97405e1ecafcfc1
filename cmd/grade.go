package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/app"
	"github.com/eslsoft/vocdrill/internal/entity"
)

// gradeCmd applies a manual recall grade to a deck word, outside any quiz
// session. Useful after reviewing with physical cards or another app.
var gradeCmd = &cobra.Command{
	Use:   "grade <word> <quality>",
	Short: "Manually grade a word's recall (0-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quality, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quality must be a number 0-5: %w", err)
		}

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
		if !deck.Contains(args[0]) {
			return fmt.Errorf("%w: %s", entity.ErrWordNotInDeck, args[0])
		}

		state, err := c.Scheduler.Grade(ctx, args[0], entity.Quality(quality))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: next review in %dd (due %s, ef %.2f, reps %d)\n",
			state.WordKey, state.IntervalDays, state.DueDate.Format("2006-01-02"),
			state.EasinessFactor, state.RepetitionCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gradeCmd)
}
