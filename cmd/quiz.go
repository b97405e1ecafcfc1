package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/app"
)

var optionLabels = []string{"A", "B", "C", "D"}

// quizCmd runs an interactive multiple-choice review session.
var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Run an adaptive review session",
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")

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
		if deck.Size() == 0 {
			return fmt.Errorf("the deck is empty, run `vocdrill import` first")
		}
		if size <= 0 {
			size = c.Config.Quiz.SessionSize
		}

		session, err := c.Session.BuildSession(ctx, deck, size)
		if err != nil {
			return err
		}
		if len(session.Questions) == 0 {
			return fmt.Errorf("no quizzable words: the deck has no definitions")
		}

		out := cmd.OutOrStdout()
		reader := bufio.NewReader(os.Stdin)
		fmt.Fprintf(out, "Session of %d questions. Answer with A-D, or q to stop.\n\n", len(session.Questions))

		for q := session.Next(); q != nil; q = session.Next() {
			fmt.Fprintf(out, "[%d/%d] What does %q mean?\n", session.Cursor+1, len(session.Questions), q.Prompt)
			if q.Hint != "" {
				fmt.Fprintf(out, "      e.g. %s\n", q.Hint)
			}
			for i, opt := range q.Options {
				fmt.Fprintf(out, "  %s. %s\n", optionLabels[i], opt)
			}

			asked := time.Now()
			selected, quit := readChoice(out, reader, len(q.Options))
			if quit {
				break
			}
			latency := time.Since(asked)

			result, err := c.Session.GradeAnswer(ctx, session, q, selected, latency)
			if err != nil {
				return err
			}
			if result.Correct {
				fmt.Fprintf(out, "Correct! Next review in %d day(s).\n\n", result.State.IntervalDays)
			} else {
				fmt.Fprintf(out, "Wrong. The answer is: %s. Scheduled for tomorrow.\n\n", q.Options[q.CorrectIndex])
			}
		}

		if session.Answered > 0 {
			fmt.Fprintf(out, "Done: %d/%d correct (%.0f%%).\n",
				session.Correct, session.Answered,
				float64(session.Correct)/float64(session.Answered)*100)
		}
		return nil
	},
}

func readChoice(out io.Writer, reader *bufio.Reader, optionCount int) (int, bool) {
	for {
		fmt.Fprint(out, "> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return 0, true
		}
		input = strings.ToUpper(strings.TrimSpace(input))
		if input == "Q" {
			return 0, true
		}
		for i := 0; i < optionCount && i < len(optionLabels); i++ {
			if input == optionLabels[i] {
				return i, false
			}
		}
		fmt.Fprintln(out, "Please answer A, B, C, D or q.")
	}
}

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().Int("size", 0, "number of questions (default from config)")
}
