package entity

import "math/rand"

// OptionCount is the number of choices per question: the correct definition
// plus three distractors.
const OptionCount = 4

// QuizQuestion is ephemeral: it exists for the duration of one question and
// is discarded after grading. Its outcome becomes an AttemptRecord and feeds
// the scheduler.
type QuizQuestion struct {
	WordKey      string
	Prompt       string // word text shown to the learner
	Hint         string // optional example sentence
	Options      []string
	CorrectIndex int
}

// NewQuizQuestion assembles the four answer options in randomized order,
// tracking where the correct definition lands.
func NewQuizQuestion(word *Word, correctDefinition string, distractors []string, rnd *rand.Rand) QuizQuestion {
	options := make([]string, 0, OptionCount)
	options = append(options, distractors...)
	options = append(options, correctDefinition)
	correctIndex := len(options) - 1

	rnd.Shuffle(len(options), func(i, j int) {
		if i == correctIndex {
			correctIndex = j
		} else if j == correctIndex {
			correctIndex = i
		}
		options[i], options[j] = options[j], options[i]
	})

	hint := ""
	if len(word.Examples) > 0 {
		hint = word.Examples[0]
	}
	return QuizQuestion{
		WordKey:      word.Key,
		Prompt:       word.Text,
		Hint:         hint,
		Options:      options,
		CorrectIndex: correctIndex,
	}
}

// Session is the explicit quiz-session value owned by the caller. The core
// keeps no ambient session state; the UI passes the session back with each
// answer.
type Session struct {
	DeckName  string
	Questions []QuizQuestion
	Cursor    int
	Answered  int
	Correct   int
}

// Next returns the current question, or nil when the session is exhausted.
func (s *Session) Next() *QuizQuestion {
	if s.Cursor >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Cursor]
}

// Advance moves past the current question, recording its outcome.
func (s *Session) Advance(correct bool) {
	s.Cursor++
	s.Answered++
	if correct {
		s.Correct++
	}
}

// AnswerResult reports one graded question back to the caller.
type AnswerResult struct {
	WordKey string
	Correct bool
	Quality Quality
	State   *ReviewState
}
