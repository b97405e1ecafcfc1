package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// DistractorSource supplies exactly three plausible wrong answers for a
// question. Implementations never fail; they fall back to deterministic
// generation when the external service is unavailable.
type DistractorSource interface {
	DistractorsFor(ctx context.Context, word *entity.Word, correctDefinition string, pool []*entity.Word) []string
}

// SessionUsecase assembles adaptive quiz sessions and routes graded answers
// back into the scheduler and tracker.
type SessionUsecase interface {
	// BuildSession selects up to size distinct deck words by priority: due
	// words first (most overdue, then hardest), then weak words (lowest
	// accuracy), then a uniform random fill. The session never repeats a
	// word and is truncated to the deck size.
	BuildSession(ctx context.Context, deck *entity.Deck, size int) (*entity.Session, error)
	// GradeAnswer grades the given question, updates scheduling state and
	// attempt history, and advances the session. Storage errors propagate;
	// an error between the two updates leaves the attempt unrecorded.
	GradeAnswer(ctx context.Context, session *entity.Session, question *entity.QuizQuestion, selected int, latency time.Duration) (*entity.AnswerResult, error)
}

// NewSessionUsecase wires the scheduler, tracker and distractor pipeline.
func NewSessionUsecase(scheduler SchedulerUsecase, tracker TrackerUsecase, distractors DistractorSource) SessionUsecase {
	return &sessionUsecase{
		scheduler:   scheduler,
		tracker:     tracker,
		distractors: distractors,
		clock:       time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

type sessionUsecase struct {
	scheduler   SchedulerUsecase
	tracker     TrackerUsecase
	distractors DistractorSource
	clock       func() time.Time
	newRand     func() *rand.Rand
}

func (u *sessionUsecase) BuildSession(ctx context.Context, deck *entity.Deck, size int) (*entity.Session, error) {
	if deck == nil || deck.Size() == 0 {
		return nil, entity.ErrEmptyDeck
	}
	if size <= 0 {
		return nil, fmt.Errorf("session size must be positive, got %d", size)
	}
	if size > deck.Size() {
		size = deck.Size()
	}

	selected := make([]string, 0, size)
	seen := make(map[string]bool, size)
	pick := func(key string) {
		if len(selected) < size && deck.Contains(key) && !seen[key] {
			seen[key] = true
			selected = append(selected, key)
		}
	}

	// Tier 1: words due for review, most overdue first, hardest breaking
	// ties. Ordering comes from the store.
	due, err := u.scheduler.DueStates(ctx, u.clock())
	if err != nil {
		return nil, fmt.Errorf("list due words: %w", err)
	}
	for _, state := range due {
		pick(state.WordKey)
	}

	// Tier 2: weak words not already selected, lowest accuracy first.
	if len(selected) < size {
		weak, err := u.tracker.WeakWords(ctx, deck)
		if err != nil {
			return nil, fmt.Errorf("list weak words: %w", err)
		}
		for _, w := range weak {
			pick(w.WordKey)
		}
	}

	// Tier 3: uniform random fill without replacement.
	rnd := u.newRand()
	if len(selected) < size {
		rest := make([]string, 0, deck.Size())
		for _, w := range deck.Words {
			if !seen[w.Key] {
				rest = append(rest, w.Key)
			}
		}
		rnd.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		for _, key := range rest {
			pick(key)
		}
	}

	session := &entity.Session{DeckName: deck.Name}
	for _, key := range selected {
		word := deck.Lookup(key)
		correct := word.PrimaryDefinition()
		if correct == "" {
			// Nothing to quiz on without a definition.
			continue
		}
		options := u.distractors.DistractorsFor(ctx, word, correct, deck.Words)
		session.Questions = append(session.Questions, entity.NewQuizQuestion(word, correct, options, rnd))
	}
	return session, nil
}

func (u *sessionUsecase) GradeAnswer(ctx context.Context, session *entity.Session, question *entity.QuizQuestion, selected int, latency time.Duration) (*entity.AnswerResult, error) {
	if session == nil || question == nil {
		return nil, fmt.Errorf("session and question are required")
	}
	correct := selected == question.CorrectIndex
	quality := entity.QualityForAnswer(correct, latency)

	state, err := u.scheduler.Grade(ctx, question.WordKey, quality)
	if err != nil {
		return nil, err
	}
	if err := u.tracker.Record(ctx, question.WordKey, correct, u.clock(), latency); err != nil {
		return nil, err
	}

	session.Advance(correct)
	return &entity.AnswerResult{
		WordKey: question.WordKey,
		Correct: correct,
		Quality: quality,
		State:   state,
	}, nil
}
