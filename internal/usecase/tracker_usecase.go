package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

// TrackerUsecase aggregates quiz history into accuracy and weak-word
// classifications. History is append-only and deck-independent; words no
// longer in the deck keep their records but drop out of weak-word reporting.
type TrackerUsecase interface {
	// Record appends one attempt to the log. Attempts for words outside the
	// active deck are accepted.
	Record(ctx context.Context, wordKey string, correct bool, answeredAt time.Time, latency time.Duration) error
	// AccuracyOf returns correct/attempts for a word. ok is false when the
	// word has never been attempted.
	AccuracyOf(ctx context.Context, wordKey string) (float64, bool, error)
	// WeakWords returns deck words with at least three attempts and
	// accuracy below 60%, lowest accuracy first. Recomputed fresh on every
	// call.
	WeakWords(ctx context.Context, deck *entity.Deck) ([]WeakWord, error)
	// RecentMistakes lists the newest incorrect attempts, timestamp
	// descending. Each call re-queries the log, so the sequence reflects
	// records appended since the previous call.
	RecentMistakes(ctx context.Context, limit int) ([]*entity.AttemptRecord, error)
	// Statistics summarizes the learner's history against the active deck.
	Statistics(ctx context.Context, deck *entity.Deck) (*LearningStats, error)
	// Report renders Statistics as a human-readable study report.
	Report(ctx context.Context, deck *entity.Deck) (string, error)
}

// WeakWord pairs a weak classification with the accuracy that produced it.
type WeakWord struct {
	WordKey  string
	Attempts int
	Accuracy float64
}

// MissedWord is a most-missed ranking entry in LearningStats.
type MissedWord struct {
	WordKey string
	Wrong   int
}

// LearningStats is the overview consumed by the report command.
type LearningStats struct {
	DeckSize        int
	QuizzedWords    int
	WeakWords       int
	TotalAttempts   int
	TotalCorrect    int
	OverallAccuracy float64
	MostMissed      []MissedWord
}

// NewTrackerUsecase wires the attempt log with default behaviour.
func NewTrackerUsecase(repo repository.AttemptLogRepository) TrackerUsecase {
	return &trackerUsecase{
		repo:  repo,
		clock: time.Now,
	}
}

type trackerUsecase struct {
	repo  repository.AttemptLogRepository
	clock func() time.Time
}

func (u *trackerUsecase) Record(ctx context.Context, wordKey string, correct bool, answeredAt time.Time, latency time.Duration) error {
	key := entity.NormalizeWordToken(wordKey)
	if key == "" {
		return entity.ErrInvalidWordText
	}
	if answeredAt.IsZero() {
		answeredAt = u.clock()
	}
	_, err := u.repo.Append(ctx, &entity.AttemptRecord{
		WordKey:     key,
		AttemptedAt: answeredAt,
		Correct:     correct,
		Latency:     latency,
	})
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

func (u *trackerUsecase) AccuracyOf(ctx context.Context, wordKey string) (float64, bool, error) {
	key := entity.NormalizeWordToken(wordKey)
	records, err := u.repo.List(ctx, &repository.ListAttemptQuery{WordKey: key})
	if err != nil {
		return 0, false, fmt.Errorf("list attempts: %w", err)
	}
	stats := entity.WordStats{WordKey: key, Attempts: len(records)}
	for _, r := range records {
		if r.Correct {
			stats.Correct++
		}
	}
	acc, ok := stats.Accuracy()
	return acc, ok, nil
}

func (u *trackerUsecase) WeakWords(ctx context.Context, deck *entity.Deck) ([]WeakWord, error) {
	byWord, err := u.repo.StatsByWord(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate attempts: %w", err)
	}

	var weak []WeakWord
	for key, stats := range byWord {
		if deck != nil && !deck.Contains(key) {
			continue
		}
		if !stats.Weak() {
			continue
		}
		acc, _ := stats.Accuracy()
		weak = append(weak, WeakWord{WordKey: key, Attempts: stats.Attempts, Accuracy: acc})
	}

	sort.Slice(weak, func(i, j int) bool {
		if weak[i].Accuracy != weak[j].Accuracy {
			return weak[i].Accuracy < weak[j].Accuracy
		}
		return weak[i].WordKey < weak[j].WordKey
	})
	return weak, nil
}

func (u *trackerUsecase) RecentMistakes(ctx context.Context, limit int) ([]*entity.AttemptRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	return u.repo.List(ctx, &repository.ListAttemptQuery{OnlyWrong: true, Limit: int32(limit)})
}

func (u *trackerUsecase) Statistics(ctx context.Context, deck *entity.Deck) (*LearningStats, error) {
	byWord, err := u.repo.StatsByWord(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate attempts: %w", err)
	}

	stats := &LearningStats{}
	if deck != nil {
		stats.DeckSize = deck.Size()
	}

	for key, ws := range byWord {
		if deck != nil && !deck.Contains(key) {
			continue
		}
		stats.QuizzedWords++
		stats.TotalAttempts += ws.Attempts
		stats.TotalCorrect += ws.Correct
		if ws.Weak() {
			stats.WeakWords++
		}
		if wrong := ws.Attempts - ws.Correct; wrong > 0 {
			stats.MostMissed = append(stats.MostMissed, MissedWord{WordKey: key, Wrong: wrong})
		}
	}
	if stats.TotalAttempts > 0 {
		stats.OverallAccuracy = float64(stats.TotalCorrect) / float64(stats.TotalAttempts)
	}

	sort.Slice(stats.MostMissed, func(i, j int) bool {
		if stats.MostMissed[i].Wrong != stats.MostMissed[j].Wrong {
			return stats.MostMissed[i].Wrong > stats.MostMissed[j].Wrong
		}
		return stats.MostMissed[i].WordKey < stats.MostMissed[j].WordKey
	})
	if len(stats.MostMissed) > 5 {
		stats.MostMissed = stats.MostMissed[:5]
	}
	return stats, nil
}

func (u *trackerUsecase) Report(ctx context.Context, deck *entity.Deck) (string, error) {
	stats, err := u.Statistics(ctx, deck)
	if err != nil {
		return "", err
	}
	weak, err := u.WeakWords(ctx, deck)
	if err != nil {
		return "", err
	}
	mistakes, err := u.RecentMistakes(ctx, 5)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Study overview\n")
	fmt.Fprintf(&b, "  deck words:      %d\n", stats.DeckSize)
	fmt.Fprintf(&b, "  quizzed words:   %d\n", stats.QuizzedWords)
	fmt.Fprintf(&b, "  total attempts:  %d\n", stats.TotalAttempts)
	fmt.Fprintf(&b, "  overall accuracy: %.1f%%\n", stats.OverallAccuracy*100)

	if len(weak) > 0 {
		fmt.Fprintf(&b, "\nWords needing attention\n")
		for i, w := range weak {
			if i == 10 {
				break
			}
			fmt.Fprintf(&b, "  %d. %s  (%d attempts, %.0f%% correct)\n", i+1, w.WordKey, w.Attempts, w.Accuracy*100)
		}
	}
	if len(mistakes) > 0 {
		fmt.Fprintf(&b, "\nRecent mistakes\n")
		for _, m := range lo.UniqBy(mistakes, func(r *entity.AttemptRecord) string { return r.WordKey }) {
			fmt.Fprintf(&b, "  - %s (%s)\n", m.WordKey, m.AttemptedAt.Format("2006-01-02 15:04"))
		}
	}

	fmt.Fprintf(&b, "\nAdvice\n")
	switch {
	case stats.TotalAttempts == 0:
		fmt.Fprintf(&b, "  No quiz history yet. Run a quiz session to get started.\n")
	case stats.OverallAccuracy >= 0.8:
		fmt.Fprintf(&b, "  Accuracy is high. Keep going, or import harder words.\n")
	case stats.OverallAccuracy >= 0.6:
		fmt.Fprintf(&b, "  Decent accuracy with room to improve. Focus on the weak words above.\n")
	default:
		fmt.Fprintf(&b, "  Slow down and consolidate. Review the basics before adding new words.\n")
	}
	if len(weak) > 0 {
		fmt.Fprintf(&b, "  %d weak words are prioritized in your next session.\n", len(weak))
	}
	return b.String(), nil
}
