package entity

import "time"

// AttemptRecord is one graded quiz answer. Records are append-only: they are
// never mutated after creation, only aggregated.
type AttemptRecord struct {
	ID          int64
	WordKey     string
	AttemptedAt time.Time
	Correct     bool
	Latency     time.Duration // zero when the host does not measure it
}

// WordStats aggregates the attempt history of a single word.
type WordStats struct {
	WordKey  string
	Attempts int
	Correct  int
}

// Accuracy returns correct/attempts. ok is false when there are no attempts,
// so callers never divide by zero.
func (s WordStats) Accuracy() (float64, bool) {
	if s.Attempts == 0 {
		return 0, false
	}
	return float64(s.Correct) / float64(s.Attempts), true
}

// weakMinAttempts and weakMaxAccuracy define the weak-word predicate:
// at least three attempts with accuracy below 60%.
const (
	weakMinAttempts = 3
	weakMaxAccuracy = 0.60
)

// Weak reports whether the word qualifies as a weak word. Derived on demand,
// never persisted.
func (s WordStats) Weak() bool {
	acc, ok := s.Accuracy()
	return ok && s.Attempts >= weakMinAttempts && acc < weakMaxAccuracy
}
