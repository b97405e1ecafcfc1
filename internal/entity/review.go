package entity

import (
	"math"
	"time"
)

// Quality is the SM-2 recall grade. 0-2 mean the word was not recalled,
// 3-5 mean it was recalled with increasing ease.
type Quality int

const (
	QualityBlackout         Quality = 0
	QualityIncorrect        Quality = 1
	QualityIncorrectKnownOn Quality = 2 // wrong, but recognized the answer
	QualityCorrectHard      Quality = 3
	QualityCorrectHesitant  Quality = 4
	QualityPerfect          Quality = 5
)

// Valid reports whether the grade lies in the SM-2 domain [0,5].
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passing reports whether the grade counts as a successful recall.
func (q Quality) Passing() bool {
	return q >= QualityCorrectHard
}

const (
	// MinEasiness is the SM-2 E-Factor floor. There is no ceiling.
	MinEasiness = 1.3
	// DefaultEasiness is the E-Factor assigned to a word never graded before.
	DefaultEasiness = 2.5

	// FastAnswer separates a confident recall from a hesitant one when
	// deriving a grade from a binary quiz answer. Tunable, not inferred.
	FastAnswer = 8 * time.Second
)

// QualityForAnswer maps one multiple-choice outcome onto the SM-2 grade
// scale: wrong answers grade 2, slow correct answers 3, fast correct
// answers 5. A zero latency counts as fast (latency tracking is optional).
func QualityForAnswer(correct bool, latency time.Duration) Quality {
	if !correct {
		return QualityIncorrectKnownOn
	}
	if latency > FastAnswer {
		return QualityCorrectHard
	}
	return QualityPerfect
}

// ReviewState is the per-word spaced-repetition state. One record exists per
// deck word once it has been graded at least once; it is mutated exclusively
// by the scheduler in response to one graded attempt.
type ReviewState struct {
	WordKey         string
	EasinessFactor  float64
	IntervalDays    int
	RepetitionCount int
	DueDate         time.Time
	LastReviewedAt  *time.Time
}

// NewReviewState returns the default state for a word graded for the first
// time: E=2.5, interval 0, due immediately.
func NewReviewState(wordKey string, today time.Time) *ReviewState {
	return &ReviewState{
		WordKey:        wordKey,
		EasinessFactor: DefaultEasiness,
		DueDate:        DateOf(today),
	}
}

// Due reports whether the word is eligible for re-testing on the given day.
func (s *ReviewState) Due(today time.Time) bool {
	return !s.DueDate.After(DateOf(today))
}

// Mastered reports whether the word is considered learned: at least five
// successful repetitions and an interval of a month or more.
func (s *ReviewState) Mastered() bool {
	return s.RepetitionCount >= 5 && s.IntervalDays >= 30
}

// Apply advances the state by one SM-2 grading observed at now. The grade
// must already be validated; callers go through the scheduler usecase.
func (s *ReviewState) Apply(quality Quality, now time.Time) {
	s.EasinessFactor += 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
	if s.EasinessFactor < MinEasiness {
		s.EasinessFactor = MinEasiness
	}

	if quality.Passing() {
		s.RepetitionCount++
		switch s.RepetitionCount {
		case 1:
			s.IntervalDays = 1
		case 2:
			s.IntervalDays = 6
		default:
			s.IntervalDays = int(math.Round(float64(s.IntervalDays) * s.EasinessFactor))
		}
	} else {
		s.RepetitionCount = 0
		s.IntervalDays = 1
	}

	reviewed := now
	s.LastReviewedAt = &reviewed
	s.DueDate = DateOf(now).AddDate(0, 0, s.IntervalDays)
}

// DateOf truncates a timestamp to its calendar day in UTC. Due dates are
// compared at day granularity.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
