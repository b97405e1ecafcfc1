// Package backup streams the learner's scheduling state and attempt history
// as NDJSON so a deck can be moved between machines or archived.
package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

const formatVersion = 1

// Line kinds in the NDJSON stream.
const (
	kindHeader      = "header"
	kindReviewState = "review_state"
	kindAttempt     = "attempt"
)

type line struct {
	Kind string `json:"kind"`

	// header
	Version    int    `json:"version,omitempty"`
	ExportedAt string `json:"exported_at,omitempty"`

	// review_state
	WordKey         string  `json:"word_key,omitempty"`
	EasinessFactor  float64 `json:"easiness_factor,omitempty"`
	IntervalDays    int     `json:"interval_days,omitempty"`
	RepetitionCount int     `json:"repetition_count,omitempty"`
	DueDate         string  `json:"due_date,omitempty"`
	LastReviewedAt  string  `json:"last_reviewed_at,omitempty"`

	// attempt
	AttemptedAt string `json:"attempted_at,omitempty"`
	Correct     *bool  `json:"correct,omitempty"`
	LatencyMs   int64  `json:"latency_ms,omitempty"`
}

// Service exports review states and the attempt log.
type Service struct {
	states   repository.ReviewStateRepository
	attempts repository.AttemptLogRepository
	clock    func() time.Time
}

// NewService wires the repositories.
func NewService(states repository.ReviewStateRepository, attempts repository.AttemptLogRepository) *Service {
	return &Service{
		states:   states,
		attempts: attempts,
		clock:    time.Now,
	}
}

// Export writes one JSON object per line: a header, then every review
// state, then every attempt record (oldest last, matching the log's
// timestamp-descending order).
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	header := line{
		Kind:       kindHeader,
		Version:    formatVersion,
		ExportedAt: s.clock().UTC().Format(time.RFC3339),
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	states, err := s.states.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list review states: %w", err)
	}
	for _, st := range states {
		if err := enc.Encode(stateLine(st)); err != nil {
			return fmt.Errorf("write review state: %w", err)
		}
	}

	records, err := s.attempts.List(ctx, &repository.ListAttemptQuery{})
	if err != nil {
		return fmt.Errorf("list attempts: %w", err)
	}
	for _, rec := range records {
		if err := enc.Encode(attemptLine(rec)); err != nil {
			return fmt.Errorf("write attempt: %w", err)
		}
	}

	return bw.Flush()
}

func stateLine(st *entity.ReviewState) line {
	l := line{
		Kind:            kindReviewState,
		WordKey:         st.WordKey,
		EasinessFactor:  st.EasinessFactor,
		IntervalDays:    st.IntervalDays,
		RepetitionCount: st.RepetitionCount,
		DueDate:         st.DueDate.Format("2006-01-02"),
	}
	if st.LastReviewedAt != nil {
		l.LastReviewedAt = st.LastReviewedAt.UTC().Format(time.RFC3339Nano)
	}
	return l
}

func attemptLine(rec *entity.AttemptRecord) line {
	correct := rec.Correct
	return line{
		Kind:        kindAttempt,
		WordKey:     rec.WordKey,
		AttemptedAt: rec.AttemptedAt.UTC().Format(time.RFC3339Nano),
		Correct:     &correct,
		LatencyMs:   rec.Latency.Milliseconds(),
	}
}
