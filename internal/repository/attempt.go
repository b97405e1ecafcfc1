package repository

import (
	"context"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// ListAttemptQuery filters the attempt log.
type ListAttemptQuery struct {
	WordKey   string // empty matches all words
	OnlyWrong bool
	Limit     int32 // 0 means no limit
}

// AttemptLogRepository is the append-only quiz history. Records are never
// updated or deleted; aggregation queries recompute from the log so derived
// classifications cannot go stale.
type AttemptLogRepository interface {
	Append(ctx context.Context, record *entity.AttemptRecord) (*entity.AttemptRecord, error)
	// List returns matching records ordered by timestamp descending.
	List(ctx context.Context, query *ListAttemptQuery) ([]*entity.AttemptRecord, error)
	// StatsByWord aggregates attempt and correct counts per word key.
	StatsByWord(ctx context.Context) (map[string]entity.WordStats, error)
}
