package repository

import (
	"context"
	"time"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// ReviewStateRepository is the durable per-word scheduling store. Writes are
// atomic per record; Load of an unknown word returns (nil, nil) so the
// scheduler can create the default state.
type ReviewStateRepository interface {
	Load(ctx context.Context, wordKey string) (*entity.ReviewState, error)
	Save(ctx context.Context, state *entity.ReviewState) error
	// ListDue returns states with DueDate <= the given day, most overdue
	// first, ties broken by lowest easiness factor.
	ListDue(ctx context.Context, today time.Time) ([]*entity.ReviewState, error)
	ListAll(ctx context.Context) ([]*entity.ReviewState, error)
	// Delete removes the state when its word leaves the deck.
	Delete(ctx context.Context, wordKey string) error
}
