package repository

import (
	"context"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// ListWordQuery holds parameters for listing deck words.
type ListWordQuery struct {
	Keyword string
	Limit   int32
	Offset  int32
}

// WordRepository abstracts the deck store. Word content is written only by
// deck imports; the scheduling core reads it.
type WordRepository interface {
	Upsert(ctx context.Context, word *entity.Word) (*entity.Word, error)
	GetByKey(ctx context.Context, key string) (*entity.Word, error)
	List(ctx context.Context, query *ListWordQuery) ([]*entity.Word, error)
	Delete(ctx context.Context, key string) error
}
