package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

// ImportSummary reports the outcome of a deck import.
type ImportSummary struct {
	Processed int
	Imported  int
	Skipped   int
}

// DeckUsecase manages deck membership. Review state lives exactly as long as
// deck membership does: removing a word removes its scheduling state, while
// the attempt log is kept (history is deck-independent).
type DeckUsecase interface {
	ImportWords(ctx context.Context, words []*entity.Word) (*ImportSummary, error)
	ActiveDeck(ctx context.Context) (*entity.Deck, error)
	RemoveWord(ctx context.Context, key string) error
}

// NewDeckUsecase wires the deck store with the scheduler for state cleanup.
func NewDeckUsecase(words repository.WordRepository, scheduler SchedulerUsecase) DeckUsecase {
	return &deckUsecase{
		words:     words,
		scheduler: scheduler,
		clock:     time.Now,
	}
}

type deckUsecase struct {
	words     repository.WordRepository
	scheduler SchedulerUsecase
	clock     func() time.Time
}

func (u *deckUsecase) ImportWords(ctx context.Context, words []*entity.Word) (*ImportSummary, error) {
	summary := &ImportSummary{}
	now := u.clock()
	for _, w := range words {
		summary.Processed++
		if strings.TrimSpace(w.Text) == "" {
			summary.Skipped++
			continue
		}
		w.Normalize(now)
		if _, err := u.words.Upsert(ctx, w); err != nil {
			return summary, fmt.Errorf("upsert word %q: %w", w.Text, err)
		}
		summary.Imported++
	}
	return summary, nil
}

func (u *deckUsecase) ActiveDeck(ctx context.Context) (*entity.Deck, error) {
	words, err := u.words.List(ctx, &repository.ListWordQuery{})
	if err != nil {
		return nil, fmt.Errorf("list deck words: %w", err)
	}
	return entity.NewDeck("default", words), nil
}

func (u *deckUsecase) RemoveWord(ctx context.Context, key string) error {
	norm := entity.NormalizeWordToken(key)
	if norm == "" {
		return entity.ErrInvalidWordText
	}
	if err := u.words.Delete(ctx, norm); err != nil {
		return fmt.Errorf("delete word: %w", err)
	}
	return u.scheduler.Forget(ctx, norm)
}
