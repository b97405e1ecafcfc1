package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

type fakeWordRepo struct {
	mu     sync.RWMutex
	items  map[string]*entity.Word
	nextID int64
}

func newFakeWordRepo() *fakeWordRepo {
	return &fakeWordRepo{items: make(map[string]*entity.Word)}
}

func (r *fakeWordRepo) Upsert(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *word
	if existing, ok := r.items[word.Key]; ok {
		stored.ID = existing.ID
	} else {
		r.nextID++
		stored.ID = r.nextID
	}
	r.items[word.Key] = &stored
	out := stored
	return &out, nil
}

func (r *fakeWordRepo) GetByKey(ctx context.Context, key string) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	word, ok := r.items[key]
	if !ok {
		return nil, entity.ErrWordNotFound
	}
	dup := *word
	return &dup, nil
}

func (r *fakeWordRepo) List(ctx context.Context, query *repository.ListWordQuery) ([]*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	words := make([]*entity.Word, 0, len(r.items))
	for _, w := range r.items {
		dup := *w
		words = append(words, &dup)
	}
	sort.Slice(words, func(i, j int) bool { return words[i].ID < words[j].ID })
	return words, nil
}

func (r *fakeWordRepo) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[key]; !ok {
		return entity.ErrWordNotFound
	}
	delete(r.items, key)
	return nil
}

func TestImportWords(t *testing.T) {
	words := newFakeWordRepo()
	scheduler := newTestScheduler(newFakeReviewStateRepo(), time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	uc := NewDeckUsecase(words, scheduler)

	summary, err := uc.ImportWords(context.Background(), []*entity.Word{
		{Text: "Apple", Definitions: []entity.WordDefinition{{Text: "a round fruit"}}},
		{Text: "   "},
		{Text: "pear"},
	})
	if err != nil {
		t.Fatalf("ImportWords failed: %v", err)
	}
	if summary.Processed != 3 || summary.Imported != 2 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want processed=3 imported=2 skipped=1", summary)
	}

	deck, err := uc.ActiveDeck(context.Background())
	if err != nil {
		t.Fatalf("ActiveDeck failed: %v", err)
	}
	if deck.Size() != 2 {
		t.Errorf("expected 2 deck words, got %d", deck.Size())
	}
	if !deck.Contains("apple") {
		t.Error("imported word missing from deck")
	}
}

func TestImportWordsUpdatesExisting(t *testing.T) {
	words := newFakeWordRepo()
	scheduler := newTestScheduler(newFakeReviewStateRepo(), time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	uc := NewDeckUsecase(words, scheduler)

	importOne := func(definition string) {
		t.Helper()
		_, err := uc.ImportWords(context.Background(), []*entity.Word{
			{Text: "apple", Definitions: []entity.WordDefinition{{Text: definition}}},
		})
		if err != nil {
			t.Fatalf("ImportWords failed: %v", err)
		}
	}
	importOne("a fruit")
	importOne("a round fruit")

	deck, err := uc.ActiveDeck(context.Background())
	if err != nil {
		t.Fatalf("ActiveDeck failed: %v", err)
	}
	if deck.Size() != 1 {
		t.Fatalf("re-import must not duplicate, got %d words", deck.Size())
	}
	if got := deck.Lookup("apple").PrimaryDefinition(); got != "a round fruit" {
		t.Errorf("expected updated definition, got %q", got)
	}
}

func TestRemoveWordDropsReviewState(t *testing.T) {
	words := newFakeWordRepo()
	states := newFakeReviewStateRepo()
	scheduler := newTestScheduler(states, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	uc := NewDeckUsecase(words, scheduler)

	if _, err := uc.ImportWords(context.Background(), []*entity.Word{{Text: "apple"}}); err != nil {
		t.Fatalf("ImportWords failed: %v", err)
	}
	if _, err := scheduler.Grade(context.Background(), "apple", entity.QualityPerfect); err != nil {
		t.Fatalf("Grade failed: %v", err)
	}

	if err := uc.RemoveWord(context.Background(), "Apple"); err != nil {
		t.Fatalf("RemoveWord failed: %v", err)
	}

	if _, err := words.GetByKey(context.Background(), "apple"); !errors.Is(err, entity.ErrWordNotFound) {
		t.Errorf("expected word gone, got %v", err)
	}
	if state, _ := states.Load(context.Background(), "apple"); state != nil {
		t.Error("review state must not outlive deck membership")
	}
}

func TestRemoveUnknownWord(t *testing.T) {
	uc := NewDeckUsecase(newFakeWordRepo(), newTestScheduler(newFakeReviewStateRepo(), time.Now()))

	if err := uc.RemoveWord(context.Background(), "missing"); !errors.Is(err, entity.ErrWordNotFound) {
		t.Errorf("expected ErrWordNotFound, got %v", err)
	}
	if err := uc.RemoveWord(context.Background(), "  "); !errors.Is(err, entity.ErrInvalidWordText) {
		t.Errorf("expected ErrInvalidWordText, got %v", err)
	}
}
