package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

// SchedulerUsecase applies the SM-2 spaced-repetition algorithm. Grading is
// a pure function of the current state and one observation; the only failure
// modes are invalid input and storage errors.
type SchedulerUsecase interface {
	// Grade applies one recall observation to a word and persists the
	// updated state before returning it. An unknown word implicitly gets
	// the default state first. Quality outside [0,5] is rejected with
	// entity.ErrInvalidGrade and leaves no trace.
	Grade(ctx context.Context, wordKey string, quality entity.Quality) (*entity.ReviewState, error)
	// DueStates lists review states due on or before today, most overdue
	// first, lowest easiness factor breaking ties.
	DueStates(ctx context.Context, today time.Time) ([]*entity.ReviewState, error)
	// Forget removes a word's scheduling state when it leaves the deck.
	Forget(ctx context.Context, wordKey string) error
}

// NewSchedulerUsecase wires the review-state repository with default behaviour.
func NewSchedulerUsecase(repo repository.ReviewStateRepository) SchedulerUsecase {
	return &schedulerUsecase{
		repo:  repo,
		clock: time.Now,
	}
}

type schedulerUsecase struct {
	repo  repository.ReviewStateRepository
	clock func() time.Time

	// locks serializes grading per word key. Updates for different words
	// may proceed concurrently; two updates for the same word may not.
	locks sync.Map // word key -> *sync.Mutex
}

func (u *schedulerUsecase) Grade(ctx context.Context, wordKey string, quality entity.Quality) (*entity.ReviewState, error) {
	if !quality.Valid() {
		return nil, fmt.Errorf("%w: %d", entity.ErrInvalidGrade, quality)
	}
	key := entity.NormalizeWordToken(wordKey)
	if key == "" {
		return nil, entity.ErrInvalidWordText
	}

	mu := u.wordLock(key)
	mu.Lock()
	defer mu.Unlock()

	state, err := u.repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load review state: %w", err)
	}
	now := u.clock()
	if state == nil {
		state = entity.NewReviewState(key, now)
	}

	state.Apply(quality, now)

	// The in-memory update is not committed until persistence confirms.
	if err := u.repo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save review state: %w", err)
	}
	return state, nil
}

func (u *schedulerUsecase) DueStates(ctx context.Context, today time.Time) ([]*entity.ReviewState, error) {
	return u.repo.ListDue(ctx, entity.DateOf(today))
}

func (u *schedulerUsecase) Forget(ctx context.Context, wordKey string) error {
	key := entity.NormalizeWordToken(wordKey)
	if key == "" {
		return entity.ErrInvalidWordText
	}
	mu := u.wordLock(key)
	mu.Lock()
	defer mu.Unlock()
	return u.repo.Delete(ctx, key)
}

func (u *schedulerUsecase) wordLock(key string) *sync.Mutex {
	actual, _ := u.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
