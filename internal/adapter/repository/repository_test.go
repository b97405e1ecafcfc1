package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestWordRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	word := &entity.Word{
		Text:     "Apple",
		Phonetic: "/ˈæp.əl/",
		Tags:     []string{"n."},
		Examples: []string{"An apple a day."},
		Definitions: []entity.WordDefinition{
			{Pos: "n.", Text: "a round fruit"},
		},
	}
	word.Normalize(now)

	saved, err := repo.Upsert(ctx, word)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.Equal(t, "apple", saved.Key)
	require.Equal(t, "Apple", saved.Text)
	require.Equal(t, word.Definitions, saved.Definitions)
	require.Equal(t, word.Examples, saved.Examples)
	require.True(t, saved.CreatedAt.Equal(now))

	got, err := repo.GetByKey(ctx, "apple")
	require.NoError(t, err)
	require.Equal(t, saved.ID, got.ID)
}

func TestWordRepositoryUpsertReplacesContent(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	word := &entity.Word{Text: "apple", Definitions: []entity.WordDefinition{{Pos: "n.", Text: "a fruit"}}}
	word.Normalize(now)
	first, err := repo.Upsert(ctx, word)
	require.NoError(t, err)

	word.Definitions = []entity.WordDefinition{{Pos: "n.", Text: "a round fruit"}}
	word.Normalize(now.Add(time.Hour))
	second, err := repo.Upsert(ctx, word)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "upsert must not create a second row")
	require.Equal(t, "a round fruit", second.PrimaryDefinition())

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestWordRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))

	_, err := repo.GetByKey(ctx, "missing")
	require.ErrorIs(t, err, entity.ErrWordNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "missing"), entity.ErrWordNotFound)
}

func TestWordRepositoryListByKeyword(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, text := range []string{"apple", "applaud", "pear"} {
		w := &entity.Word{Text: text}
		w.Normalize(now)
		_, err := repo.Upsert(ctx, w)
		require.NoError(t, err)
	}

	words, err := repo.List(ctx, &repository.ListWordQuery{Keyword: "appl"})
	require.NoError(t, err)
	require.Len(t, words, 2)

	words, err = repo.List(ctx, &repository.ListWordQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.Equal(t, "applaud", words[0].Key)
}

func TestReviewStateRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewStateRepository(newTestDB(t))

	missing, err := repo.Load(ctx, "apple")
	require.NoError(t, err)
	require.Nil(t, missing, "unknown word must load as nil state, not an error")

	reviewed := time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC)
	state := &entity.ReviewState{
		WordKey:         "apple",
		EasinessFactor:  2.6,
		IntervalDays:    6,
		RepetitionCount: 2,
		DueDate:         time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		LastReviewedAt:  &reviewed,
	}
	require.NoError(t, repo.Save(ctx, state))

	got, err := repo.Load(ctx, "apple")
	require.NoError(t, err)
	require.Equal(t, state.EasinessFactor, got.EasinessFactor)
	require.Equal(t, state.IntervalDays, got.IntervalDays)
	require.Equal(t, state.RepetitionCount, got.RepetitionCount)
	require.True(t, got.DueDate.Equal(state.DueDate))
	require.NotNil(t, got.LastReviewedAt)
	require.True(t, got.LastReviewedAt.Equal(reviewed))

	// Save again is an update, not a second row.
	state.RepetitionCount = 3
	require.NoError(t, repo.Save(ctx, state))
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 3, all[0].RepetitionCount)
}

func TestReviewStateRepositoryListDue(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewStateRepository(newTestDB(t))
	today := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	seed := func(key string, due time.Time, ef float64) {
		require.NoError(t, repo.Save(ctx, &entity.ReviewState{
			WordKey:        key,
			EasinessFactor: ef,
			DueDate:        entity.DateOf(due),
		}))
	}
	seed("late", today.AddDate(0, 0, -3), 2.5)
	seed("hard", today, 1.4)
	seed("easy", today, 2.5)
	seed("future", today.AddDate(0, 0, 2), 1.3)

	due, err := repo.ListDue(ctx, today)
	require.NoError(t, err)

	keys := make([]string, 0, len(due))
	for _, s := range due {
		keys = append(keys, s.WordKey)
	}
	require.Equal(t, []string{"late", "hard", "easy"}, keys)
}

func TestReviewStateRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewStateRepository(newTestDB(t))

	require.NoError(t, repo.Save(ctx, &entity.ReviewState{
		WordKey:        "apple",
		EasinessFactor: 2.5,
		DueDate:        time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.Delete(ctx, "apple"))

	got, err := repo.Load(ctx, "apple")
	require.NoError(t, err)
	require.Nil(t, got)

	// Deleting a missing state is a no-op.
	require.NoError(t, repo.Delete(ctx, "apple"))
}

func TestAttemptLogRepositoryAppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewAttemptLogRepository(newTestDB(t))
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	record := func(key string, correct bool, offset time.Duration) {
		_, err := repo.Append(ctx, &entity.AttemptRecord{
			WordKey:     key,
			AttemptedAt: base.Add(offset),
			Correct:     correct,
			Latency:     1500 * time.Millisecond,
		})
		require.NoError(t, err)
	}
	record("apple", true, 0)
	record("apple", false, time.Minute)
	record("pear", false, 2*time.Minute)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "pear", all[0].WordKey, "newest first")
	require.Equal(t, 1500*time.Millisecond, all[0].Latency)

	apple, err := repo.List(ctx, &repository.ListAttemptQuery{WordKey: "apple"})
	require.NoError(t, err)
	require.Len(t, apple, 2)

	wrong, err := repo.List(ctx, &repository.ListAttemptQuery{OnlyWrong: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, wrong, 1)
	require.Equal(t, "pear", wrong[0].WordKey)
	require.False(t, wrong[0].Correct)
}

func TestAttemptLogRepositoryOrdersSubSecondTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewAttemptLogRepository(newTestDB(t))
	base := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)

	// Both land in the same second; the 100ms one serializes with fewer
	// fractional digits than the 150ms one under a trimming layout, which
	// would sort it after despite being older.
	_, err := repo.Append(ctx, &entity.AttemptRecord{
		WordKey:     "older",
		AttemptedAt: base.Add(100 * time.Millisecond),
	})
	require.NoError(t, err)
	_, err = repo.Append(ctx, &entity.AttemptRecord{
		WordKey:     "newer",
		AttemptedAt: base.Add(150 * time.Millisecond),
	})
	require.NoError(t, err)

	records, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "newer", records[0].WordKey)
	require.Equal(t, "older", records[1].WordKey)
}

func TestAttemptLogRepositoryStatsByWord(t *testing.T) {
	ctx := context.Background()
	repo := NewAttemptLogRepository(newTestDB(t))
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	outcomes := []struct {
		key     string
		correct bool
	}{
		{"apple", true}, {"apple", true}, {"apple", false},
		{"pear", false}, {"pear", false},
	}
	for i, o := range outcomes {
		_, err := repo.Append(ctx, &entity.AttemptRecord{
			WordKey:     o.key,
			AttemptedAt: base.Add(time.Duration(i) * time.Second),
			Correct:     o.correct,
		})
		require.NoError(t, err)
	}

	stats, err := repo.StatsByWord(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, entity.WordStats{WordKey: "apple", Attempts: 3, Correct: 2}, stats["apple"])
	require.Equal(t, entity.WordStats{WordKey: "pear", Attempts: 2, Correct: 0}, stats["pear"])
}
