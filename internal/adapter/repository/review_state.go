package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

const dueDateLayout = "2006-01-02"

type reviewStateRow struct {
	WordKey         string         `db:"word_key"`
	EasinessFactor  float64        `db:"easiness_factor"`
	IntervalDays    int            `db:"interval_days"`
	RepetitionCount int            `db:"repetition_count"`
	DueDate         string         `db:"due_date"`
	LastReviewedAt  sql.NullString `db:"last_reviewed_at"`
}

type reviewStateRepository struct {
	db *sqlx.DB
}

// NewReviewStateRepository constructs the sql-backed scheduling store.
// Writes are single-row upserts, so each record is atomic.
func NewReviewStateRepository(db *sqlx.DB) repository.ReviewStateRepository {
	return &reviewStateRepository{db: db}
}

func (r *reviewStateRepository) Load(ctx context.Context, wordKey string) (*entity.ReviewState, error) {
	var row reviewStateRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM review_states WHERE word_key = $1`, wordKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load review state: %w", err)
	}
	return fromReviewStateRow(&row)
}

func (r *reviewStateRepository) Save(ctx context.Context, state *entity.ReviewState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := toReviewStateRow(state)
	query := `
		INSERT INTO review_states (word_key, easiness_factor, interval_days, repetition_count, due_date, last_reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (word_key) DO UPDATE SET
			easiness_factor = excluded.easiness_factor,
			interval_days = excluded.interval_days,
			repetition_count = excluded.repetition_count,
			due_date = excluded.due_date,
			last_reviewed_at = excluded.last_reviewed_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		row.WordKey, row.EasinessFactor, row.IntervalDays, row.RepetitionCount,
		row.DueDate, row.LastReviewedAt,
	); err != nil {
		return fmt.Errorf("save review state: %w", err)
	}
	return nil
}

func (r *reviewStateRepository) ListDue(ctx context.Context, today time.Time) ([]*entity.ReviewState, error) {
	query := `
		SELECT * FROM review_states
		WHERE due_date <= $1
		ORDER BY due_date ASC, easiness_factor ASC
	`
	return r.list(ctx, query, entity.DateOf(today).Format(dueDateLayout))
}

func (r *reviewStateRepository) ListAll(ctx context.Context) ([]*entity.ReviewState, error) {
	return r.list(ctx, `SELECT * FROM review_states ORDER BY word_key ASC`)
}

func (r *reviewStateRepository) Delete(ctx context.Context, wordKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM review_states WHERE word_key = $1`, wordKey); err != nil {
		return fmt.Errorf("delete review state: %w", err)
	}
	return nil
}

func (r *reviewStateRepository) list(ctx context.Context, query string, args ...any) ([]*entity.ReviewState, error) {
	var rows []reviewStateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list review states: %w", err)
	}
	states := make([]*entity.ReviewState, 0, len(rows))
	for i := range rows {
		state, err := fromReviewStateRow(&rows[i])
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

func toReviewStateRow(state *entity.ReviewState) *reviewStateRow {
	row := &reviewStateRow{
		WordKey:         state.WordKey,
		EasinessFactor:  state.EasinessFactor,
		IntervalDays:    state.IntervalDays,
		RepetitionCount: state.RepetitionCount,
		DueDate:         state.DueDate.Format(dueDateLayout),
	}
	if state.LastReviewedAt != nil {
		row.LastReviewedAt = sql.NullString{
			String: state.LastReviewedAt.UTC().Format(timeLayout),
			Valid:  true,
		}
	}
	return row
}

func fromReviewStateRow(row *reviewStateRow) (*entity.ReviewState, error) {
	due, err := time.ParseInLocation(dueDateLayout, row.DueDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse due date: %w", err)
	}
	state := &entity.ReviewState{
		WordKey:         row.WordKey,
		EasinessFactor:  row.EasinessFactor,
		IntervalDays:    row.IntervalDays,
		RepetitionCount: row.RepetitionCount,
		DueDate:         due,
	}
	if row.LastReviewedAt.Valid {
		last, err := time.Parse(time.RFC3339Nano, row.LastReviewedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse last reviewed at: %w", err)
		}
		state.LastReviewedAt = &last
	}
	return state, nil
}
