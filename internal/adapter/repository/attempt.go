package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

type attemptRow struct {
	ID          int64  `db:"id"`
	WordKey     string `db:"word_key"`
	AttemptedAt string `db:"attempted_at"`
	Correct     int    `db:"correct"`
	LatencyMs   int64  `db:"latency_ms"`
}

type attemptLogRepository struct {
	db *sqlx.DB
}

// NewAttemptLogRepository constructs the append-only attempt log.
func NewAttemptLogRepository(db *sqlx.DB) repository.AttemptLogRepository {
	return &attemptLogRepository{db: db}
}

func (r *attemptLogRepository) Append(ctx context.Context, record *entity.AttemptRecord) (*entity.AttemptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	correct := 0
	if record.Correct {
		correct = 1
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts (word_key, attempted_at, correct, latency_ms) VALUES ($1, $2, $3, $4)`,
		record.WordKey,
		record.AttemptedAt.UTC().Format(timeLayout),
		correct,
		record.Latency.Milliseconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("append attempt: %w", err)
	}
	stored := *record
	if id, err := res.LastInsertId(); err == nil {
		stored.ID = id
	}
	return &stored, nil
}

func (r *attemptLogRepository) List(ctx context.Context, query *repository.ListAttemptQuery) ([]*entity.AttemptRecord, error) {
	if query == nil {
		query = &repository.ListAttemptQuery{}
	}
	sqlQuery := `SELECT * FROM attempts`
	where := ""
	args := []any{}
	appendCond := func(cond string, arg ...any) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
		args = append(args, arg...)
	}
	if query.WordKey != "" {
		appendCond(fmt.Sprintf("word_key = $%d", len(args)+1), query.WordKey)
	}
	if query.OnlyWrong {
		appendCond("correct = 0")
	}
	sqlQuery += where + ` ORDER BY attempted_at DESC, id DESC`
	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(` LIMIT %d`, query.Limit)
	}

	var rows []attemptRow
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	records := make([]*entity.AttemptRecord, 0, len(rows))
	for i := range rows {
		record, err := fromAttemptRow(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *attemptLogRepository) StatsByWord(ctx context.Context) (map[string]entity.WordStats, error) {
	type statsRow struct {
		WordKey  string `db:"word_key"`
		Attempts int    `db:"attempts"`
		Correct  int    `db:"correct"`
	}
	var rows []statsRow
	query := `
		SELECT word_key, COUNT(*) AS attempts, COALESCE(SUM(correct), 0) AS correct
		FROM attempts
		GROUP BY word_key
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("aggregate attempts: %w", err)
	}
	stats := make(map[string]entity.WordStats, len(rows))
	for _, row := range rows {
		stats[row.WordKey] = entity.WordStats{
			WordKey:  row.WordKey,
			Attempts: row.Attempts,
			Correct:  row.Correct,
		}
	}
	return stats, nil
}

func fromAttemptRow(row *attemptRow) (*entity.AttemptRecord, error) {
	attemptedAt, err := time.Parse(time.RFC3339Nano, row.AttemptedAt)
	if err != nil {
		return nil, fmt.Errorf("parse attempted_at: %w", err)
	}
	return &entity.AttemptRecord{
		ID:          row.ID,
		WordKey:     row.WordKey,
		AttemptedAt: attemptedAt,
		Correct:     row.Correct != 0,
		Latency:     time.Duration(row.LatencyMs) * time.Millisecond,
	}, nil
}
