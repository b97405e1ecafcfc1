package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/vocdrill/internal/entity"
	"github.com/eslsoft/vocdrill/internal/repository"
)

type wordRow struct {
	ID          int64  `db:"id"`
	Key         string `db:"key"`
	Text        string `db:"text"`
	Phonetic    string `db:"phonetic"`
	Tags        string `db:"tags"`
	Examples    string `db:"examples"`
	Definitions string `db:"definitions"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

type wordRepository struct {
	db *sqlx.DB
}

// NewWordRepository constructs the sql-backed deck store.
func NewWordRepository(db *sqlx.DB) repository.WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) Upsert(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := toWordRow(word)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO words (key, text, phonetic, tags, examples, definitions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (key) DO UPDATE SET
			text = excluded.text,
			phonetic = excluded.phonetic,
			tags = excluded.tags,
			examples = excluded.examples,
			definitions = excluded.definitions,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		row.Key, row.Text, row.Phonetic, row.Tags, row.Examples, row.Definitions,
		row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("upsert word: %w", err)
	}
	return r.GetByKey(ctx, word.Key)
}

func (r *wordRepository) GetByKey(ctx context.Context, key string) (*entity.Word, error) {
	var row wordRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM words WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrWordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	return fromWordRow(&row)
}

func (r *wordRepository) List(ctx context.Context, query *repository.ListWordQuery) ([]*entity.Word, error) {
	if query == nil {
		query = &repository.ListWordQuery{}
	}
	sqlQuery := `SELECT * FROM words`
	args := []any{}
	if query.Keyword != "" {
		sqlQuery += ` WHERE key LIKE $1`
		args = append(args, "%"+entity.NormalizeWordToken(query.Keyword)+"%")
	}
	sqlQuery += ` ORDER BY id ASC`
	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(` LIMIT %d OFFSET %d`, query.Limit, query.Offset)
	}

	var rows []wordRow
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	words := make([]*entity.Word, 0, len(rows))
	for i := range rows {
		word, err := fromWordRow(&rows[i])
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, nil
}

func (r *wordRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete word: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrWordNotFound
	}
	return nil
}

func toWordRow(word *entity.Word) (*wordRow, error) {
	tags, err := json.Marshal(word.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	examples, err := json.Marshal(word.Examples)
	if err != nil {
		return nil, fmt.Errorf("marshal examples: %w", err)
	}
	defs, err := json.Marshal(word.Definitions)
	if err != nil {
		return nil, fmt.Errorf("marshal definitions: %w", err)
	}
	return &wordRow{
		Key:         word.Key,
		Text:        word.Text,
		Phonetic:    word.Phonetic,
		Tags:        string(tags),
		Examples:    string(examples),
		Definitions: string(defs),
		CreatedAt:   word.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:   word.UpdatedAt.UTC().Format(timeLayout),
	}, nil
}

func fromWordRow(row *wordRow) (*entity.Word, error) {
	word := &entity.Word{
		ID:       row.ID,
		Key:      row.Key,
		Text:     row.Text,
		Phonetic: row.Phonetic,
	}
	if err := json.Unmarshal([]byte(row.Tags), &word.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Examples), &word.Examples); err != nil {
		return nil, fmt.Errorf("unmarshal examples: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Definitions), &word.Definitions); err != nil {
		return nil, fmt.Errorf("unmarshal definitions: %w", err)
	}
	var err error
	if word.CreatedAt, err = time.Parse(time.RFC3339Nano, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if word.UpdatedAt, err = time.Parse(time.RFC3339Nano, row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return word, nil
}
