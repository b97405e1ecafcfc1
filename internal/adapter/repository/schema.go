package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Timestamps are stored as fixed-width RFC3339 strings and due dates as
// YYYY-MM-DD so the same queries run on sqlite and postgres; lexicographic
// order matches chronological order for both formats. The fractional digits
// must not be trimmed (time.RFC3339Nano trims trailing zeros, which sorts
// "...05.15Z" before "...05.1Z").
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY,
		key TEXT UNIQUE NOT NULL,
		text TEXT NOT NULL,
		phonetic TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		examples TEXT NOT NULL DEFAULT '[]',
		definitions TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS review_states (
		word_key TEXT PRIMARY KEY,
		easiness_factor REAL NOT NULL,
		interval_days INTEGER NOT NULL,
		repetition_count INTEGER NOT NULL,
		due_date TEXT NOT NULL,
		last_reviewed_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY,
		word_key TEXT NOT NULL,
		attempted_at TEXT NOT NULL,
		correct INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_word_key ON attempts (word_key)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_attempted_at ON attempts (attempted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_review_states_due_date ON review_states (due_date)`,
}

// postgres needs explicit sequences where sqlite auto-rowids suffice.
var migrationsPostgres = []string{
	`CREATE TABLE IF NOT EXISTS words (
		id BIGSERIAL PRIMARY KEY,
		key TEXT UNIQUE NOT NULL,
		text TEXT NOT NULL,
		phonetic TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		examples TEXT NOT NULL DEFAULT '[]',
		definitions TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS review_states (
		word_key TEXT PRIMARY KEY,
		easiness_factor DOUBLE PRECISION NOT NULL,
		interval_days INTEGER NOT NULL,
		repetition_count INTEGER NOT NULL,
		due_date TEXT NOT NULL,
		last_reviewed_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id BIGSERIAL PRIMARY KEY,
		word_key TEXT NOT NULL,
		attempted_at TEXT NOT NULL,
		correct INTEGER NOT NULL,
		latency_ms BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_word_key ON attempts (word_key)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_attempted_at ON attempts (attempted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_review_states_due_date ON review_states (due_date)`,
}

// Migrate creates the schema for the connected driver.
func Migrate(db *sqlx.DB) error {
	stmts := migrations
	if db.DriverName() == "postgres" {
		stmts = migrationsPostgres
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}
