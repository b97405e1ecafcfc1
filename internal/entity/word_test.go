package entity

import (
	"testing"
	"time"
)

func TestNormalizeWordToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple", "apple"},
		{"  Boat  ", "boat"},
		{"HELLO", "hello"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeWordToken(tt.in); got != tt.want {
			t.Errorf("NormalizeWordToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWordNormalize(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	w := &Word{Text: "  Apple "}
	w.Normalize(now)

	if w.Key != "apple" {
		t.Errorf("key: got %q, want apple", w.Key)
	}
	if w.Tags == nil || w.Examples == nil {
		t.Error("Normalize must default nil slices")
	}
	if !w.CreatedAt.Equal(now) || !w.UpdatedAt.Equal(now) {
		t.Errorf("timestamps not set: created=%v updated=%v", w.CreatedAt, w.UpdatedAt)
	}

	later := now.Add(time.Hour)
	w.Normalize(later)
	if !w.CreatedAt.Equal(now) {
		t.Error("Normalize must not overwrite CreatedAt")
	}
	if !w.UpdatedAt.Equal(later) {
		t.Error("Normalize must bump UpdatedAt")
	}
}

func TestNewDeckDeduplicates(t *testing.T) {
	deck := NewDeck("mixed", []*Word{
		{Text: "Apple"},
		{Text: "apple "}, // case-insensitive duplicate
		{Text: "pear"},
		{Text: "   "}, // blank entries are dropped
	})

	if deck.Size() != 2 {
		t.Fatalf("expected 2 distinct words, got %d", deck.Size())
	}
	if !deck.Contains("APPLE") || !deck.Contains("pear") {
		t.Error("deck membership must be case-insensitive")
	}
	if deck.Contains("plum") {
		t.Error("unexpected member plum")
	}
	if w := deck.Lookup("Apple"); w == nil || w.Text != "Apple" {
		t.Errorf("Lookup should return the first spelling imported, got %+v", w)
	}
}

func TestPrimaryDefinition(t *testing.T) {
	w := &Word{Definitions: []WordDefinition{{Pos: "n.", Text: "a fruit"}, {Pos: "n.", Text: "a company"}}}
	if got := w.PrimaryDefinition(); got != "a fruit" {
		t.Errorf("PrimaryDefinition() = %q, want first definition", got)
	}
	if got := (&Word{}).PrimaryDefinition(); got != "" {
		t.Errorf("expected empty for a word without definitions, got %q", got)
	}
}

func TestWordStatsWeak(t *testing.T) {
	tests := []struct {
		attempts int
		correct  int
		want     bool
	}{
		{0, 0, false},
		{2, 0, false}, // not enough attempts
		{3, 1, true},  // 33%
		{3, 2, false}, // 67%
		{5, 3, false}, // exactly 60% is not weak
		{10, 5, true}, // 50%
		{10, 10, false},
	}
	for _, tt := range tests {
		s := WordStats{Attempts: tt.attempts, Correct: tt.correct}
		if got := s.Weak(); got != tt.want {
			t.Errorf("%d/%d: Weak() = %v, want %v", tt.correct, tt.attempts, got, tt.want)
		}
	}
}
