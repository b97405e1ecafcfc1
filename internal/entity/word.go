package entity

import (
	"strings"
	"time"
)

// Word is a deck entry. Word content is loaded from a deck file and treated
// as read-only by the scheduling and tracking layers; they reference it by
// its normalized key only.
type Word struct {
	ID        int64
	Key       string // normalized token, case-insensitive identity
	Text      string // original spelling as imported
	Phonetic  string
	Tags      []string // part-of-speech tags
	Examples  []string
	CreatedAt time.Time
	UpdatedAt time.Time

	Definitions []WordDefinition
}

type WordDefinition struct {
	Pos  string
	Text string
}

// PrimaryDefinition returns the definition used as the correct answer in a
// quiz question. Empty when the word carries no definitions.
func (w *Word) PrimaryDefinition() string {
	if len(w.Definitions) == 0 {
		return ""
	}
	return w.Definitions[0].Text
}

// Normalize ensures defaults & constraints before persistence.
func (w *Word) Normalize(now time.Time) {
	w.Key = NormalizeWordToken(w.Text)
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if w.Examples == nil {
		w.Examples = []string{}
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
}

// NormalizeWordToken lowercases and trims a word so lookups are
// case-insensitive.
func NormalizeWordToken(word string) string {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

// Deck is the active, ordered word set the learner is studying. The core
// never mutates word content; membership changes happen only through the
// deck store.
type Deck struct {
	Name  string
	Words []*Word

	index map[string]*Word
}

// NewDeck builds a deck from an ordered word list, dropping entries whose
// normalized key collides with an earlier one.
func NewDeck(name string, words []*Word) *Deck {
	d := &Deck{Name: name, index: make(map[string]*Word, len(words))}
	for _, w := range words {
		key := NormalizeWordToken(w.Text)
		if key == "" {
			continue
		}
		if _, ok := d.index[key]; ok {
			continue
		}
		w.Key = key
		d.index[key] = w
		d.Words = append(d.Words, w)
	}
	return d
}

// Contains reports deck membership for a normalized word key.
func (d *Deck) Contains(key string) bool {
	_, ok := d.index[NormalizeWordToken(key)]
	return ok
}

// Lookup returns the deck word for a key, or nil when absent.
func (d *Deck) Lookup(key string) *Word {
	return d.index[NormalizeWordToken(key)]
}

// Size returns the number of distinct words in the deck.
func (d *Deck) Size() int {
	return len(d.Words)
}
