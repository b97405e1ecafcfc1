package entity

import "errors"

// Domain errors for the review scheduling core.
var (
	// ErrInvalidGrade rejects grades outside [0,5]. The grading never
	// mutates state when this is returned.
	ErrInvalidGrade = errors.New("grade quality outside [0,5]")

	// ErrWordNotInDeck marks an operation on a word absent from the active
	// deck. Tolerated for attempt recording (history is deck-independent);
	// callers decide whether to warn.
	ErrWordNotInDeck = errors.New("word not in active deck")

	ErrWordNotFound    = errors.New("word not found")
	ErrInvalidWordText = errors.New("invalid word text")
	ErrEmptyDeck       = errors.New("deck has no words")
)
