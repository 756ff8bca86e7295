// Package models defines the core data structures exchanged with collaborators.
package models

import "time"

// NoteRecord is a single candidate note as supplied by the scanner/database
// collaborator. Records are read-only inside the engine; Path is the unique
// key within one selection run.
type NoteRecord struct {
	// Path is the file path of the note, unique within a pool.
	Path string `json:"path" yaml:"path"`
	// RawText is the full note text, already decoded by the scanner.
	RawText string `json:"raw_text" yaml:"raw_text"`
	// ModifiedAt is the last-modification time of the note.
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
	// Group is a coarse categorical bucket, typically the containing
	// directory, used for per-group selection quotas.
	Group string `json:"group" yaml:"group"`
	// WordCount is the scanner-reported word count of the note.
	WordCount int `json:"word_count" yaml:"word_count"`
	// LastSentAt is the time the note was last delivered, or nil if the
	// note has never been sent.
	LastSentAt *time.Time `json:"last_sent_at,omitempty" yaml:"last_sent_at,omitempty"`
}

// NeverSent reports whether the note has no recorded delivery.
func (n *NoteRecord) NeverSent() bool {
	return n.LastSentAt == nil
}

// DaysSinceSent returns the number of days between the last delivery and
// now. Returns 0 when the note has never been sent; callers should check
// NeverSent first.
func (n *NoteRecord) DaysSinceSent(now time.Time) float64 {
	if n.LastSentAt == nil {
		return 0
	}
	return now.Sub(*n.LastSentAt).Hours() / 24
}

// AgeDays returns the age of the note in days at the given instant.
// Notes modified after now report 0.
func (n *NoteRecord) AgeDays(now time.Time) float64 {
	age := now.Sub(n.ModifiedAt).Hours() / 24
	if age < 0 {
		return 0
	}
	return age
}
