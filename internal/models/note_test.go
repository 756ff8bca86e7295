package models

import (
	"testing"
	"time"
)

func TestNoteRecord_SendHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	fresh := NoteRecord{Path: "a.md"}
	if !fresh.NeverSent() {
		t.Error("note without LastSentAt must report NeverSent")
	}
	if got := fresh.DaysSinceSent(now); got != 0 {
		t.Errorf("DaysSinceSent for unsent note = %v, want 0", got)
	}

	sent := now.Add(-36 * time.Hour)
	old := NoteRecord{Path: "b.md", LastSentAt: &sent}
	if old.NeverSent() {
		t.Error("note with LastSentAt must not report NeverSent")
	}
	if got := old.DaysSinceSent(now); got != 1.5 {
		t.Errorf("DaysSinceSent = %v, want 1.5", got)
	}
}

func TestNoteRecord_AgeDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	n := NoteRecord{ModifiedAt: now.Add(-48 * time.Hour)}
	if got := n.AgeDays(now); got != 2 {
		t.Errorf("AgeDays = %v, want 2", got)
	}

	future := NoteRecord{ModifiedAt: now.Add(time.Hour)}
	if got := future.AgeDays(now); got != 0 {
		t.Errorf("future-modified AgeDays = %v, want 0", got)
	}
}
