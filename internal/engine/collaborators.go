package engine

import (
	"context"
	"time"

	"github.com/mkondo/erabu/internal/models"
)

// NoteSource supplies the candidate pool. Implemented by the scanner or
// database collaborator; paths must be unique within one call.
type NoteSource interface {
	Notes(ctx context.Context) ([]models.NoteRecord, error)
}

// HistoryRecorder persists which notes were delivered. The engine never
// calls it: recording a send after successful delivery is the caller's
// responsibility, which is why selection itself never marks anything sent.
type HistoryRecorder interface {
	MarkSent(ctx context.Context, paths []string, at time.Time) error
}
