package port

import (
	"context"

	"github.com/arturoeanton/codeguard/internal/domain"
)

// ActivitySink persists activity records. Records are append-only:
// a sink never rewrites or deletes a record once written.
type ActivitySink interface {
	// Name identifies the sink in logs (e.g. "csv", "postgres").
	Name() string

	// Append writes one record.
	Append(ctx context.Context, rec domain.ActivityRecord) error
}

// ActivityReader is implemented by sinks that can report on past records.
type ActivityReader interface {
	// Count returns the number of records written (header excluded).
	Count(ctx context.Context) (int, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ActivityRecord, error)
}
