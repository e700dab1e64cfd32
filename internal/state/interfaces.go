package state

import "context"

// DocumentStore is the document side of the store used by the pipeline and stats.
type DocumentStore interface {
	Get(ctx context.Context, path string) (Document, bool, error)
	Upsert(ctx context.Context, doc Document) error
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, path string) error
	Totals(ctx context.Context) (Totals, error)
}

// RunStore records pipeline runs.
type RunStore interface {
	BeginRun(ctx context.Context, run Run) error
	FinishRun(ctx context.Context, run Run) error
	LastRun(ctx context.Context) (Run, bool, error)
}

// Store combines both sides.
type Store interface {
	DocumentStore
	RunStore
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
