package model

import "context"

// Recorder defines a generic interface for persisting run summaries to a
// backing store.
type Recorder interface {
	// Record writes one run summary.
	Record(ctx context.Context, summary *RunSummary) error

	// Close releases the recorder's resources.
	Close() error
}
