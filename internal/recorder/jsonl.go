package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"Go2NetForge/internal/model"
)

const defaultJSONLPath = "runs.jsonl"

// JSONLRecorder appends run summaries to a JSON Lines file.
type JSONLRecorder struct {
	mu   sync.Mutex
	path string
}

// NewJSONLRecorder creates a recorder appending to the given path,
// "runs.jsonl" when empty.
func NewJSONLRecorder(path string) *JSONLRecorder {
	if path == "" {
		path = defaultJSONLPath
	}
	return &JSONLRecorder{path: path}
}

// Record appends one summary line.
func (r *JSONLRecorder) Record(_ context.Context, summary *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open summary file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per record.
func (r *JSONLRecorder) Close() error { return nil }
