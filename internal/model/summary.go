package model

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary describes one completed generation run.
type RunSummary struct {
	RunID       string            `json:"run_id"`
	Scenario    string            `json:"scenario"`
	Profile     string            `json:"profile"`
	Seed        int64             `json:"seed"`
	FrameCount  int               `json:"frame_count"`
	ByteCount   int               `json:"byte_count"`
	FirstFrame  time.Time         `json:"first_frame"`
	LastFrame   time.Time         `json:"last_frame"`
	Details     map[string]string `json:"details,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// NewRunSummary creates a summary for a run of the named profile. The
// scenario name defaults to the profile name until a caller overrides it.
func NewRunSummary(profile string, seed int64) *RunSummary {
	return &RunSummary{
		RunID:       uuid.New().String(),
		Scenario:    profile,
		Profile:     profile,
		Seed:        seed,
		Details:     make(map[string]string),
		GeneratedAt: time.Now().UTC(),
	}
}

// CountBatch fills the frame statistics from the finished batch.
func (s *RunSummary) CountBatch(b *PacketBatch) {
	s.FrameCount = b.Len()
	s.ByteCount = b.ByteCount()
	s.FirstFrame, s.LastFrame = b.Bounds()
}

// Duration returns the capture time span of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.FirstFrame.IsZero() || s.LastFrame.IsZero() {
		return 0
	}
	return s.LastFrame.Sub(s.FirstFrame)
}
