package model

import (
	"sort"
	"time"

	"Go2NetForge/pkg/capture"
)

// PacketBatch is an ordered collection of generated frames bound for a
// capture file.
type PacketBatch struct {
	Frames []*Frame
}

// NewPacketBatch returns an empty batch.
func NewPacketBatch() *PacketBatch {
	return &PacketBatch{}
}

// Append adds frames to the batch.
func (b *PacketBatch) Append(frames ...*Frame) {
	b.Frames = append(b.Frames, frames...)
}

// Len returns the number of frames in the batch.
func (b *PacketBatch) Len() int {
	return len(b.Frames)
}

// ByteCount returns the total wire size of the batch.
func (b *PacketBatch) ByteCount() int {
	total := 0
	for _, f := range b.Frames {
		total += len(f.Data)
	}
	return total
}

// SortByTime orders the batch by timestamp, preserving the relative order
// of frames with equal timestamps.
func (b *PacketBatch) SortByTime() {
	sort.SliceStable(b.Frames, func(i, j int) bool {
		return b.Frames[i].Timestamp.Before(b.Frames[j].Timestamp)
	})
}

// Bounds returns the timestamps of the earliest and latest frames, both
// zero for an empty batch.
func (b *PacketBatch) Bounds() (first, last time.Time) {
	for _, f := range b.Frames {
		if first.IsZero() || f.Timestamp.Before(first) {
			first = f.Timestamp
		}
		if f.Timestamp.After(last) {
			last = f.Timestamp
		}
	}
	return first, last
}

// Records converts the batch to capture records.
func (b *PacketBatch) Records() []capture.Record {
	records := make([]capture.Record, 0, len(b.Frames))
	for _, f := range b.Frames {
		records = append(records, capture.Record{Timestamp: f.Timestamp, Data: f.Data})
	}
	return records
}
