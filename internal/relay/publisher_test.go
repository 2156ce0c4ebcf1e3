package relay

import (
	"Go2NetForge/pkg/capture"
	"bytes"
	"encoding/gob"
	"testing"
	"time"
)

func TestSplitRecords(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := make([]capture.Record, 5)
	for i := range records {
		records[i] = capture.Record{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Data:      make([]byte, 300000),
		}
	}

	// 1. Five 300 KB records against a 1 MB limit pack as 2+2+1
	chunks := splitRecords(records, 1<<20)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	sizes := []int{len(chunks[0]), len(chunks[1]), len(chunks[2])}
	if sizes[0] != 2 || sizes[1] != 2 || sizes[2] != 1 {
		t.Errorf("Expected chunk sizes 2,2,1, got %v", sizes)
	}

	// 2. Order and count survive the split
	n := 0
	for _, chunk := range chunks {
		for _, rec := range chunk {
			if !rec.Timestamp.Equal(records[n].Timestamp) {
				t.Errorf("Record %d out of order after the split", n)
			}
			n++
		}
	}
	if n != len(records) {
		t.Errorf("Expected %d records across chunks, got %d", len(records), n)
	}

	// 3. A single oversized record still forms its own chunk
	huge := []capture.Record{{Timestamp: base, Data: make([]byte, 2<<20)}}
	chunks = splitRecords(huge, 1<<20)
	if len(chunks) != 1 || len(chunks[0]) != 1 {
		t.Errorf("Expected one single-record chunk, got %d chunks", len(chunks))
	}

	// 4. No records, no chunks
	if chunks := splitRecords(nil, 1<<20); len(chunks) != 0 {
		t.Errorf("Expected no chunks for no records, got %d", len(chunks))
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	env := Envelope{
		RunID:    "2f1c9a7e-run",
		Scenario: "morning-browsing",
		Records: []capture.Record{
			{Timestamp: base, Data: []byte{1, 2, 3}},
			{Timestamp: base.Add(time.Millisecond), Data: []byte{4, 5}},
		},
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		t.Fatalf("Failed to encode envelope: %v", err)
	}
	var decoded Envelope
	if err := gob.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}

	if decoded.RunID != env.RunID || decoded.Scenario != env.Scenario {
		t.Errorf("Envelope header does not survive the round trip: %+v", decoded)
	}
	if len(decoded.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(decoded.Records))
	}
	for i, rec := range decoded.Records {
		if !rec.Timestamp.Equal(env.Records[i].Timestamp) {
			t.Errorf("Record %d timestamp does not survive the round trip", i)
		}
		if !bytes.Equal(rec.Data, env.Records[i].Data) {
			t.Errorf("Record %d bytes do not survive the round trip", i)
		}
	}
}
