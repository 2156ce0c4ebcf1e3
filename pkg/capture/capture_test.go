package capture

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// sampleRecords returns n records with whole-microsecond timestamps, the
// resolution a pcap file preserves.
func sampleRecords(n int, base time.Time) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
			Data:      bytes.Repeat([]byte{byte(0xA0 + i)}, 60),
		}
	}
	return records
}

func TestWriteReadRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "capture_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// 1. Write records out of order
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := sampleRecords(3, base)
	shuffled := []Record{records[2], records[0], records[1]}
	path := filepath.Join(tmpDir, "out.pcap")
	if err := WriteFile(path, shuffled); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// 2. Read them back in timestamp order
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(got))
	}
	for i, rec := range got {
		if !rec.Timestamp.Equal(records[i].Timestamp) {
			t.Errorf("Record %d has timestamp %s, expected %s", i, rec.Timestamp, records[i].Timestamp)
		}
		if !bytes.Equal(rec.Data, records[i].Data) {
			t.Errorf("Record %d bytes do not survive the round trip", i)
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("does-not-exist.pcap")
	if err == nil {
		t.Fatalf("Expected an error for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "capture_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "merged.pcap")

	// 1. Merging into a missing file creates it
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := sampleRecords(3, base.Add(time.Hour))
	total, err := Merge(path, later)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected 3 frames after the first merge, got %d", total)
	}

	// 2. Earlier records merged later still sort first
	earlier := sampleRecords(2, base)
	total, err = Merge(path, earlier)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected 5 frames after the second merge, got %d", total)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(earlier[0].Timestamp) {
		t.Errorf("First record is at %s, expected the earlier batch first", got[0].Timestamp)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("Merged file is not in timestamp order at record %d", i)
		}
	}
}

func TestMergeCommutative(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "capture_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// 1. Two distinguishable batches whose timestamps interleave
	base := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	first := sampleRecords(3, base)
	second := sampleRecords(3, base.Add(500*time.Microsecond))
	for i := range second {
		second[i].Data = bytes.Repeat([]byte{byte(0xB0 + i)}, 60)
	}

	// 2. Merge them in both orders into separate files
	pathAB := filepath.Join(tmpDir, "ab.pcap")
	for _, records := range [][]Record{first, second} {
		if _, err := Merge(pathAB, records); err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
	}
	pathBA := filepath.Join(tmpDir, "ba.pcap")
	for _, records := range [][]Record{second, first} {
		if _, err := Merge(pathBA, records); err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
	}

	// 3. Both orders yield the same interleaved sequence
	gotAB, err := ReadFile(pathAB)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	gotBA, err := ReadFile(pathBA)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := []Record{first[0], second[0], first[1], second[1], first[2], second[2]}
	if len(gotAB) != len(want) || len(gotBA) != len(want) {
		t.Fatalf("Expected %d records, got %d and %d", len(want), len(gotAB), len(gotBA))
	}
	for i := range want {
		if !gotAB[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("Record %d is at %s, expected %s", i, gotAB[i].Timestamp, want[i].Timestamp)
		}
		if !bytes.Equal(gotAB[i].Data, want[i].Data) {
			t.Errorf("Record %d does not match the expected interleaving", i)
		}
		if !gotAB[i].Timestamp.Equal(gotBA[i].Timestamp) {
			t.Errorf("Record %d timestamps differ between merge orders: %s vs %s",
				i, gotAB[i].Timestamp, gotBA[i].Timestamp)
		}
		if !bytes.Equal(gotAB[i].Data, gotBA[i].Data) {
			t.Errorf("Record %d bytes differ between merge orders", i)
		}
	}
}

func TestMergeConcurrent(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "capture_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "concurrent.pcap")

	base := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	workers := 8
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := Record{
				Timestamp: base.Add(time.Duration(w) * time.Millisecond),
				Data:      bytes.Repeat([]byte{byte(w)}, 40),
			}
			_, errs[w] = Merge(path, []Record{rec})
		}()
	}
	wg.Wait()

	for w, err := range errs {
		if err != nil {
			t.Fatalf("Merge from worker %d failed: %v", w, err)
		}
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(got) != workers {
		t.Errorf("Expected %d records after concurrent merges, got %d", workers, len(got))
	}
}

func TestWriteFileReplaces(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "capture_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "replace.pcap")

	base := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	if err := WriteFile(path, sampleRecords(3, base)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(path, sampleRecords(1, base)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected the rewrite to hold 1 record, got %d", len(got))
	}
}
