package recorder

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"Go2NetForge/internal/config"
	"Go2NetForge/internal/model"
)

func TestJSONLRecorder_Record(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "recorder_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// 1. Record two runs into a nested path
	path := filepath.Join(tmpDir, "history", "runs.jsonl")
	rec := NewJSONLRecorder(path)
	defer rec.Close()

	first := model.NewRunSummary("browsing", 42)
	first.FrameCount = 120
	second := model.NewRunSummary("synflood", 42)
	second.FrameCount = 200

	if err := rec.Record(context.Background(), first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := rec.Record(context.Background(), second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// 2. The file holds one JSON document per line
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open summary file: %v", err)
	}
	defer f.Close()

	var summaries []model.RunSummary
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var s model.RunSummary
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			t.Fatalf("Failed to unmarshal summary line: %v", err)
		}
		summaries = append(summaries, s)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Failed to scan summary file: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summary lines, got %d", len(summaries))
	}
	if summaries[0].Profile != "browsing" || summaries[0].FrameCount != 120 {
		t.Errorf("First summary is %s/%d", summaries[0].Profile, summaries[0].FrameCount)
	}
	if summaries[1].Profile != "synflood" || summaries[1].RunID != second.RunID {
		t.Errorf("Second summary does not match the recorded run")
	}
}

func TestBuild(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "recorder_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	defs := []config.RecorderDef{
		{Type: "jsonl", Enabled: false},
		{Type: "jsonl", Enabled: true, JSONL: config.JSONLConfig{Path: filepath.Join(tmpDir, "runs.jsonl")}},
		{Type: "parquet", Enabled: true},
	}

	recorders := Build(defs)
	defer CloseAll(recorders)

	// Only the enabled jsonl recorder survives: disabled and unknown
	// definitions are skipped.
	if len(recorders) != 1 {
		t.Fatalf("Expected 1 recorder, got %d", len(recorders))
	}
	if err := recorders[0].Record(context.Background(), model.NewRunSummary("browsing", 1)); err != nil {
		t.Errorf("Recording through the built recorder failed: %v", err)
	}
}
