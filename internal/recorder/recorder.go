// Package recorder persists run summaries to the configured backing stores.
package recorder

import (
	"context"
	"log"

	"Go2NetForge/internal/config"
	"Go2NetForge/internal/model"
)

// Build creates all enabled recorders from the config definitions.
func Build(defs []config.RecorderDef) []model.Recorder {
	recorders := make([]model.Recorder, 0, len(defs))
	for _, def := range defs {
		if !def.Enabled {
			continue
		}

		var rec model.Recorder
		var err error
		switch def.Type {
		case "jsonl":
			rec = NewJSONLRecorder(def.JSONL.Path)
		case "clickhouse":
			rec, err = NewClickHouseRecorder(def.ClickHouse)
			if err != nil {
				log.Printf("Warning: failed to create recorder type '%s': %v, skipping.", def.Type, err)
				continue
			}
		default:
			log.Printf("Warning: unknown recorder type '%s' in config, skipping.", def.Type)
			continue
		}
		recorders = append(recorders, rec)
	}
	return recorders
}

// RecordAll writes the summary to every recorder, logging failures instead
// of aborting the run.
func RecordAll(ctx context.Context, recorders []model.Recorder, summary *model.RunSummary) {
	for _, rec := range recorders {
		if err := rec.Record(ctx, summary); err != nil {
			log.Printf("Error recording run %s: %v", summary.RunID, err)
		}
	}
}

// CloseAll closes every recorder.
func CloseAll(recorders []model.Recorder) {
	for _, rec := range recorders {
		if err := rec.Close(); err != nil {
			log.Printf("Error closing recorder: %v", err)
		}
	}
}
