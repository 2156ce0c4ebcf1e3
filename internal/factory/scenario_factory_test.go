package factory

import (
	"Go2NetForge/internal/config"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/model"
	"testing"
	"time"
)

type stubScenario struct {
	name string
}

func (s *stubScenario) Name() string { return s.name }

func (s *stubScenario) Generate() (*model.PacketBatch, *model.RunSummary, error) {
	return model.NewPacketBatch(), model.NewRunSummary("stub", 0), nil
}

func TestCreate(t *testing.T) {
	// 1. Register a scenario type that records what it was handed
	var seeds []int64
	var starts []time.Time
	RegisterScenario("stub", func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error) {
		seeds = append(seeds, sc.Base())
		starts = append(starts, start)
		return &stubScenario{name: def.Name}, nil
	})

	override := int64(99)
	cfg := &config.Config{
		Generator: config.GeneratorConfig{Seed: 5, Start: "2024-03-01T09:00:00Z"},
		Scenarios: []config.ScenarioDef{
			{Type: "stub"},
			{Name: "pinned", Type: "stub", Seed: &override, Start: "2024-03-01T12:30:00Z"},
		},
	}

	// 2. Create the scenarios
	scenarios, err := Create(cfg)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("Expected 2 scenarios, got %d", len(scenarios))
	}

	// 3. A missing name falls back to the type
	if scenarios[0].Name() != "stub" {
		t.Errorf("Unnamed scenario is called %q, expected the type name", scenarios[0].Name())
	}
	if scenarios[1].Name() != "pinned" {
		t.Errorf("Named scenario is called %q", scenarios[1].Name())
	}

	// 4. Seed and start overrides take precedence over the generator values
	if seeds[0] != 5 || seeds[1] != 99 {
		t.Errorf("Scenario seeds are %v, expected [5 99]", seeds)
	}
	generatorStart := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	pinnedStart := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if !starts[0].Equal(generatorStart) {
		t.Errorf("First scenario starts at %s, expected the generator start", starts[0])
	}
	if !starts[1].Equal(pinnedStart) {
		t.Errorf("Pinned scenario starts at %s, expected its own start", starts[1])
	}
}

func TestCreateErrors(t *testing.T) {
	// 1. Unknown scenario types are rejected
	cfg := &config.Config{
		Scenarios: []config.ScenarioDef{{Type: "no-such-type"}},
	}
	if _, err := Create(cfg); err == nil {
		t.Errorf("Expected an error for an unknown scenario type")
	}

	// 2. Malformed start times are rejected
	RegisterScenario("stub-times", func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error) {
		return &stubScenario{name: def.Name}, nil
	})
	cfg = &config.Config{
		Scenarios: []config.ScenarioDef{{Type: "stub-times", Start: "yesterday"}},
	}
	if _, err := Create(cfg); err == nil {
		t.Errorf("Expected an error for a malformed start time")
	}
}

func TestRegisterScenarioDuplicate(t *testing.T) {
	RegisterScenario("stub-dup", func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error) {
		return &stubScenario{name: def.Name}, nil
	})

	defer func() {
		if recover() == nil {
			t.Errorf("Expected a duplicate registration to panic")
		}
	}()
	RegisterScenario("stub-dup", func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error) {
		return nil, nil
	})
}
