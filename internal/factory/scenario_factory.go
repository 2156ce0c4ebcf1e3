package factory

import (
	"Go2NetForge/internal/config"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/model"
	"fmt"
	"log"
	"time"
)

// ScenarioFactory defines a function that creates a scenario from its definition.
type ScenarioFactory func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error)

// registry holds the mapping of scenario types to their factory functions.
var registry = make(map[string]ScenarioFactory)

// RegisterScenario registers a new scenario type with its factory function.
func RegisterScenario(name string, factory ScenarioFactory) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("scenario type '%s' already registered", name))
	}
	registry[name] = factory
}

// Create creates the scenarios listed in the config, in order.
func Create(cfg *config.Config) ([]model.Scenario, error) {
	var scenarios []model.Scenario

	for _, def := range cfg.Scenarios {
		if def.Name == "" {
			def.Name = def.Type
		}
		log.Printf("Creating scenario '%s' of type: '%s'\n", def.Name, def.Type)

		factory, ok := registry[def.Type]
		if !ok {
			return nil, fmt.Errorf("unknown scenario type: '%s'", def.Type)
		}

		sc := seed.New(cfg.Generator.Seed)
		if def.Seed != nil {
			sc = seed.New(*def.Seed)
		}
		if sc.Base() == 0 {
			sc = seed.FromEntropy()
			log.Printf("Scenario '%s': using seed %d", def.Name, sc.Base())
		}
		start, err := resolveStart(cfg.Generator.Start, def.Start)
		if err != nil {
			return nil, fmt.Errorf("error creating scenario '%s': %w", def.Name, err)
		}

		scenario, err := factory(def, sc, start)
		if err != nil {
			return nil, fmt.Errorf("error creating scenario '%s': %w", def.Name, err)
		}

		scenarios = append(scenarios, scenario)
	}

	return scenarios, nil
}

// resolveStart picks the scenario start time over the generator-wide one. A
// zero result leaves the profile default in force.
func resolveStart(generator, scenario string) (time.Time, error) {
	value := scenario
	if value == "" {
		value = generator
	}
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time '%s': %w", value, err)
	}
	return t, nil
}
