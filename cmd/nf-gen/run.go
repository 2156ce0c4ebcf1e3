package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"Go2NetForge/internal/config"
	"Go2NetForge/internal/factory"
	"Go2NetForge/internal/recorder"
	"Go2NetForge/internal/relay"
	"Go2NetForge/pkg/capture"
)

var (
	flagRunConfig  string
	flagRunPublish bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every scenario from a config file",
	Long: `Run the scenarios defined in the config file in order, merging their
frames into the configured capture and recording a summary of every run.`,
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVarP(&flagRunConfig, "config", "c", "configs/config.yaml", "Path to the configuration file")
	runCmd.Flags().BoolVar(&flagRunPublish, "publish", false, "Publish batches to the relay instead of writing locally")
	rootCmd.AddCommand(runCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	// 1. Load configuration
	cfg, err := config.LoadConfig(flagRunConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Create the scenarios from their definitions
	scenarios, err := factory.Create(cfg)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios defined in %s", flagRunConfig)
	}

	// 3. Build the run recorders
	recorders := recorder.Build(cfg.Recorders)
	defer recorder.CloseAll(recorders)

	// 4. Connect the relay publisher when publishing is requested
	var publisher *relay.Publisher
	if flagRunPublish {
		publisher, err = relay.NewPublisher(cfg.Relay)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	output := cfg.Generator.Output
	if output == "" {
		output = flagOut
	}

	// 5. Generate, emit and record every scenario in order
	for _, scenario := range scenarios {
		batch, summary, err := scenario.Generate()
		if err != nil {
			return fmt.Errorf("scenario '%s' failed: %w", scenario.Name(), err)
		}

		if publisher != nil {
			if err := publisher.Publish(summary.RunID, summary.Scenario, batch.Records()); err != nil {
				return err
			}
			log.Printf("Run %s: published %d frames of scenario '%s'", summary.RunID, batch.Len(), scenario.Name())
			summary.Details["output"] = "relay"
		} else {
			total, err := capture.Merge(output, batch.Records())
			if err != nil {
				return err
			}
			log.Printf("Run %s: wrote %d frames of scenario '%s' to %s, file now holds %d frames",
				summary.RunID, batch.Len(), scenario.Name(), output, total)
			summary.Details["output"] = output
		}

		recorder.RecordAll(cmd.Context(), recorders, summary)
	}
	return nil
}
