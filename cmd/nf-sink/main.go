package main

import (
	"Go2NetForge/internal/config"
	"Go2NetForge/internal/relay"
	"Go2NetForge/pkg/capture"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file")
	flag.Parse()

	log.Println("Starting nf-sink...")

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	output := cfg.Sink.Output
	if output == "" {
		output = cfg.Generator.Output
	}
	if output == "" {
		log.Fatalf("No sink output capture configured.")
	}

	// 2. Subscribe to the relay subject
	subscriber, err := relay.NewSubscriber(cfg.Relay)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}

	// 3. Merge every received batch into the capture file
	err = subscriber.Start(func(env relay.Envelope) {
		total, err := capture.Merge(output, env.Records)
		if err != nil {
			log.Printf("Error merging batch from run %s: %v", env.RunID, err)
			return
		}
		log.Printf("Merged %d frames from run %s (scenario '%s'), %s now holds %d frames",
			len(env.Records), env.RunID, env.Scenario, output, total)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	// 4. Wait for a shutdown signal for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	log.Println("Shutdown signal received, closing subscriber...")
	subscriber.Close()
	log.Println("Shutdown complete.")
}
