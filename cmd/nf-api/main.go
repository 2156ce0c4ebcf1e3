package main

import (
	"Go2NetForge/internal/config"
	"Go2NetForge/internal/query"
	"Go2NetForge/internal/recorder"
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Build the run recorders
	recorders := recorder.Build(cfg.Recorders)

	// Find the first enabled ClickHouse recorder config for run history
	var chCfg *config.ClickHouseConfig
	for _, def := range cfg.Recorders {
		if def.Enabled && def.Type == "clickhouse" {
			chCfg = &def.ClickHouse
			break
		}
	}

	var querier query.Querier
	if chCfg != nil {
		querier, err = query.NewClickHouseQuerier(*chCfg)
		if err != nil {
			log.Fatalf("Failed to create querier: %v", err)
		}
	} else {
		log.Println("No enabled ClickHouse recorder found in config, run history endpoint disabled.")
	}

	// Initialize router
	r := mux.NewRouter()

	// Create API handler with its dependencies
	apiHandler := &APIHandler{cfg: cfg, querier: querier, recorders: recorders}

	// Define API routes
	r.HandleFunc("/api/v1/generate/browsing", apiHandler.generateBrowsingHandler).Methods("POST")
	r.HandleFunc("/api/v1/generate/synflood", apiHandler.generateSYNFloodHandler).Methods("POST")
	r.HandleFunc("/api/v1/generate/intrusion", apiHandler.generateIntrusionHandler).Methods("POST")
	r.HandleFunc("/api/v1/runs", apiHandler.listRunsHandler).Methods("GET")

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	recorder.CloseAll(recorders)
	log.Println("API server exited.")
}
