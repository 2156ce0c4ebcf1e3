// Package relay moves generated capture batches from producers to the sink
// service over NATS.
package relay

import (
	"Go2NetForge/internal/config"
	"Go2NetForge/pkg/capture"
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nats-io/nats.go"
)

const (
	// defaultMaxPayload matches the NATS server default message limit.
	defaultMaxPayload  = 1 << 20
	maxConnectAttempts = 5
	// recordOverhead is the assumed per-record gob framing cost.
	recordOverhead = 128
)

// Envelope is one published chunk of capture records from a single run.
type Envelope struct {
	RunID    string
	Scenario string
	Records  []capture.Record
}

// Publisher is responsible for publishing capture batches to a NATS subject.
type Publisher struct {
	nc         *nats.Conn
	subject    string
	maxPayload int
}

// NewPublisher creates a new NATS publisher from the relay config.
func NewPublisher(cfg config.RelayConfig) (*Publisher, error) {
	nc, err := connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)

	maxPayload := int(cfg.MaxPayload.Bytes())
	if maxPayload <= 0 {
		maxPayload = defaultMaxPayload
	}
	return &Publisher{nc: nc, subject: cfg.Subject, maxPayload: maxPayload}, nil
}

// connect dials the NATS server, retrying with exponential backoff.
func connect(url string) (*nats.Conn, error) {
	bo := backoff.ExponentialBackOff{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         5 * time.Second,
	}
	bo.Reset()

	var nc *nats.Conn
	var err error
	for attempt := 1; ; attempt++ {
		nc, err = nats.Connect(url)
		if err == nil {
			return nc, nil
		}
		if attempt == maxConnectAttempts {
			break
		}
		wait := bo.NextBackOff()
		log.Printf("NATS connect attempt %d/%d failed: %v, retrying in %s", attempt, maxConnectAttempts, err, wait)
		time.Sleep(wait)
	}
	return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
}

// Publish splits the run's records into chunks that fit the payload limit
// and publishes one envelope per chunk.
func (p *Publisher) Publish(runID, scenario string, records []capture.Record) error {
	for _, chunk := range splitRecords(records, p.maxPayload) {
		env := Envelope{RunID: runID, Scenario: scenario, Records: chunk}

		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(env); err != nil {
			return fmt.Errorf("failed to encode envelope: %w", err)
		}
		if buf.Len() > p.maxPayload {
			return fmt.Errorf("envelope of %d bytes exceeds the %d byte payload limit", buf.Len(), p.maxPayload)
		}
		if err := p.nc.Publish(p.subject, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to publish envelope: %w", err)
		}
	}
	return p.nc.Flush()
}

// splitRecords packs records into chunks whose estimated encoded size stays
// inside the payload limit, with headroom for gob framing. A single record
// never splits, so one oversized frame still surfaces as a publish error.
func splitRecords(records []capture.Record, limit int) [][]capture.Record {
	budget := limit * 3 / 4
	var chunks [][]capture.Record
	var current []capture.Record
	size := 0
	for _, rec := range records {
		cost := len(rec.Data) + recordOverhead
		if len(current) > 0 && size+cost > budget {
			chunks = append(chunks, current)
			current = nil
			size = 0
		}
		current = append(current, rec)
		size += cost
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
