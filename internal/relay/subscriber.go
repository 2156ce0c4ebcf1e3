package relay

import (
	"Go2NetForge/internal/config"
	"bytes"
	"encoding/gob"
	"log"

	"github.com/nats-io/nats.go"
)

// EnvelopeHandler is a function that processes a received Envelope.
type EnvelopeHandler func(env Envelope)

// Subscriber is responsible for subscribing to a NATS subject and processing batches.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber creates a new NATS subscriber from the relay config.
func NewSubscriber(cfg config.RelayConfig) (*Subscriber, error) {
	nc, err := connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)
	return &Subscriber{nc: nc, subject: cfg.Subject}, nil
}

// Start subscribes to the configured subject and starts handing every
// decoded envelope to the handler.
func (s *Subscriber) Start(handler EnvelopeHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		var env Envelope
		if err := gob.NewDecoder(bytes.NewReader(msg.Data)).Decode(&env); err != nil {
			log.Printf("Error decoding envelope: %v", err)
			return
		}
		handler(env)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("Subscribed to '%s'. Waiting for batches...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("NATS connection closed.")
	}
}
