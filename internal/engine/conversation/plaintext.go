package conversation

import (
	"fmt"
	"time"

	"Go2NetForge/internal/engine/frame"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/model"
)

// PlainTextConfig describes a clear-text exchange over a raw TCP session.
// Messages are (client, server) pairs; an empty side skips that turn.
type PlainTextConfig struct {
	Client   model.Endpoint
	Server   model.Endpoint // port 0 selects DefaultControlPort
	Messages [][2]string
	Close    bool
	Seed     seed.Context
	Index    int64
	Start    time.Time
}

// PlainText builds the session: handshake, one PSH|ACK segment per
// non-empty message side, and optionally the closing exchange. With both
// sides speaking in every pair the frame count is 3 + 2*pairs, plus 4 when
// Close is set.
func PlainText(cfg PlainTextConfig) ([]*model.Frame, *model.ConnContext, error) {
	server := cfg.Server
	if server.Port == 0 {
		server.Port = DefaultControlPort
	}
	jr := cfg.Seed.Rand(cfg.Index + jitterIndexOffset)

	frames, ctx, err := frame.Handshake(frame.ConnSpec{
		Client: cfg.Client,
		Server: server,
		Seed:   cfg.Seed,
		Index:  cfg.Index + handshakeIndexOffset,
		Start:  cfg.Start,
		Step:   seed.Span(jr, minJitter, maxJitter),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("plaintext: %w", err)
	}
	ts := frames[len(frames)-1].Timestamp

	for i, pair := range cfg.Messages {
		if pair[0] != "" {
			ts = ts.Add(seed.Span(jr, minJitter, maxJitter))
			f, err := frame.Segment(ctx, model.Initiator, []byte(pair[0]), model.FlagPSH|model.FlagACK, ts)
			if err != nil {
				return nil, nil, fmt.Errorf("plaintext: message %d: %w", i, err)
			}
			frames = append(frames, f)
		}
		if pair[1] != "" {
			ts = ts.Add(seed.Span(jr, minJitter, maxJitter))
			f, err := frame.Segment(ctx, model.Responder, []byte(pair[1]), model.FlagPSH|model.FlagACK, ts)
			if err != nil {
				return nil, nil, fmt.Errorf("plaintext: message %d: %w", i, err)
			}
			frames = append(frames, f)
		}
	}

	if cfg.Close {
		closing, err := frame.FinalizeConnection(ctx, ts.Add(seed.Span(jr, minJitter, maxJitter)),
			seed.Span(jr, minJitter, maxJitter))
		if err != nil {
			return nil, nil, fmt.Errorf("plaintext: %w", err)
		}
		frames = append(frames, closing...)
	}
	return frames, ctx, nil
}
