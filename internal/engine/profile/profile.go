// Package profile composes conversations into full traffic scenes: benign
// browsing, SYN floods and a staged intrusion.
//
// Index layout: run-level derivations live in stride 0 and conversation k
// occupies stride k+1 (see conversation.IndexStride). Within a stride,
// offsets below 64 belong to the conversation layers, offset 64 to profile
// timing and offsets from 500 to per-conversation profile values.
package profile

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"Go2NetForge/internal/engine/conversation"
	"Go2NetForge/internal/model"
)

// DefaultStart anchors runs that do not configure a base timestamp.
var DefaultStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Run-level derivation indices (stride 0).
const (
	runPrimaryAddrIndex   = 0
	runSecondaryAddrIndex = 1
	runSynthIndex         = 2
	runPacingIndex        = 3
)

// Per-stride offsets reserved for profiles.
const (
	strideJitterOffset = 64
	strideValueOffset  = 500
	strideValue2Offset = 501
)

func strideIndex(k int) int64 {
	return int64(k+1) * conversation.IndexStride
}

// scenario adapts a generate function to model.Scenario.
type scenario struct {
	name string
	run  func() (*model.PacketBatch, *model.RunSummary, error)
}

func (s *scenario) Name() string { return s.name }

func (s *scenario) Generate() (*model.PacketBatch, *model.RunSummary, error) {
	batch, summary, err := s.run()
	if err != nil {
		return nil, nil, err
	}
	summary.Scenario = s.name
	return batch, summary, nil
}

// offsetIPv4 returns base shifted forward by n hosts.
func offsetIPv4(base net.IP, n int) (net.IP, error) {
	v4 := base.To4()
	if v4 == nil {
		return nil, fmt.Errorf("address %s is not IPv4", base)
	}
	out := make(net.IP, 4)
	binary.BigEndian.PutUint32(out, binary.BigEndian.Uint32(v4)+uint32(n))
	return out, nil
}

// parseIP parses a required address from a scenario definition.
func parseIP(field, value string) (net.IP, error) {
	ip := net.ParseIP(value)
	if ip == nil {
		return nil, fmt.Errorf("invalid %s address %q", field, value)
	}
	return ip, nil
}

// parseOptionalIP parses an address that may be left empty.
func parseOptionalIP(field, value string) (net.IP, error) {
	if value == "" {
		return nil, nil
	}
	return parseIP(field, value)
}
