// Package seed is the deterministic randomness source for all generated
// traffic. Every derived value comes from a (base, index) pair, so the same
// base seed and parameters always reproduce the same bytes.
//
// Callers allocate non-overlapping index ranges to keep independent pieces
// of a generation off each other's streams. By convention a single
// conversation consumes at most 64 indices and sibling sub-generations
// (users, attackers, pages) are strided 1000 apart.
package seed

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"net"
	"time"
)

// Context derives independent deterministic random streams from one base
// seed. It is a plain value and safe to copy.
type Context struct {
	base int64
}

// New returns a context for the given base seed.
func New(base int64) Context {
	return Context{base: base}
}

// FromEntropy returns a context seeded from the wall clock, for callers that
// want fresh traffic rather than a reproducible run. The drawn base is
// recoverable through Base so the run can still be replayed later.
func FromEntropy() Context {
	return New(time.Now().UnixNano())
}

// Base returns the base seed.
func (c Context) Base() int64 {
	return c.base
}

// Rand returns a fresh generator for the given derivation index. The same
// (base, index) pair always yields the same stream.
func (c Context) Rand(index int64) *rand.Rand {
	h := fnv.New64a()
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(c.base))
	h.Write(b[:])
	binary.BigEndian.PutUint64(b[:], uint64(index))
	h.Write(b[:])
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// Port returns a deterministic ephemeral source port for the index.
func (c Context) Port(index int64) uint16 {
	return uint16(32768 + c.Rand(index).Intn(28232))
}

// ISN returns a deterministic TCP initial sequence number for the index.
func (c Context) ISN(index int64) uint32 {
	return c.Rand(index).Uint32()
}

// TxnID returns a deterministic DNS transaction ID for the index.
func (c Context) TxnID(index int64) uint16 {
	return uint16(c.Rand(index).Intn(1 << 16))
}

// MAC returns a deterministic locally administered unicast MAC address for
// the index.
func (c Context) MAC(index int64) net.HardwareAddr {
	r := c.Rand(index)
	mac := make(net.HardwareAddr, 6)
	r.Read(mac)
	mac[0] = mac[0]&^0x01 | 0x02
	return mac
}

// PublicIPv4 returns a deterministic, public-looking IPv4 address for the
// index. Private, loopback, link-local, multicast and documentation ranges
// are skipped.
func (c Context) PublicIPv4(index int64) net.IP {
	r := c.Rand(index)
	for {
		ip := net.IPv4(byte(1+r.Intn(223)), byte(r.Intn(256)), byte(r.Intn(256)), byte(1+r.Intn(254)))
		if isPublicIPv4(ip) {
			return ip
		}
	}
}

func isPublicIPv4(ip net.IP) bool {
	v4 := ip.To4()
	switch {
	case v4[0] == 10 || v4[0] == 127:
		return false
	case v4[0] == 100 && v4[1]&0xc0 == 64: // 100.64.0.0/10
		return false
	case v4[0] == 169 && v4[1] == 254:
		return false
	case v4[0] == 172 && v4[1]&0xf0 == 16:
		return false
	case v4[0] == 192 && v4[1] == 168:
		return false
	case v4[0] == 192 && v4[1] == 0 && v4[2] == 2: // 192.0.2.0/24
		return false
	case v4[0] == 198 && v4[1]&0xfe == 18: // 198.18.0.0/15
		return false
	case v4[0] == 198 && v4[1] == 51 && v4[2] == 100:
		return false
	case v4[0] == 203 && v4[1] == 0 && v4[2] == 113:
		return false
	}
	return true
}

// Jitter returns a deterministic duration in [min, max] for the index.
func (c Context) Jitter(index int64, min, max time.Duration) time.Duration {
	return Span(c.Rand(index), min, max)
}

// Span draws a duration in [min, max] from r.
func Span(r *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(r.Int63n(int64(max-min)+1))
}
