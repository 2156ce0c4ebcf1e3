package seed

import (
	"testing"
	"time"
)

func TestRandDeterminism(t *testing.T) {
	// 1. The same (base, index) pair must always yield the same stream.
	a := New(1337).Rand(42)
	b := New(1337).Rand(42)
	for i := 0; i < 16; i++ {
		va, vb := a.Int63(), b.Int63()
		if va != vb {
			t.Fatalf("Draw %d diverged: %d vs %d", i, va, vb)
		}
	}

	// 2. Different indices must yield independent streams.
	seen := make(map[uint32]struct{})
	sc := New(1337)
	for index := int64(0); index < 64; index++ {
		seen[sc.ISN(index)] = struct{}{}
	}
	if len(seen) < 2 {
		t.Errorf("Expected distinct values across indices, got %d unique of 64", len(seen))
	}

	// 3. Different bases must yield independent streams.
	if New(1).ISN(0) == New(2).ISN(0) && New(1).ISN(1) == New(2).ISN(1) {
		t.Errorf("Bases 1 and 2 produced identical streams")
	}
}

func TestDerivedValues(t *testing.T) {
	sc := New(7)

	// 1. Ports stay in the ephemeral range.
	for index := int64(0); index < 128; index++ {
		port := sc.Port(index)
		if port < 32768 || port >= 61000 {
			t.Fatalf("Port for index %d out of range: %d", index, port)
		}
	}

	// 2. MACs are six bytes, locally administered and unicast.
	for index := int64(0); index < 32; index++ {
		mac := sc.MAC(index)
		if len(mac) != 6 {
			t.Fatalf("MAC for index %d has %d bytes", index, len(mac))
		}
		if mac[0]&0x01 != 0 {
			t.Errorf("MAC %s for index %d is multicast", mac, index)
		}
		if mac[0]&0x02 == 0 {
			t.Errorf("MAC %s for index %d is not locally administered", mac, index)
		}
	}

	// 3. Derived values repeat across independent contexts.
	other := New(7)
	if sc.MAC(3).String() != other.MAC(3).String() {
		t.Errorf("MAC derivation is not deterministic")
	}
	if sc.Port(3) != other.Port(3) || sc.ISN(3) != other.ISN(3) || sc.TxnID(3) != other.TxnID(3) {
		t.Errorf("Derived values are not deterministic")
	}
}

func TestPublicIPv4(t *testing.T) {
	sc := New(99)
	for index := int64(0); index < 256; index++ {
		ip := sc.PublicIPv4(index)
		if ip.To4() == nil {
			t.Fatalf("Address for index %d is not IPv4: %v", index, ip)
		}
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsMulticast() || ip.IsUnspecified() {
			t.Errorf("Address for index %d is not public: %s", index, ip)
		}
	}
}

func TestJitterBounds(t *testing.T) {
	sc := New(3)
	min, max := 5*time.Millisecond, 40*time.Millisecond
	for index := int64(0); index < 100; index++ {
		d := sc.Jitter(index, min, max)
		if d < min || d > max {
			t.Fatalf("Jitter for index %d out of bounds: %s", index, d)
		}
	}

	// A collapsed interval returns its lower bound.
	if d := sc.Jitter(0, max, min); d != max {
		t.Errorf("Expected collapsed interval to return %s, got %s", max, d)
	}
	if d := Span(sc.Rand(0), min, min); d != min {
		t.Errorf("Expected empty span to return %s, got %s", min, d)
	}
}

func TestFromEntropy(t *testing.T) {
	sc := FromEntropy()
	if sc.Base() == 0 {
		t.Fatal("Expected entropy-seeded context to carry a nonzero base")
	}

	// The drawn base replays the same streams as an explicit one.
	replay := New(sc.Base())
	if sc.ISN(7) != replay.ISN(7) {
		t.Errorf("Expected replayed base to reproduce ISN, got %d vs %d", replay.ISN(7), sc.ISN(7))
	}
}
