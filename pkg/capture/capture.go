// Package capture reads and writes pcap capture files. It sticks to the
// pure-Go pcapgo codec, so generators and sinks run without libpcap.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// snapLen is the snapshot length written to every file header.
const snapLen = 65536

// Record is one captured frame: its capture timestamp and wire bytes.
type Record struct {
	Timestamp time.Time
	Data      []byte
}

// WriteFile writes records to a fresh pcap file at path, in timestamp order.
// An existing file is replaced.
func WriteFile(path string, records []Record) error {
	lock := lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	defer f.Close()

	return writeRecords(f, records)
}

// ReadFile reads every record of the pcap file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcap header of %s: %w", path, err)
	}

	var records []Record
	for {
		data, ci, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read packet from %s: %w", path, err)
		}
		records = append(records, Record{Timestamp: ci.Timestamp, Data: data})
	}
}

// writeRecords writes a sorted copy of records to w as a pcap stream.
func writeRecords(w io.Writer, records []Record) error {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	pcapWriter := pcapgo.NewWriter(w)
	if err := pcapWriter.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
		return fmt.Errorf("failed to write pcap header: %w", err)
	}
	for _, rec := range sorted {
		ci := gopacket.CaptureInfo{
			Timestamp:     rec.Timestamp,
			CaptureLength: len(rec.Data),
			Length:        len(rec.Data),
		}
		if err := pcapWriter.WritePacket(ci, rec.Data); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create capture directory: %w", err)
	}
	return nil
}
