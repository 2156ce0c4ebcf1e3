package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Per-file locks serialize concurrent merges into the same capture file
// within one process.
var (
	locksMu sync.Mutex
	locks   = make(map[string]*sync.Mutex)
)

func lockFor(path string) *sync.Mutex {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	locksMu.Lock()
	defer locksMu.Unlock()
	lock, ok := locks[abs]
	if !ok {
		lock = &sync.Mutex{}
		locks[abs] = lock
	}
	return lock
}

// Merge folds records into the pcap file at path, keeping the whole file in
// timestamp order. A missing file counts as empty. The rewrite goes through
// a temp file in the same directory and a rename, so a failed merge never
// leaves a truncated capture behind. Returns the total number of frames in
// the merged file.
func Merge(path string, records []Record) (int, error) {
	lock := lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	existing, err := ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}
	all := append(existing, records...)

	if err := ensureDir(path); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".merge-*.pcap")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp capture file: %w", err)
	}
	if err := writeRecords(tmp, all); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to close temp capture file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to replace capture file: %w", err)
	}
	return len(all), nil
}
