package watcher

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
)

// Fingerprints remembers a fast content checksum per file so that saves
// without content changes do not trigger a recompile.
type Fingerprints struct {
	mu   sync.Mutex
	sums map[unique.Handle[string]]uint64
}

// NewFingerprints creates an empty fingerprint set.
func NewFingerprints() *Fingerprints {
	return &Fingerprints{sums: make(map[unique.Handle[string]]uint64)}
}

// Seed records the current content of path without reporting a change.
func (f *Fingerprints) Seed(path string) error {
	sum, err := checksum(path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.sums[unique.Make(path)] = sum
	f.mu.Unlock()
	return nil
}

// Changed reports whether the content of path differs from the last call.
// A file that disappeared counts as changed once; unreadable files always do.
func (f *Fingerprints) Changed(path string) bool {
	key := unique.Make(path)
	sum, err := checksum(path)

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, known := f.sums[key]
	if err != nil {
		delete(f.sums, key)
		return known || !errors.Is(err, fs.ErrNotExist)
	}
	f.sums[key] = sum
	return !known || prev != sum
}

// Forget drops the fingerprint of path.
func (f *Fingerprints) Forget(path string) {
	f.mu.Lock()
	delete(f.sums, unique.Make(path))
	f.mu.Unlock()
}

// Len returns the number of fingerprinted files.
func (f *Fingerprints) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sums)
}

func checksum(path string) (uint64, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from the watcher
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, file); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
