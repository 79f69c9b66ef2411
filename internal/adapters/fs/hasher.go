// Package fs provides file system adapters for walking and hashing Elm sources.
package fs

import (
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes SHA-256 identity tokens.
type Hasher struct {
	algorithm digest.Algorithm
}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{algorithm: digest.SHA256}
}

// HashReader digests r incrementally.
func (h *Hasher) HashReader(r io.Reader) (domain.IdentityToken, error) {
	d, err := h.algorithm.FromReader(r)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFileHashFailed.Error())
	}
	return domain.IdentityToken(d.Encoded()), nil
}

// HashString digests s in one shot.
func (h *Hasher) HashString(s string) domain.IdentityToken {
	return domain.IdentityToken(h.algorithm.FromString(s).Encoded())
}

// HashFile streams the file at path into the digest.
func (h *Hasher) HashFile(path string) (domain.IdentityToken, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the build tool
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only file

	token, err := h.HashReader(f)
	if err != nil {
		return "", zerr.With(err, "path", path)
	}
	return token, nil
}
