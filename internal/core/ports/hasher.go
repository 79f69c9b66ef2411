// Package ports defines the core interfaces for the application.
package ports

import (
	"io"

	"go.trai.ch/elmstronaut/internal/core/domain"
)

// Hasher computes identity tokens of source content.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashReader digests r incrementally.
	HashReader(r io.Reader) (domain.IdentityToken, error)
	// HashString digests s in one shot.
	// It returns the same token as HashReader for the same bytes.
	HashString(s string) domain.IdentityToken
	// HashFile streams the file at path into the digest.
	HashFile(path string) (domain.IdentityToken, error)
}
