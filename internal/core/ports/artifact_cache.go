package ports

import "go.trai.ch/elmstronaut/internal/core/domain"

// ArtifactCache is the process wide set of identity tokens seen by the transform pipeline.
//
//go:generate mockgen -source=artifact_cache.go -destination=mocks/mock_artifact_cache.go -package=mocks
type ArtifactCache interface {
	// Add records a token. Adding a token twice is a no-op.
	Add(token domain.IdentityToken)
	// Has reports whether a token was recorded.
	Has(token domain.IdentityToken) bool
	// Len returns the number of recorded tokens.
	Len() int
	// Clear removes every token.
	Clear()
}
