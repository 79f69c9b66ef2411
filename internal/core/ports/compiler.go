package ports

import (
	"context"

	"go.trai.ch/elmstronaut/internal/core/domain"
)

// Compiler turns one Elm source unit into JavaScript.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile runs the external compiler and returns the compiled output.
	//
	// It fails with a *domain.SetupError before spawning anything when the
	// manifest or the executable are missing, with a *domain.SpawnError when
	// the process cannot start and with a *domain.CompileError on a nonzero exit.
	Compile(ctx context.Context, req domain.CompileRequest) (string, error)
}
