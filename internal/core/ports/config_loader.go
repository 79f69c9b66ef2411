package ports

import "go.trai.ch/elmstronaut/internal/core/domain"

// ConfigLoader defines the interface for loading the integration options.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads elmstronaut.yaml from cwd or one of its parents and returns
	// resolved options. Defaults are returned when no file exists.
	Load(cwd string) (*domain.Options, error)
}
