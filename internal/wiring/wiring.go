// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/elmstronaut/internal/adapters/cache"
	_ "go.trai.ch/elmstronaut/internal/adapters/config"
	_ "go.trai.ch/elmstronaut/internal/adapters/elm"
	_ "go.trai.ch/elmstronaut/internal/adapters/fs"
	_ "go.trai.ch/elmstronaut/internal/adapters/logger"
	_ "go.trai.ch/elmstronaut/internal/adapters/telemetry"
	_ "go.trai.ch/elmstronaut/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/elmstronaut/internal/app"
)
