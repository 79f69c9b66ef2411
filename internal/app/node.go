package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/elmstronaut/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/elmstronaut/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/elmstronaut/internal/adapters/elm"       //nolint:depguard // Wired in app layer
	"go.trai.ch/elmstronaut/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/elmstronaut/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/elmstronaut/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/elmstronaut/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/elmstronaut/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components is what the command line needs from the graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.HasherNodeID,
			fs.WalkerNodeID,
			cache.NodeID,
			elm.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			watcher.WatcherNodeID,
			watcher.FingerprintsNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.ArtifactCache](ctx)
	if err != nil {
		return nil, err
	}
	compiler, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[*telemetry.OTelTracer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}
	newWatcher, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}
	fingerprints, err := graft.Dep[*watcher.Fingerprints](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, hasher, store, compiler, tracer, log, walker).
		WithWatcher(newWatcher, fingerprints), nil
}
