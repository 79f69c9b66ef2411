package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/elmstronaut/internal/adapters/logger"
	"go.trai.ch/elmstronaut/internal/core/ports"
)

const (
	// WatcherNodeID is the unique identifier for the watcher factory Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// FingerprintsNodeID is the unique identifier for the content fingerprint Graft node.
	FingerprintsNodeID graft.ID = "adapter.watcher.fingerprints"
)

// Factory creates a watcher. Each dev session owns its own watcher.
type Factory func() (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func() (ports.Watcher, error) {
				return NewWatcher(log)
			}, nil
		},
	})

	graft.Register(graft.Node[*Fingerprints]{
		ID:        FingerprintsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Fingerprints, error) {
			return NewFingerprints(), nil
		},
	})
}
