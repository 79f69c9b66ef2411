package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"unique"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirectories are never watched.
var skippedDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"elm-stuff":    true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify. Directories are watched
// recursively; single files are watched through their parent directory and
// only their own events are reported.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent

	mu sync.RWMutex
	// files maps a directory added for single files to the files of interest.
	files map[unique.Handle[string]]map[unique.Handle[string]]struct{}
	// trees are directories watched as a whole.
	trees map[unique.Handle[string]]struct{}
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		files:     make(map[unique.Handle[string]]map[unique.Handle[string]]struct{}),
		trees:     make(map[unique.Handle[string]]struct{}),
	}, nil
}

// Start begins watching the given paths and processes events until ctx is done
// or Stop is called.
func (w *Watcher) Start(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		if err := w.add(p); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", p)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) add(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		dir := filepath.Dir(path)
		w.mu.Lock()
		set, ok := w.files[unique.Make(dir)]
		if !ok {
			set = make(map[unique.Handle[string]]struct{})
			w.files[unique.Make(dir)] = set
		}
		set[unique.Make(path)] = struct{}{}
		w.mu.Unlock()
		return w.fsWatcher.Add(dir)
	}

	for dir := range directories(path) {
		w.mu.Lock()
		w.trees[unique.Make(dir)] = struct{}{}
		w.mu.Unlock()
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

// directories walks a tree and yields every directory that should be watched.
func directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skippedDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// wanted reports whether an event for path should be emitted.
func (w *Watcher) wanted(path string) bool {
	dir := unique.Make(filepath.Dir(path))

	w.mu.RLock()
	defer w.mu.RUnlock()

	if _, ok := w.trees[dir]; ok {
		return true
	}
	if set, ok := w.files[dir]; ok {
		_, ok := set[unique.Make(path)]
		return ok
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok || !w.wanted(event.Name) {
				continue
			}

			if watchEvent.Operation == ports.OpCreate {
				w.addCreatedTree(event.Name)
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn(fmt.Sprintf("watcher: file system error: %v", err))
			}
		}
	}
}

// addCreatedTree starts watching a directory created inside a watched tree.
func (w *Watcher) addCreatedTree(path string) {
	w.mu.RLock()
	_, inTree := w.trees[unique.Make(filepath.Dir(path))]
	w.mu.RUnlock()
	if !inTree {
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skippedDirectories[info.Name()] {
		return
	}
	for dir := range directories(path) {
		w.mu.Lock()
		w.trees[unique.Make(dir)] = struct{}{}
		w.mu.Unlock()
		_ = w.fsWatcher.Add(dir)
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
