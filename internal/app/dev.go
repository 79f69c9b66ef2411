package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/elmstronaut/internal/adapters/watcher"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/engine/transform"
	"go.trai.ch/zerr"
)

// DevOptions configuration for the Dev method.
type DevOptions struct {
	// OutDir receives one <Module>.js per source file.
	OutDir string
}

// Dev builds every source below the source root without optimization, then
// rebuilds changed files until ctx is canceled.
func (a *App) Dev(ctx context.Context, opts DevOptions) error {
	if a.newWatcher == nil {
		return zerr.Wrap(domain.ErrWatcherFailed, "no watcher configured")
	}
	if opts.OutDir == "" {
		return domain.ErrOutDirRequired
	}

	o, err := a.loadOptions()
	if err != nil {
		return err
	}
	plugin := a.integration(o).Plugin(true)
	outDir := absPath(opts.OutDir)

	files := slices.Collect(a.walker.SourceFiles(o.SourceDir))
	for _, f := range files {
		if a.fingerprints != nil {
			if err := a.fingerprints.Seed(f); err != nil {
				a.logger.Warn(fmt.Sprintf("failed to fingerprint %s: %v", f, err))
			}
		}
	}
	a.rebuild(ctx, plugin, outDir, files)

	w, err := a.newWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}
	if err := w.Start(ctx, o.SourceDir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", o.SourceDir)
	}
	defer func() {
		if err := w.Stop(); err != nil {
			a.logger.Warn("failed to stop watcher: " + err.Error())
		}
	}()

	changes := make(chan []string)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	go func() {
		for ev := range w.Events() {
			if strings.HasSuffix(ev.Path, domain.SourceExt) {
				debouncer.Add(ev.Path)
			}
		}
	}()

	a.logger.Info("watching " + o.SourceDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.apply(ctx, plugin, o.SourceDir, outDir, paths)
		}
	}
}

// apply rebuilds the changed files of one batch and removes the output of
// deleted ones.
func (a *App) apply(ctx context.Context, plugin *transform.Plugin, srcDir, outDir string, paths []string) {
	var changed []string
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			a.remove(srcDir, outDir, path)
			continue
		}
		if a.fingerprints != nil && !a.fingerprints.Changed(path) {
			a.logger.Debug("unchanged " + path)
			continue
		}
		changed = append(changed, path)
	}
	a.rebuild(ctx, plugin, outDir, changed)
}

func (a *App) rebuild(ctx context.Context, plugin *transform.Plugin, outDir string, paths []string) {
	if len(paths) == 0 {
		return
	}
	// Failures are already logged per file.
	results, _ := a.build(ctx, plugin, paths, false)
	if err := writeModules(outDir, results); err != nil {
		a.logger.Error(err)
	}
}

func (a *App) remove(srcDir, outDir, path string) {
	if a.fingerprints != nil {
		a.fingerprints.Forget(path)
	}
	name, err := domain.ModuleNameFor(srcDir, path)
	if err != nil {
		a.logger.Warn(err.Error())
		return
	}
	out := filepath.Join(outDir, name.String()+".js")
	if err := os.Remove(out); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.logger.Error(zerr.With(zerr.Wrap(err, "failed to remove compiled module"), "path", out))
		return
	}
	a.logger.Info("removed " + name.String())
}
