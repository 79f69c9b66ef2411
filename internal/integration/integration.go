// Package integration implements the host lifecycle hooks of elmstronaut.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/elmstronaut/internal/bootstrap"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/elmstronaut/internal/engine/transform"
	"go.trai.ch/zerr"
)

// CommandDev is the host command that runs the dev server.
const CommandDev = "dev"

// SetupParams are the host capabilities passed to ConfigSetup.
type SetupParams struct {
	// Command is the host command, e.g. "dev" or "build".
	Command string
	// InjectScript adds a script to every page at the given stage.
	InjectScript func(stage, content string)
	// AddRenderer registers a component renderer.
	AddRenderer func(r Renderer)
	// UpdateConfig merges config into the host's build tool config.
	UpdateConfig func(config ViteConfig)
}

// InjectTypes adds a type declaration file to the project.
type InjectTypes func(filename, content string)

// DevServer is the running dev server passed to ServerSetup.
type DevServer interface {
	Restart(ctx context.Context) error
}

// Deps are the collaborators of an Integration.
type Deps struct {
	Hasher   ports.Hasher
	Cache    ports.ArtifactCache
	Compiler ports.Compiler
	Tracer   ports.Tracer
	Logger   ports.Logger
	// NewWatcher creates the watcher used in creator mode.
	NewWatcher func() (ports.Watcher, error)
}

// Integration is the elmstronaut host integration.
type Integration struct {
	opts *domain.Options
	deps Deps
}

// New creates an Integration for the project described by opts.
func New(opts *domain.Options, deps Deps) *Integration {
	return &Integration{opts: opts, deps: deps}
}

// Name returns the integration name.
func (i *Integration) Name() string {
	return domain.IntegrationName
}

// ConfigSetup injects the bootstrap script, registers the Elm renderer and
// adds the transform plugin to the build tool config.
func (i *Integration) ConfigSetup(ctx context.Context, params SetupParams) error {
	script, err := i.asset(bootstrap.AssetBootstrap)
	if err != nil {
		return err
	}

	dev := params.Command == CommandDev
	i.deps.Logger.Debug(fmt.Sprintf("config setup: command=%s creator_mode=%t", params.Command, i.opts.CreatorMode))

	if params.InjectScript != nil {
		params.InjectScript(domain.BootstrapScriptStage, script)
	}
	if params.AddRenderer != nil {
		params.AddRenderer(i.Renderer())
	}
	if params.UpdateConfig != nil {
		params.UpdateConfig(i.ViteConfig(dev))
	}
	return ctx.Err()
}

// Renderer returns the renderer registration. In creator mode the entry
// points are the package sources.
func (i *Integration) Renderer() Renderer {
	if i.opts.CreatorMode {
		return Renderer{
			Name:             domain.RendererName,
			ClientEntrypoint: filepath.Join(i.opts.PackageRoot, "src", "client.ts"),
			ServerEntrypoint: filepath.Join(i.opts.PackageRoot, "src", "server.ts"),
		}
	}
	return Renderer{
		Name:             domain.RendererName,
		ClientEntrypoint: domain.ClientEntrypoint,
		ServerEntrypoint: domain.ServerEntrypoint,
	}
}

// ViteConfig returns the build tool config contributed by the integration.
func (i *Integration) ViteConfig(dev bool) ViteConfig {
	cfg := ViteConfig{
		AssetsInclude: []string{domain.SourceGlob},
		OptimizeDeps: OptimizeDeps{
			Include: []string{domain.ClientEntrypoint},
			Exclude: []string{domain.ServerEntrypoint},
		},
		Plugins: []*transform.Plugin{i.Plugin(dev)},
	}
	if i.opts.CreatorMode {
		cfg.Server = &ServerConfig{FS: FSConfig{Allow: []string{i.opts.PackageRoot}}}
	}
	return cfg
}

// Plugin returns a transform plugin for this project.
func (i *Integration) Plugin(dev bool) *transform.Plugin {
	return transform.NewPlugin(i.opts, dev, i.deps.Hasher, i.deps.Cache, i.deps.Compiler, i.deps.Tracer, i.deps.Logger)
}

// ConfigDone injects the type declarations of .elm modules.
func (i *Integration) ConfigDone(_ context.Context, inject InjectTypes) error {
	content, err := i.asset(bootstrap.AssetTypes)
	if err != nil {
		return err
	}
	if inject != nil {
		inject(domain.TypesFileName, content)
	}
	return nil
}

// ServerSetup restarts server whenever the bootstrap script sources change.
// It only has an effect in creator mode and returns once the watcher runs.
func (i *Integration) ServerSetup(ctx context.Context, server DevServer) error {
	if !i.opts.CreatorMode || i.deps.NewWatcher == nil {
		return nil
	}

	scriptPath := filepath.Clean(bootstrap.SourcePath(i.opts.PackageRoot, bootstrap.AssetBootstrap))
	w, err := i.deps.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(ctx, scriptPath); err != nil {
		_ = w.Stop()
		return err
	}
	i.deps.Logger.Debug("watching " + scriptPath)

	go func() {
		defer func() { _ = w.Stop() }()
		for ev := range w.Events() {
			if filepath.Clean(ev.Path) != scriptPath {
				continue
			}
			i.deps.Logger.Info("bootstrap script changed, restarting dev server")
			if err := server.Restart(ctx); err != nil {
				i.deps.Logger.Error(err)
			}
		}
	}()
	return nil
}

// BuildDone clears the artifact cache.
func (i *Integration) BuildDone(_ context.Context) {
	i.deps.Logger.Debug(fmt.Sprintf("build done: clearing %d cached tokens", i.deps.Cache.Len()))
	i.deps.Cache.Clear()
}

// asset returns the named asset, read from the package sources in creator mode.
func (i *Integration) asset(name string) (string, error) {
	if !i.opts.CreatorMode {
		return bootstrap.Asset(name)
	}
	path := bootstrap.SourcePath(i.opts.PackageRoot, name)
	b, err := os.ReadFile(path) //nolint:gosec // path is below the configured package root
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	return string(b), nil
}
