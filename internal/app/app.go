// Package app implements the application layer for elmstronaut.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.trai.ch/elmstronaut/internal/adapters/detector"
	"go.trai.ch/elmstronaut/internal/bootstrap"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/elmstronaut/internal/engine/transform"
	"go.trai.ch/elmstronaut/internal/integration"
	"go.trai.ch/elmstronaut/internal/render/server"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// SourceWalker lists the Elm sources below a source root.
type SourceWalker interface {
	SourceFiles(root string) iter.Seq[string]
}

// Fingerprints tracks file contents between watcher events.
type Fingerprints interface {
	Seed(path string) error
	Changed(path string) bool
	Forget(path string)
}

// levelSetter is implemented by loggers whose format and level can change at runtime.
type levelSetter interface {
	SetJSON(enable bool)
	SetDebug(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	hasher       ports.Hasher
	cache        ports.ArtifactCache
	compiler     ports.Compiler
	tracer       ports.Tracer
	logger       ports.Logger
	walker       SourceWalker

	newWatcher   func() (ports.Watcher, error)
	fingerprints Fingerprints
	workDir      string
	jobs         int
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	hasher ports.Hasher,
	cache ports.ArtifactCache,
	compiler ports.Compiler,
	tracer ports.Tracer,
	log ports.Logger,
	walker SourceWalker,
) *App {
	return &App{
		configLoader: loader,
		hasher:       hasher,
		cache:        cache,
		compiler:     compiler,
		tracer:       tracer,
		logger:       log,
		walker:       walker,
		workDir:      ".",
		jobs:         runtime.NumCPU(),
	}
}

// WithWatcher sets the watcher factory and the fingerprints used by Dev.
func (a *App) WithWatcher(newWatcher func() (ports.Watcher, error), fingerprints Fingerprints) *App {
	a.newWatcher = newWatcher
	a.fingerprints = fingerprints
	return a
}

// WithWorkDir sets the directory the configuration is searched from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithJobs limits the number of concurrent compiles.
func (a *App) WithJobs(n int) *App {
	if n > 0 {
		a.jobs = n
	}
	return a
}

// ConfigureLogging selects the log format and level.
// format is one of auto, pretty or json.
func (a *App) ConfigureLogging(format string, debug bool) {
	setter, ok := a.logger.(levelSetter)
	if !ok {
		return
	}
	resolved := detector.ResolveFormat(detector.DetectFormat(), format)
	setter.SetJSON(resolved == detector.FormatJSON)
	if debug {
		setter.SetDebug(true)
	}
}

// Shutdown flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	if s, ok := a.tracer.(interface{ Shutdown(context.Context) error }); ok {
		return s.Shutdown(ctx)
	}
	return nil
}

func (a *App) loadOptions() (*domain.Options, error) {
	opts, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Debug {
		if setter, ok := a.logger.(levelSetter); ok {
			setter.SetDebug(true)
		}
	}
	return opts, nil
}

func (a *App) integration(opts *domain.Options) *integration.Integration {
	return integration.New(opts, integration.Deps{
		Hasher:     a.hasher,
		Cache:      a.cache,
		Compiler:   a.compiler,
		Tracer:     a.tracer,
		Logger:     a.logger,
		NewWatcher: a.newWatcher,
	})
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// Dev builds skip --optimize.
	Dev bool
	// SSR only records identity tokens, like the server pass of a build.
	SSR bool
	// OutDir receives one <Module>.js per file. Required for more than one file.
	OutDir string
	// Out receives the module of a single file when OutDir is empty.
	Out io.Writer
}

// Compile runs files through the transform pipeline concurrently.
func (a *App) Compile(ctx context.Context, files []string, opts CompileOptions) error {
	if len(files) == 0 {
		return domain.ErrNoFilesSpecified
	}
	if len(files) > 1 && opts.OutDir == "" && !opts.SSR {
		return domain.ErrOutDirRequired
	}

	o, err := a.loadOptions()
	if err != nil {
		return err
	}
	integ := a.integration(o)
	plugin := integ.Plugin(opts.Dev)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = absPath(f)
	}

	results, err := a.build(ctx, plugin, paths, opts.SSR)
	if err != nil {
		return err
	}

	if opts.SSR {
		a.logger.Info(fmt.Sprintf("recorded %d identity tokens", a.cache.Len()))
		return nil
	}

	if opts.OutDir == "" {
		if opts.Out == nil {
			opts.Out = os.Stdout
		}
		if _, err := io.WriteString(opts.Out, results[0].Code+"\n"); err != nil {
			return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
		}
	} else if err := writeModules(absPath(opts.OutDir), results); err != nil {
		return err
	}

	if !opts.Dev {
		integ.BuildDone(ctx)
	}
	return nil
}

// build transforms paths concurrently. Failures are logged one by one and
// joined with domain.ErrBuildFailed. Results keep the order of paths; failed
// entries are nil.
func (a *App) build(ctx context.Context, plugin *transform.Plugin, paths []string, ssr bool) ([]*transform.Result, error) {
	results := make([]*transform.Result, len(paths))

	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(a.jobs)
	for i, path := range paths {
		g.Go(func() error {
			res, err := plugin.Transform(ctx, "", path, transform.TransformOptions{SSR: ssr})
			if err != nil {
				a.logger.Error(err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			if res != nil {
				a.logger.Info("compiled " + res.Module.String())
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return results, errors.Join(append([]error{domain.ErrBuildFailed}, errs...)...)
	}
	if !ssr {
		for i, res := range results {
			if res == nil {
				err := zerr.With(zerr.Wrap(domain.ErrBuildFailed, "not an elm source file"), "file", paths[i])
				a.logger.Error(err)
				return nil, err
			}
		}
	}
	return results, nil
}

func writeModules(dir string, results []*transform.Result) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", dir)
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		path := filepath.Join(dir, res.Module.String()+".js")
		if err := os.WriteFile(path, []byte(res.Code), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
		}
	}
	return nil
}

// CheckResult is the ownership decision for one component reference.
type CheckResult struct {
	Ref   string
	Owned bool
}

// Check records the identity tokens of all sources below the source root and
// asks the server renderer whether it owns each reference.
func (a *App) Check(ctx context.Context, refs []string) ([]CheckResult, error) {
	o, err := a.loadOptions()
	if err != nil {
		return nil, err
	}

	for file := range a.walker.SourceFiles(o.SourceDir) {
		token, err := a.hasher.HashFile(file)
		if err != nil {
			return nil, err
		}
		a.cache.Add(token)
	}

	r := server.NewRenderer(a.hasher, a.cache, a.logger)
	results := make([]CheckResult, len(refs))
	for i, ref := range refs {
		results[i] = CheckResult{Ref: ref, Owned: r.Check(ctx, ref, nil, nil, nil)}
	}
	return results, nil
}

// RenderOptions configuration for the Render method.
type RenderOptions struct {
	Component string
	// Fallback is rendered when HasFallback is set, even when empty.
	Fallback    string
	HasFallback bool
}

// Render returns the server placeholder markup of a component.
func (a *App) Render(ctx context.Context, opts RenderOptions) (string, error) {
	slots := map[string]string{}
	if opts.HasFallback {
		slots[server.FallbackSlot] = opts.Fallback
	}
	r := server.NewRenderer(a.hasher, a.cache, a.logger)
	markup, err := r.RenderToStaticMarkup(ctx, opts.Component, nil, slots, nil)
	if err != nil {
		return "", err
	}
	return markup.HTML, nil
}

// InjectedFile describes content handed to the host.
type InjectedFile struct {
	Name  string `yaml:"name"`
	Bytes int    `yaml:"bytes"`
}

// SetupReport is what the integration contributes to a host for a command.
type SetupReport struct {
	Integration string                 `yaml:"integration"`
	Script      InjectedFile           `yaml:"script"`
	Renderer    integration.Renderer   `yaml:"renderer"`
	Vite        integration.ViteConfig `yaml:"vite"`
	Types       InjectedFile           `yaml:"types"`
}

// Setup runs the config hooks of the integration for command and reports their effects.
func (a *App) Setup(ctx context.Context, command string) (*SetupReport, error) {
	o, err := a.loadOptions()
	if err != nil {
		return nil, err
	}
	integ := a.integration(o)

	report := &SetupReport{Integration: integ.Name()}
	err = integ.ConfigSetup(ctx, integration.SetupParams{
		Command: command,
		InjectScript: func(stage, content string) {
			report.Script = InjectedFile{Name: stage, Bytes: len(content)}
		},
		AddRenderer:  func(r integration.Renderer) { report.Renderer = r },
		UpdateConfig: func(c integration.ViteConfig) { report.Vite = c },
	})
	if err != nil {
		return nil, err
	}

	err = integ.ConfigDone(ctx, func(filename, content string) {
		report.Types = InjectedFile{Name: filename, Bytes: len(content)}
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Asset returns an embedded asset by name.
func (a *App) Asset(name string) (string, error) {
	return bootstrap.Asset(strings.ToLower(name))
}

// AssetNames lists the embedded assets.
func (a *App) AssetNames() []string {
	return bootstrap.AssetNames()
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
