// Package transform implements the build tool transform hook for Elm sources.
package transform

import (
	"context"
	"fmt"

	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
)

// TransformOptions are passed by the build tool with every transform call.
type TransformOptions struct {
	// SSR is set when the module is transformed for server rendering.
	SSR bool
}

// Result is a transformed Elm source unit.
type Result struct {
	// Code is the ES module text.
	Code string
	// Module is the Elm module name exported by Code.
	Module domain.ModuleName
	// Token is the identity token recorded for the source unit.
	Token domain.IdentityToken
}

// Plugin is the build tool plugin turning .elm files into ES modules.
type Plugin struct {
	opts     *domain.Options
	dev      bool
	hasher   ports.Hasher
	cache    ports.ArtifactCache
	compiler ports.Compiler
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewPlugin creates a Plugin. Dev plugins never pass --optimize to the compiler.
func NewPlugin(
	opts *domain.Options,
	dev bool,
	hasher ports.Hasher,
	cache ports.ArtifactCache,
	compiler ports.Compiler,
	tracer ports.Tracer,
	logger ports.Logger,
) *Plugin {
	return &Plugin{
		opts:     opts,
		dev:      dev,
		hasher:   hasher,
		cache:    cache,
		compiler: compiler,
		tracer:   tracer,
		logger:   logger,
	}
}

// Name returns the plugin name registered with the build tool.
func (p *Plugin) Name() string {
	return domain.PluginName
}

// Dev reports whether the plugin builds for the dev server.
func (p *Plugin) Dev() bool {
	return p.dev
}

// Transform compiles the Elm source unit at id.
//
// Ids that are not Elm files and synthetic entry ids return nil without error.
// The source is hashed and recorded in the artifact cache before anything
// else, so server passes, which return nil, still make the component known to
// the server renderer. Compile failures are attributed to id.
func (p *Plugin) Transform(ctx context.Context, _ string, id string, opts TransformOptions) (*Result, error) {
	if !domain.IsSourceID(id) {
		return nil, nil
	}

	ctx, span := p.tracer.Start(ctx, "transform "+id)
	defer span.End()
	span.SetAttribute("ssr", opts.SSR)

	token, err := p.hasher.HashFile(id)
	if err != nil {
		span.RecordError(err)
		return nil, &domain.TransformError{ID: id, Err: err}
	}
	p.cache.Add(token)
	span.SetAttribute("cached_tokens", p.cache.Len())

	if opts.SSR {
		p.logger.Debug(fmt.Sprintf("transform %s: recorded %s for the server pass", id, token))
		return nil, nil
	}

	name, err := domain.ModuleNameFor(p.opts.SourceDir, id)
	if err != nil {
		span.RecordError(err)
		return nil, &domain.TransformError{ID: id, Err: err}
	}
	span.SetAttribute("module", name)

	js, err := p.compiler.Compile(ctx, p.opts.CompileRequest(id, p.dev))
	if err != nil {
		span.RecordError(err)
		return nil, &domain.TransformError{ID: id, Err: err}
	}

	p.logger.Debug(fmt.Sprintf("transform %s: module=%s token=%s dev=%t", id, name, token, p.dev))

	return &Result{
		Code:   WrapModule(js, name),
		Module: name,
		Token:  token,
	}, nil
}

// MarshalYAML describes the plugin by its name and build mode.
func (p *Plugin) MarshalYAML() (any, error) {
	return struct {
		Name string `yaml:"name"`
		Dev  bool   `yaml:"dev"`
	}{Name: p.Name(), Dev: p.dev}, nil
}
