// Package server implements the server side renderer of Elm components.
//
// Elm components are never executed on the server; the renderer decides
// ownership of a component reference and emits placeholder markup that the
// client renderer later replaces.
package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
)

// FallbackSlot is the slot rendered in place of the component.
const FallbackSlot = "fallback"

// emptyPlaceholder is rendered without a fallback slot. An empty string would
// make the host render the nested component in full.
const emptyPlaceholder = " "

// StaticMarkup is the result of a server render.
type StaticMarkup struct {
	HTML  string
	Attrs map[string]string
}

// Renderer implements the server renderer contract.
type Renderer struct {
	hasher ports.Hasher
	cache  ports.ArtifactCache
	logger ports.Logger
}

// NewRenderer creates a Renderer that checks inlined artifacts against cache.
func NewRenderer(hasher ports.Hasher, cache ports.ArtifactCache, logger ports.Logger) *Renderer {
	return &Renderer{hasher: hasher, cache: cache, logger: logger}
}

// Check reports whether component is an Elm component this renderer owns.
//
// Path references are owned when their path, without query, ends in .elm.
// Inlined artifacts carry no path and are owned when the transform pipeline
// recorded the identity token of their decoded source.
func (r *Renderer) Check(_ context.Context, component any, props map[string]any, slots map[string]string, meta any) bool {
	ref := domain.Classify(component)
	owned := r.owns(ref)

	r.logger.Debug(fmt.Sprintf("check %s: kind=%s owned=%t props=%d slots=%d meta=%v",
		describe(component), ref.Kind, owned, len(props), len(slots), meta))

	return owned
}

func (r *Renderer) owns(ref domain.ComponentRef) bool {
	switch ref.Kind {
	case domain.RefPathLike:
		return ref.IsElmPath()
	case domain.RefInlinedArtifact:
		return r.cache.Has(r.hasher.HashString(ref.Source))
	default:
		return false
	}
}

// RenderToStaticMarkup renders the placeholder of component.
// The fallback slot is used as is when present, even when empty.
func (r *Renderer) RenderToStaticMarkup(ctx context.Context, component any, props map[string]any, slots map[string]string, meta any) (StaticMarkup, error) {
	r.logger.Debug(fmt.Sprintf("render %s: props=%d slots=%d meta=%v",
		describe(component), len(props), len(slots), meta))

	html := emptyPlaceholder
	if fallback, ok := slots[FallbackSlot]; ok {
		html = fallback
	}

	var sb strings.Builder
	if err := Placeholder(html).Render(ctx, &sb); err != nil {
		return StaticMarkup{}, err
	}
	return StaticMarkup{HTML: sb.String(), Attrs: map[string]string{}}, nil
}

// Placeholder returns the markup written in place of an Elm component.
// Slot content is already rendered HTML and is written unescaped.
func Placeholder(html string) templ.Component {
	return templ.Raw(html)
}

// describe shortens data URIs for log lines.
func describe(component any) string {
	s, ok := component.(string)
	if !ok {
		return fmt.Sprintf("%T", component)
	}
	const limit = 64
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
