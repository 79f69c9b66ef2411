package domain

import (
	"encoding/base64"
	"strings"
)

// IdentityToken is the hex encoded content digest of a source unit.
type IdentityToken string

// String returns the hex digest.
func (t IdentityToken) String() string {
	return string(t)
}

// App is a live Elm application returned by a module's init.
type App any

// Node is the element a component is mounted into.
type Node interface {
	// AppendChild appends rendered markup as the last child of the node.
	AppendChild(markup string)
}

// CompiledModule is a loaded Elm module exposing a name and an init capability.
type CompiledModule interface {
	Name() ModuleName
	Init(node Node, flags map[string]any) (App, error)
}

// RefKind classifies an opaque component reference.
type RefKind uint8

const (
	// RefUnrecognized is any reference this integration does not understand.
	RefUnrecognized RefKind = iota
	// RefPathLike is a file path, possibly carrying a "?query" suffix.
	RefPathLike
	// RefInlinedArtifact is a data URI carrying base64 encoded source text.
	RefInlinedArtifact
	// RefCompiledModule is a loaded module handle.
	RefCompiledModule
)

// String returns a readable kind name.
func (k RefKind) String() string {
	switch k {
	case RefPathLike:
		return "path"
	case RefInlinedArtifact:
		return "inlined"
	case RefCompiledModule:
		return "module"
	default:
		return "unrecognized"
	}
}

// ComponentRef is the classified form of a component reference.
// Only the fields matching Kind are set.
type ComponentRef struct {
	Kind RefKind
	// Path is the path portion of a RefPathLike reference, without the query.
	Path string
	// Source is the decoded source text of a RefInlinedArtifact reference.
	Source string
	// Module is the handle of a RefCompiledModule reference.
	Module CompiledModule
}

// IsElmPath reports whether a path-like reference names an Elm source file.
func (r ComponentRef) IsElmPath() bool {
	return r.Kind == RefPathLike && strings.HasSuffix(r.Path, SourceExt)
}

// Classify sorts a component reference into one of the RefKind variants.
func Classify(component any) ComponentRef {
	switch c := component.(type) {
	case string:
		if payload, ok := strings.CutPrefix(c, DataURIPrefix); ok {
			src, err := DecodeDataURIPayload(payload)
			if err != nil {
				return ComponentRef{Kind: RefUnrecognized}
			}
			return ComponentRef{Kind: RefInlinedArtifact, Source: src}
		}
		path, _, _ := strings.Cut(c, "?")
		return ComponentRef{Kind: RefPathLike, Path: path}
	case CompiledModule:
		return ComponentRef{Kind: RefCompiledModule, Module: c}
	default:
		return ComponentRef{Kind: RefUnrecognized}
	}
}

// DecodeDataURIPayload decodes the base64 part of an inlined reference.
// Padded and unpadded payloads are accepted.
func DecodeDataURIPayload(payload string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		b, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return "", ErrInvalidDataURI
		}
	}
	return string(b), nil
}

// EncodeDataURI builds an inlined reference the way the build tool does.
func EncodeDataURI(source string) string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString([]byte(source))
}
