package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// ModuleName is the dotted Elm module name of a source unit, e.g. "Greeting.Hello".
type ModuleName string

// String returns the module name.
func (m ModuleName) String() string {
	return string(m)
}

// ModuleNameFor derives the module name of file relative to srcRoot.
// Path separators become dots and the .elm extension is stripped.
func ModuleNameFor(srcRoot, file string) (ModuleName, error) {
	rel, err := RelativeSource(srcRoot, file)
	if err != nil {
		return "", err
	}
	name := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
	return ModuleName(strings.TrimSuffix(name, SourceExt)), nil
}

// RelativeSource returns file relative to srcRoot.
// Files outside of srcRoot are rejected.
func RelativeSource(srcRoot, file string) (string, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(srcRoot, file)
	}
	rel, err := filepath.Rel(srcRoot, file)
	if err != nil {
		return "", zerr.With(zerr.Wrap(ErrOutsideSourceRoot, err.Error()), "file", file)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.With(zerr.Wrap(ErrOutsideSourceRoot, "cannot derive module name"), "file", file), "source_dir", srcRoot)
	}
	return rel, nil
}

// IsSourceID reports whether a build graph id refers to a real Elm source file.
func IsSourceID(id string) bool {
	return strings.HasSuffix(id, SourceExt) && !strings.Contains(id, AstroEntryMarker)
}

// CompileRequest describes one compiler invocation.
type CompileRequest struct {
	// File is the absolute path of the source unit.
	File string
	// Manifest is the absolute path of elm.json.
	Manifest string
	// Executable is the absolute path of the elm binary.
	Executable string
	// SourceDir is the source root; the compiler runs from there.
	SourceDir string
	// Optimize adds --optimize to the compiler arguments.
	Optimize bool
}
