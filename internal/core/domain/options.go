package domain

import "path/filepath"

// Options are the resolved integration settings of one project.
// All paths are absolute.
type Options struct {
	// Cwd is the project directory.
	Cwd string
	// PathToElm is the elm executable.
	PathToElm string
	// PathToElmJSON is the project manifest.
	PathToElmJSON string
	// SourceDir is the source root holding .elm files.
	SourceDir string
	// Debug enables verbose diagnostics.
	Debug bool
	// Optimize passes --optimize to production builds.
	Optimize bool
	// CreatorMode serves the integration from its sources.
	CreatorMode bool
	// PackageRoot is the integration's own package directory, used in creator mode.
	PackageRoot string
}

// DefaultOptions returns the options of a project at cwd without a config file.
func DefaultOptions(cwd string) *Options {
	return &Options{
		Cwd:           cwd,
		PathToElm:     filepath.Join(cwd, DefaultExecutablePath()),
		PathToElmJSON: filepath.Join(cwd, ManifestFileName),
		SourceDir:     filepath.Join(cwd, DefaultSourceDir()),
		Optimize:      true,
	}
}

// CompileRequest builds a compiler request for file.
// Dev builds are never optimized.
func (o *Options) CompileRequest(file string, dev bool) CompileRequest {
	return CompileRequest{
		File:       file,
		Manifest:   o.PathToElmJSON,
		Executable: o.PathToElm,
		SourceDir:  o.SourceDir,
		Optimize:   o.Optimize && !dev,
	}
}
