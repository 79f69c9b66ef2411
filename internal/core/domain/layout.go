package domain

import "path/filepath"

const (
	// SourceExt is the file extension of Elm source units.
	SourceExt = ".elm"

	// ManifestFileName is the name of the Elm project manifest.
	ManifestFileName = "elm.json"

	// ConfigFileName is the name of the elmstronaut configuration file.
	ConfigFileName = "elmstronaut.yaml"

	// SourceDirName is the directory holding Elm sources, relative to the project.
	SourceDirName = "src/elm"

	// SourceGlob is the asset pattern handed to the build tool.
	SourceGlob = "src/elm/**/*.elm"

	// AstroEntryMarker marks synthetic build graph ids that are not real files.
	AstroEntryMarker = "\x00astro-entry:"

	// DataURIPrefix prefixes inlined build output component references.
	DataURIPrefix = "data:application/octet-stream;base64,"

	// IntegrationName is the name the integration registers with the host.
	IntegrationName = "elmstronaut"

	// RendererName is the name of the Elm renderer.
	RendererName = "elm"

	// PluginName is the name of the build tool plugin.
	PluginName = "vite-plugin-elmstronaut"

	// ClientEntrypoint is the published client renderer entry.
	ClientEntrypoint = "elmstronaut/client.js"

	// ServerEntrypoint is the published server renderer entry.
	ServerEntrypoint = "elmstronaut/server.js"

	// TypesFileName is the name of the injected type declarations.
	TypesFileName = "elmstronaut.d.ts"

	// BootstrapScriptStage is the stage the bootstrap script is injected at.
	BootstrapScriptStage = "head-inline"

	// IssuesURL is where users report problems.
	IssuesURL = "https://github.com/feedbackone/elmstronaut/issues"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultExecutablePath returns where npm installs the elm binary.
// It joins node_modules, elm, bin and elm.
func DefaultExecutablePath() string {
	return filepath.Join("node_modules", "elm", "bin", "elm")
}

// DefaultSourceDir returns the source root relative to the project directory.
func DefaultSourceDir() string {
	return filepath.FromSlash(SourceDirName)
}
