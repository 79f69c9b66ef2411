package domain

import (
	"fmt"
	"strconv"

	"go.trai.ch/zerr"
)

var (
	// ErrMissingManifest is returned when elm.json cannot be found in the project directory.
	ErrMissingManifest = zerr.New("missing elm.json")

	// ErrMissingExecutable is returned when the elm executable is not installed.
	ErrMissingExecutable = zerr.New("missing elm executable")

	// ErrSpawnFailed is returned when the elm compiler process cannot be started.
	ErrSpawnFailed = zerr.New("failed to start Elm compiler")

	// ErrCompilationFailed is returned when the elm compiler exits with a nonzero code.
	ErrCompilationFailed = zerr.New("elm compilation failed")

	// ErrTransformFailed is returned when a source unit cannot be turned into a module.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrOutsideSourceRoot is returned when a source file is not located below the source root.
	ErrOutsideSourceRoot = zerr.New("file is outside the elm source directory")

	// ErrCallbackAlreadyDefined is returned when the init callback is installed a second time.
	ErrCallbackAlreadyDefined = zerr.New("`window.onElmInit` should only be defined once.")

	// ErrTempFileFailed is returned when a temporary compiler artifact cannot be created or read.
	ErrTempFileFailed = zerr.New("failed to handle temporary compiler file")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrInvalidDataURI is returned when an inlined component reference cannot be decoded.
	ErrInvalidDataURI = zerr.New("invalid base64 payload in data URI")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrNoFilesSpecified is returned when compile is called without any source files.
	ErrNoFilesSpecified = zerr.New("no files specified")

	// ErrBuildFailed is returned when at least one file of a build could not be compiled.
	ErrBuildFailed = zerr.New("build failed")

	// ErrOutDirRequired is returned when several files are compiled without an output directory.
	ErrOutDirRequired = zerr.New("compiling more than one file requires an output directory")

	// ErrOutputWriteFailed is returned when a compiled module cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write compiled module")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrUnknownAsset is returned when an embedded asset name is not known.
	ErrUnknownAsset = zerr.New("unknown asset")
)

// SetupError reports a project that is not ready to compile Elm.
// Kind is ErrMissingManifest or ErrMissingExecutable.
type SetupError struct {
	Kind error
	Path string
}

func (e *SetupError) Error() string {
	switch e.Kind {
	case ErrMissingManifest:
		return "I was trying to find " + e.Path + ", but I couldn't.\n\n" +
			"It looks like you are starting a new Elm project. Very exciting!\n" +
			"Try running: `elm init`. It will help you get set up."
	case ErrMissingExecutable:
		return "I was trying to find " + e.Path + ", but I couldn't.\n" +
			"Try running: `npm install`. It will help you fix the issue.\n\n" +
			"If the problem still persists, please open an issue at " + IssuesURL
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
}

// Unwrap returns the sentinel describing what is missing.
func (e *SetupError) Unwrap() error {
	return e.Kind
}

// SpawnError reports that the compiler process could not be started.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return "Failed to start Elm compiler: " + e.Err.Error()
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawnFailed, e.Err}
}

// CompileError reports a compiler run that exited with a nonzero code.
// Log holds the prettified compiler output.
type CompileError struct {
	ExitCode int
	Log      string
}

func (e *CompileError) Error() string {
	return "Elm compiler exited with code " + strconv.Itoa(e.ExitCode) + ":\n\n" + e.Log
}

// Unwrap returns ErrCompilationFailed.
func (e *CompileError) Unwrap() error {
	return ErrCompilationFailed
}

// TransformError attributes a failure to the build graph id being transformed.
type TransformError struct {
	ID  string
	Err error
}

func (e *TransformError) Error() string {
	return "Error compiling " + e.ID + ".\n\n" + e.Err.Error() + "\n"
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *TransformError) Unwrap() []error {
	return []error{ErrTransformFailed, e.Err}
}
