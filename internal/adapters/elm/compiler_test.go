package elm_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elmstronaut/internal/adapters/elm"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeElm mimics `elm make`: files named Broken fail with a compiler report,
// everything else writes a small module plus the received arguments.
const fakeElm = `#!/bin/sh
if [ "$1" != "make" ]; then
  echo "unexpected command $1" >&2
  exit 2
fi
case "$2" in
  *Broken*)
    echo "" >&2
    echo "-- SYNTAX ERROR ----------------------------------------------- Broken.elm" >&2
    echo "" >&2
    echo "I got stuck while parsing the module declaration." >&2
    echo "" >&2
    exit 1
    ;;
esac
{
  echo "(function(scope){'use strict'; scope['Elm'] = {};}(this));"
  echo "// args: $*"
  echo "// cwd: $(pwd)"
} > "$4"
`

func newProject(t *testing.T) *domain.Options {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	opts := domain.DefaultOptions(root)

	require.NoError(t, os.WriteFile(opts.PathToElmJSON, []byte(`{"type":"application"}`), domain.FilePerm))
	require.NoError(t, os.MkdirAll(filepath.Dir(opts.PathToElm), domain.DirPerm))
	require.NoError(t, os.WriteFile(opts.PathToElm, []byte(fakeElm), 0o755)) //nolint:gosec // test executable
	require.NoError(t, os.MkdirAll(filepath.Join(opts.SourceDir, "Greeting"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(opts.SourceDir, "Greeting", "Hello.elm"), []byte("module Greeting.Hello exposing (main)\n"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(opts.SourceDir, "Broken.elm"), []byte("modul Broken\n"), domain.FilePerm))

	return opts
}

func newCompiler(t *testing.T) *elm.Compiler {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return elm.NewCompiler(log)
}

// assertNoTempFiles checks that no compiler artifacts are left in the source root.
func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".js"), "leftover output %s", e.Name())
		assert.False(t, strings.HasSuffix(e.Name(), ".log"), "leftover log %s", e.Name())
	}
}

func TestCompiler_Success(t *testing.T) {
	opts := newProject(t)
	file := filepath.Join(opts.SourceDir, "Greeting", "Hello.elm")

	c := newCompiler(t).WithClock(func() time.Time { return time.UnixMilli(1739905905593) })
	js, err := c.Compile(t.Context(), opts.CompileRequest(file, false))
	require.NoError(t, err)

	assert.Contains(t, js, "(this)")
	assert.Contains(t, js, "// args: make Greeting/Hello.elm --output "+
		filepath.Join(opts.SourceDir, "Greeting.Hello-1739905905593-1.js")+" --optimize")
	assert.Contains(t, js, "// cwd: "+opts.SourceDir)
	assertNoTempFiles(t, opts.SourceDir)
}

func TestCompiler_DevModeSkipsOptimize(t *testing.T) {
	opts := newProject(t)
	file := filepath.Join(opts.SourceDir, "Greeting", "Hello.elm")

	js, err := newCompiler(t).Compile(t.Context(), opts.CompileRequest(file, true))
	require.NoError(t, err)

	assert.NotContains(t, js, "--optimize")
}

func TestCompiler_CompileError(t *testing.T) {
	opts := newProject(t)
	file := filepath.Join(opts.SourceDir, "Broken.elm")

	_, err := newCompiler(t).Compile(t.Context(), opts.CompileRequest(file, true))
	require.Error(t, err)

	var compileErr *domain.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, 1, compileErr.ExitCode)
	assert.Equal(t,
		">   -- SYNTAX ERROR ----------------------------------------------- Broken.elm\n"+
			">   \n"+
			">   I got stuck while parsing the module declaration.",
		compileErr.Log)
	assert.True(t, strings.HasPrefix(err.Error(), "Elm compiler exited with code 1:\n\n>   -- SYNTAX ERROR"))
	assertNoTempFiles(t, opts.SourceDir)
}

func TestCompiler_MissingManifest(t *testing.T) {
	opts := newProject(t)
	require.NoError(t, os.Remove(opts.PathToElmJSON))

	_, err := newCompiler(t).Compile(t.Context(), opts.CompileRequest(filepath.Join(opts.SourceDir, "Broken.elm"), true))

	var setupErr *domain.SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.ErrorIs(t, err, domain.ErrMissingManifest)
	assert.Equal(t, opts.PathToElmJSON, setupErr.Path)
	assert.Contains(t, err.Error(), "Try running: `elm init`.")
}

func TestCompiler_MissingExecutable(t *testing.T) {
	opts := newProject(t)
	require.NoError(t, os.Remove(opts.PathToElm))

	_, err := newCompiler(t).Compile(t.Context(), opts.CompileRequest(filepath.Join(opts.SourceDir, "Broken.elm"), true))

	assert.ErrorIs(t, err, domain.ErrMissingExecutable)
	assert.Contains(t, err.Error(), "Try running: `npm install`.")
}

func TestCompiler_SpawnError(t *testing.T) {
	opts := newProject(t)
	require.NoError(t, os.Chmod(opts.PathToElm, domain.FilePerm))

	_, err := newCompiler(t).Compile(t.Context(), opts.CompileRequest(filepath.Join(opts.SourceDir, "Greeting", "Hello.elm"), true))
	require.Error(t, err)

	var spawnErr *domain.SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.ErrorIs(t, err, domain.ErrSpawnFailed)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to start Elm compiler: "))
	assertNoTempFiles(t, opts.SourceDir)
}

func TestCompiler_OutsideSourceRoot(t *testing.T) {
	opts := newProject(t)

	_, err := newCompiler(t).Compile(t.Context(), opts.CompileRequest(filepath.Join(opts.Cwd, "Main.elm"), true))
	assert.ErrorIs(t, err, domain.ErrOutsideSourceRoot)
}

func TestCompiler_ConcurrentCompilesOfSameFile(t *testing.T) {
	opts := newProject(t)
	file := filepath.Join(opts.SourceDir, "Greeting", "Hello.elm")
	c := newCompiler(t).WithClock(func() time.Time { return time.UnixMilli(42) })

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Go(func() {
			_, errs[i] = c.Compile(t.Context(), opts.CompileRequest(file, true))
		})
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assertNoTempFiles(t, opts.SourceDir)
}

func TestPrettify(t *testing.T) {
	assert.Equal(t, ">   a\n>   \n>   b", elm.Prettify("\n\n  a\n\nb  \n"))
	assert.Equal(t, ">   ", elm.Prettify("   "))
}
