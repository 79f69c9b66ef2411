package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elmstronaut/cmd/elmstronaut/commands"
	"go.trai.ch/elmstronaut/internal/app"
	"go.trai.ch/elmstronaut/internal/build"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/integration"
)

type mockApp struct {
	loggingFunc func(format string, debug bool)
	compileFunc func(ctx context.Context, files []string, opts app.CompileOptions) error
	checkFunc   func(ctx context.Context, refs []string) ([]app.CheckResult, error)
	renderFunc  func(ctx context.Context, opts app.RenderOptions) (string, error)
	devFunc     func(ctx context.Context, opts app.DevOptions) error
	setupFunc   func(ctx context.Context, command string) (*app.SetupReport, error)
	assetFunc   func(name string) (string, error)
}

func (m *mockApp) ConfigureLogging(format string, debug bool) {
	if m.loggingFunc != nil {
		m.loggingFunc(format, debug)
	}
}

func (m *mockApp) Compile(ctx context.Context, files []string, opts app.CompileOptions) error {
	if m.compileFunc != nil {
		return m.compileFunc(ctx, files, opts)
	}
	return nil
}

func (m *mockApp) Check(ctx context.Context, refs []string) ([]app.CheckResult, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, refs)
	}
	return nil, nil
}

func (m *mockApp) Render(ctx context.Context, opts app.RenderOptions) (string, error) {
	if m.renderFunc != nil {
		return m.renderFunc(ctx, opts)
	}
	return "", nil
}

func (m *mockApp) Dev(ctx context.Context, opts app.DevOptions) error {
	if m.devFunc != nil {
		return m.devFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Setup(ctx context.Context, command string) (*app.SetupReport, error) {
	if m.setupFunc != nil {
		return m.setupFunc(ctx, command)
	}
	return &app.SetupReport{}, nil
}

func (m *mockApp) Asset(name string) (string, error) {
	if m.assetFunc != nil {
		return m.assetFunc(name)
	}
	return "", nil
}

func (m *mockApp) AssetNames() []string {
	return []string{"bootstrap", "client", "types"}
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Compile(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.CompileOptions
		var capturedFiles []string

		mock := &mockApp{
			compileFunc: func(_ context.Context, files []string, opts app.CompileOptions) error {
				capturedOpts = opts
				capturedFiles = files
				return nil
			},
		}

		_, err := execute(t, mock, "compile", "src/elm/Counter.elm", "src/elm/Main.elm", "--dev", "-o", "dist")
		require.NoError(t, err)
		assert.True(t, capturedOpts.Dev)
		assert.False(t, capturedOpts.SSR)
		assert.Equal(t, "dist", capturedOpts.OutDir)
		assert.NotNil(t, capturedOpts.Out)
		assert.Equal(t, []string{"src/elm/Counter.elm", "src/elm/Main.elm"}, capturedFiles)
	})

	t.Run("returns error on compile failure", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) error {
				return domain.ErrBuildFailed
			},
		}

		_, err := execute(t, mock, "compile", "Counter.elm")
		require.ErrorIs(t, err, domain.ErrBuildFailed)
	})

	t.Run("shows usage when no files provided", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) error {
				panic("should not be called")
			},
		}

		out, err := execute(t, mock, "compile")
		require.NoError(t, err)
		assert.Contains(t, out, "Usage:")
	})
}

func TestCommands_LoggingFlags(t *testing.T) {
	var format string
	var debug bool
	mock := &mockApp{
		loggingFunc: func(f string, d bool) {
			format = f
			debug = d
		},
	}

	_, err := execute(t, mock, "--log-format", "json", "--debug", "compile", "Counter.elm")
	require.NoError(t, err)
	assert.Equal(t, "json", format)
	assert.True(t, debug)
}

func TestCommands_Check(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	mock := &mockApp{
		checkFunc: func(_ context.Context, refs []string) ([]app.CheckResult, error) {
			return []app.CheckResult{
				{Ref: refs[0], Owned: true},
				{Ref: refs[1], Owned: false},
			}, nil
		},
	}

	out, err := execute(t, mock, "check", "/src/elm/Counter.elm", "/src/pages/index.astro")
	require.NoError(t, err)
	assert.Equal(t, "✓ /src/elm/Counter.elm\n✗ /src/pages/index.astro\n", out)

	_, err = execute(t, mock, "check")
	require.Error(t, err)
}

func TestCommands_Render(t *testing.T) {
	var captured app.RenderOptions
	mock := &mockApp{
		renderFunc: func(_ context.Context, opts app.RenderOptions) (string, error) {
			captured = opts
			return "<p>Loading</p>", nil
		},
	}

	out, err := execute(t, mock, "render", "/src/elm/Counter.elm", "--fallback", "<p>Loading</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>Loading</p>\n", out)
	assert.Equal(t, app.RenderOptions{Component: "/src/elm/Counter.elm", Fallback: "<p>Loading</p>", HasFallback: true}, captured)

	_, err = execute(t, mock, "render", "/src/elm/Counter.elm", "--fallback", "")
	require.NoError(t, err)
	assert.True(t, captured.HasFallback)
	assert.Empty(t, captured.Fallback)

	_, err = execute(t, mock, "render", "/src/elm/Counter.elm")
	require.NoError(t, err)
	assert.False(t, captured.HasFallback)
}

func TestCommands_Dev(t *testing.T) {
	var captured app.DevOptions
	mock := &mockApp{
		devFunc: func(_ context.Context, opts app.DevOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "dev")
	require.NoError(t, err)
	assert.Equal(t, "dist/elm", captured.OutDir)

	_, err = execute(t, mock, "dev", "--out", "public/elm")
	require.NoError(t, err)
	assert.Equal(t, "public/elm", captured.OutDir)
}

func TestCommands_Setup(t *testing.T) {
	var command string
	mock := &mockApp{
		setupFunc: func(_ context.Context, c string) (*app.SetupReport, error) {
			command = c
			return &app.SetupReport{
				Integration: domain.IntegrationName,
				Script:      app.InjectedFile{Name: domain.BootstrapScriptStage, Bytes: 42},
				Renderer:    integration.Renderer{Name: domain.RendererName},
			}, nil
		},
	}

	out, err := execute(t, mock, "setup", "--command", "dev")
	require.NoError(t, err)
	assert.Equal(t, "dev", command)
	assert.Contains(t, out, "integration: elmstronaut\n")
	assert.Contains(t, out, "script:\n  name: head-inline\n  bytes: 42\n")

	setupErr := errors.New("missing package root")
	mock.setupFunc = func(context.Context, string) (*app.SetupReport, error) { return nil, setupErr }
	_, err = execute(t, mock, "setup")
	require.ErrorIs(t, err, setupErr)
}

func TestCommands_Assets(t *testing.T) {
	mock := &mockApp{
		assetFunc: func(name string) (string, error) {
			if name == "bootstrap" {
				return "window.onElmInit = null;\n", nil
			}
			return "", domain.ErrUnknownAsset
		},
	}

	out, err := execute(t, mock, "assets")
	require.NoError(t, err)
	assert.Equal(t, "bootstrap\nclient\ntypes\n", out)

	out, err = execute(t, mock, "assets", "bootstrap")
	require.NoError(t, err)
	assert.Equal(t, "window.onElmInit = null;\n", out)

	_, err = execute(t, mock, "assets", "styles")
	require.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "elmstronaut version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
