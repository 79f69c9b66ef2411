package integration_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elmstronaut/internal/adapters/cache"
	"go.trai.ch/elmstronaut/internal/adapters/telemetry"
	"go.trai.ch/elmstronaut/internal/bootstrap"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/elmstronaut/internal/core/ports/mocks"
	"go.trai.ch/elmstronaut/internal/integration"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

type setupResult struct {
	stage, script string
	renderer      integration.Renderer
	config        integration.ViteConfig
}

func newIntegration(t *testing.T, opts *domain.Options) (*integration.Integration, *cache.Store, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	store := cache.NewStore()
	return integration.New(opts, integration.Deps{
		Hasher:   mocks.NewMockHasher(ctrl),
		Cache:    store,
		Compiler: mocks.NewMockCompiler(ctrl),
		Tracer:   telemetry.NewNoOpTracer(),
		Logger:   mockLogger,
	}), store, mockLogger
}

func runSetup(t *testing.T, i *integration.Integration, command string) setupResult {
	t.Helper()
	var res setupResult
	err := i.ConfigSetup(t.Context(), integration.SetupParams{
		Command:      command,
		InjectScript: func(stage, content string) { res.stage, res.script = stage, content },
		AddRenderer:  func(r integration.Renderer) { res.renderer = r },
		UpdateConfig: func(c integration.ViteConfig) { res.config = c },
	})
	require.NoError(t, err)
	return res
}

func TestIntegration_ConfigSetup(t *testing.T) {
	i, _, _ := newIntegration(t, domain.DefaultOptions("/p"))
	assert.Equal(t, "elmstronaut", i.Name())

	res := runSetup(t, i, "build")

	assert.Equal(t, "head-inline", res.stage)
	assert.Equal(t, bootstrap.BootstrapScript(), res.script)
	assert.Equal(t, integration.Renderer{
		Name:             "elm",
		ClientEntrypoint: "elmstronaut/client.js",
		ServerEntrypoint: "elmstronaut/server.js",
	}, res.renderer)

	assert.Equal(t, []string{"src/elm/**/*.elm"}, res.config.AssetsInclude)
	assert.Equal(t, []string{"elmstronaut/client.js"}, res.config.OptimizeDeps.Include)
	assert.Equal(t, []string{"elmstronaut/server.js"}, res.config.OptimizeDeps.Exclude)
	assert.Nil(t, res.config.Server)
	require.Len(t, res.config.Plugins, 1)
	assert.Equal(t, "vite-plugin-elmstronaut", res.config.Plugins[0].Name())
	assert.False(t, res.config.Plugins[0].Dev())
}

func TestIntegration_ConfigSetup_DevCommand(t *testing.T) {
	i, _, _ := newIntegration(t, domain.DefaultOptions("/p"))

	res := runSetup(t, i, "dev")
	require.Len(t, res.config.Plugins, 1)
	assert.True(t, res.config.Plugins[0].Dev())
}

func TestIntegration_ConfigSetup_NilCapabilities(t *testing.T) {
	i, _, _ := newIntegration(t, domain.DefaultOptions("/p"))
	assert.NoError(t, i.ConfigSetup(t.Context(), integration.SetupParams{Command: "build"}))
}

func creatorOptions(t *testing.T) *domain.Options {
	t.Helper()
	pkg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "src", "static"), domain.DirPerm))
	require.NoError(t, os.WriteFile(bootstrap.SourcePath(pkg, bootstrap.AssetBootstrap), []byte("// local bootstrap\n"), domain.FilePerm))
	require.NoError(t, os.WriteFile(bootstrap.SourcePath(pkg, bootstrap.AssetTypes), []byte("// local types\n"), domain.FilePerm))

	opts := domain.DefaultOptions("/p")
	opts.CreatorMode = true
	opts.PackageRoot = pkg
	return opts
}

func TestIntegration_ConfigSetup_CreatorMode(t *testing.T) {
	opts := creatorOptions(t)
	i, _, _ := newIntegration(t, opts)

	res := runSetup(t, i, "dev")

	assert.Equal(t, "// local bootstrap\n", res.script)
	assert.Equal(t, filepath.Join(opts.PackageRoot, "src", "client.ts"), res.renderer.ClientEntrypoint)
	assert.Equal(t, filepath.Join(opts.PackageRoot, "src", "server.ts"), res.renderer.ServerEntrypoint)
	require.NotNil(t, res.config.Server)
	assert.Equal(t, []string{opts.PackageRoot}, res.config.Server.FS.Allow)
}

func TestIntegration_ConfigSetup_CreatorModeMissingSources(t *testing.T) {
	opts := domain.DefaultOptions("/p")
	opts.CreatorMode = true
	opts.PackageRoot = t.TempDir()
	i, _, _ := newIntegration(t, opts)

	err := i.ConfigSetup(t.Context(), integration.SetupParams{Command: "dev"})
	assert.Error(t, err)
}

func TestIntegration_ConfigDone(t *testing.T) {
	i, _, _ := newIntegration(t, domain.DefaultOptions("/p"))

	var filename, content string
	require.NoError(t, i.ConfigDone(t.Context(), func(f, c string) { filename, content = f, c }))

	assert.Equal(t, "elmstronaut.d.ts", filename)
	assert.Equal(t, bootstrap.TypeDeclarations(), content)
}

func TestIntegration_ConfigDone_CreatorMode(t *testing.T) {
	i, _, _ := newIntegration(t, creatorOptions(t))

	var content string
	require.NoError(t, i.ConfigDone(t.Context(), func(_, c string) { content = c }))
	assert.Equal(t, "// local types\n", content)
}

func TestIntegration_BuildDone(t *testing.T) {
	i, store, _ := newIntegration(t, domain.DefaultOptions("/p"))
	store.Add("a")
	store.Add("b")

	i.BuildDone(t.Context())
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Has("a"))
}

func TestIntegration_ViteConfigYAML(t *testing.T) {
	i, _, _ := newIntegration(t, domain.DefaultOptions("/p"))

	out, err := yaml.Marshal(i.ViteConfig(true))
	require.NoError(t, err)
	assert.Equal(t, `assetsInclude:
    - src/elm/**/*.elm
optimizeDeps:
    include:
        - elmstronaut/client.js
    exclude:
        - elmstronaut/server.js
plugins:
    - name: vite-plugin-elmstronaut
      dev: true
`, string(out))
}

type devServer struct {
	restarts chan struct{}
	err      error
}

func (s *devServer) Restart(context.Context) error {
	s.restarts <- struct{}{}
	return s.err
}

func TestIntegration_ServerSetup_NoCreatorMode(t *testing.T) {
	i, _, _ := newIntegration(t, domain.DefaultOptions("/p"))
	assert.NoError(t, i.ServerSetup(t.Context(), &devServer{}))
}

func TestIntegration_ServerSetup_RestartsOnBootstrapChange(t *testing.T) {
	opts := creatorOptions(t)
	scriptPath := bootstrap.SourcePath(opts.PackageRoot, bootstrap.AssetBootstrap)

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).Times(2)
	mockLogger.EXPECT().Error(gomock.Any()).Times(2)

	events := make(chan ports.WatchEvent)
	mockWatcher := mocks.NewMockWatcher(ctrl)
	mockWatcher.EXPECT().Start(gomock.Any(), scriptPath).Return(nil)
	mockWatcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	stopped := make(chan struct{})
	mockWatcher.EXPECT().Stop().DoAndReturn(func() error {
		close(stopped)
		return nil
	})

	i := integration.New(opts, integration.Deps{
		Cache:      cache.NewStore(),
		Tracer:     telemetry.NewNoOpTracer(),
		Logger:     mockLogger,
		NewWatcher: func() (ports.Watcher, error) { return mockWatcher, nil },
	})

	server := &devServer{restarts: make(chan struct{}, 2), err: errors.New("restart failed")}
	require.NoError(t, i.ServerSetup(t.Context(), server))

	events <- ports.WatchEvent{Path: filepath.Join(opts.PackageRoot, "src", "static", "client.js"), Operation: ports.OpWrite}
	events <- ports.WatchEvent{Path: scriptPath, Operation: ports.OpWrite}
	events <- ports.WatchEvent{Path: scriptPath, Operation: ports.OpRename}
	close(events)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watcher not stopped")
	}
	assert.Len(t, server.restarts, 2)
}

func TestIntegration_ServerSetup_WatcherError(t *testing.T) {
	opts := creatorOptions(t)
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	i := integration.New(opts, integration.Deps{
		Logger:     mockLogger,
		NewWatcher: func() (ports.Watcher, error) { return nil, domain.ErrWatcherFailed },
	})
	assert.ErrorIs(t, i.ServerSetup(t.Context(), &devServer{}), domain.ErrWatcherFailed)
}
