package bootstrap

import (
	"embed"
	"path"
	"path/filepath"
	"slices"

	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed static/*
var staticFS embed.FS

// Asset names accepted by Asset.
const (
	AssetBootstrap = "bootstrap"
	AssetClient    = "client"
	AssetTypes     = "types"
)

var assetFiles = map[string]string{
	AssetBootstrap: "bootstrap.js",
	AssetClient:    "client.js",
	AssetTypes:     domain.TypesFileName,
}

// AssetNames returns the known asset names in sorted order.
func AssetNames() []string {
	names := make([]string, 0, len(assetFiles))
	for name := range assetFiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Asset returns the content of the named embedded asset.
func Asset(name string) (string, error) {
	file, ok := assetFiles[name]
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownAsset, "no embedded asset with this name"), "asset", name)
	}
	b, err := staticFS.ReadFile(path.Join("static", file))
	if err != nil {
		return "", zerr.With(err, "asset", name)
	}
	return string(b), nil
}

// BootstrapScript returns the browser rendition of the bootstrap protocol.
func BootstrapScript() string {
	return mustAsset(AssetBootstrap)
}

// ClientScript returns the browser client renderer.
func ClientScript() string {
	return mustAsset(AssetClient)
}

// TypeDeclarations returns the type declarations injected into projects.
func TypeDeclarations() string {
	return mustAsset(AssetTypes)
}

// SourcePath returns where the named asset lives in the package sources at root.
// It is used in creator mode, where assets are read from disk.
func SourcePath(root, name string) string {
	return filepath.Join(root, "src", "static", assetFiles[name])
}

func mustAsset(name string) string {
	s, err := Asset(name)
	if err != nil {
		panic(err)
	}
	return s
}
