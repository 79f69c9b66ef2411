// Package config provides the configuration loader for elmstronaut.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load searches elmstronaut.yaml from cwd upwards and returns the resolved options.
// Without a config file the defaults for cwd are returned.
func (l *Loader) Load(cwd string) (*domain.Options, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	configPath, ok := findConfiguration(cwd)
	if !ok {
		l.Logger.Debug(fmt.Sprintf("no %s found above %s, using defaults", domain.ConfigFileName, cwd))
		return domain.DefaultOptions(cwd), nil
	}

	var file File
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	opts := resolve(filepath.Dir(configPath), &file)
	l.Logger.Debug(fmt.Sprintf("loaded %s: elm=%s manifest=%s source_dir=%s optimize=%t creator_mode=%t",
		configPath, opts.PathToElm, opts.PathToElmJSON, opts.SourceDir, opts.Optimize, opts.CreatorMode))

	if opts.CreatorMode && opts.PackageRoot == "" {
		l.Logger.Warn("'creatorMode' is enabled but 'packageRoot' is not set")
	}
	return opts, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// resolve applies the file on top of the defaults of the project at dir.
func resolve(dir string, file *File) *domain.Options {
	opts := domain.DefaultOptions(dir)

	if file.PathToElm != "" {
		opts.PathToElm = resolvePath(dir, file.PathToElm)
	}
	if file.PathToElmJSON != "" {
		opts.PathToElmJSON = resolvePath(dir, file.PathToElmJSON)
	}
	if file.SourceDir != "" {
		opts.SourceDir = resolvePath(dir, file.SourceDir)
	}
	if file.PackageRoot != "" {
		opts.PackageRoot = resolvePath(dir, file.PackageRoot)
	}
	if file.Debug != nil {
		opts.Debug = *file.Debug
	}
	if file.Optimize != nil {
		opts.Optimize = *file.Optimize
	}
	if file.CreatorMode != nil {
		opts.CreatorMode = *file.CreatorMode
	}
	return opts
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

// readAndUnmarshalYAML reads a YAML file and decodes it strictly into target.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from cwd
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
