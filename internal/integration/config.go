package integration

import "go.trai.ch/elmstronaut/internal/engine/transform"

// Renderer is the renderer registration handed to the host.
type Renderer struct {
	Name             string `yaml:"name"`
	ClientEntrypoint string `yaml:"clientEntrypoint"`
	ServerEntrypoint string `yaml:"serverEntrypoint"`
}

// OptimizeDeps controls dependency pre-bundling of the build tool.
type OptimizeDeps struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// FSConfig lists the directories the dev server may serve files from.
type FSConfig struct {
	Allow []string `yaml:"allow"`
}

// ServerConfig is the dev server section of the build tool config.
type ServerConfig struct {
	FS FSConfig `yaml:"fs"`
}

// ViteConfig is the build tool config merged into the host's config.
type ViteConfig struct {
	AssetsInclude []string            `yaml:"assetsInclude"`
	OptimizeDeps  OptimizeDeps        `yaml:"optimizeDeps"`
	Server        *ServerConfig       `yaml:"server,omitempty"`
	Plugins       []*transform.Plugin `yaml:"plugins"`
}
