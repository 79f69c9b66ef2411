package config

// File represents the structure of the elmstronaut.yaml configuration file.
// Pointer fields distinguish an omitted key from its zero value.
type File struct {
	PathToElm     string `yaml:"pathToElm"`
	PathToElmJSON string `yaml:"pathToElmJson"`
	SourceDir     string `yaml:"sourceDir"`
	Debug         *bool  `yaml:"debug"`
	Optimize      *bool  `yaml:"optimize"`
	CreatorMode   *bool  `yaml:"creatorMode"`
	PackageRoot   string `yaml:"packageRoot"`
}
