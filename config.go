package townview

import (
	"fmt"
	"os"

	"github.com/gekko3d/townview/town"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type RegionConfig struct {
	File   string `yaml:"file"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type TextureConfig struct {
	File string `yaml:"file"`
}

type HeadlessConfig struct {
	Frames int `yaml:"frames"`
}

// Config is the executable's settings file.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Region   RegionConfig   `yaml:"region"`
	Texture  TextureConfig  `yaml:"texture"`
	Debug    bool           `yaml:"debug"`
	Headless HeadlessConfig `yaml:"headless"`
}

func DefaultConfig() Config {
	return Config{
		Window:   WindowConfig{Width: 1280, Height: 720, Title: "Townview"},
		Region:   RegionConfig{Width: 16, Height: 16},
		Headless: HeadlessConfig{Frames: 60},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size %dx%d is negative", c.Window.Width, c.Window.Height)
	}
	if c.Region.Width < 0 || c.Region.Height < 0 {
		return fmt.Errorf("region size %dx%d is negative", c.Region.Width, c.Region.Height)
	}
	if c.Headless.Frames < 0 {
		return fmt.Errorf("headless frames %d is negative", c.Headless.Frames)
	}
	return nil
}

// Modules returns the scene modules for c: assets, render, viewport,
// environment and town. Window and input are left to the caller.
func (c Config) Modules() []Module {
	assets := AssetServerModule{}
	if c.Texture.File != "" {
		assets.Textures = map[string]string{town.GrassTexture: c.Texture.File}
	}
	return []Module{
		LoggingModule{Prefix: "townview", Debug: c.Debug},
		assets,
		TimeModule{},
		RenderModule{},
		DefaultViewport(),
		EnvironmentModule{},
		TownModule{RegionFile: c.Region.File, Width: c.Region.Width, Height: c.Region.Height},
		StatsModule{},
	}
}
