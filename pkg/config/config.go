// Package config loads the YAML file holding form defaults, kernel
// resolution and log level.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/cratekit/pkg/boxgen"
	"github.com/chazu/cratekit/pkg/kernel/sdfx"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file location, relative to the working directory.
const DefaultPath = "boxgen.yaml"

// KernelConfig tunes tessellation.
type KernelConfig struct {
	MeshCells int `yaml:"mesh_cells"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the on-disk configuration.
type Config struct {
	Form   boxgen.Params `yaml:"form"`
	Kernel KernelConfig  `yaml:"kernel"`
	Log    LogConfig     `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Form:   boxgen.DefaultParams(),
		Kernel: KernelConfig{MeshCells: sdfx.DefaultMeshCells},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the config at path. A missing file yields Default() with no
// error. Keys absent from the file keep their default values; a file that
// does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories if needed.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the form defaults, kernel resolution and log level.
func (c Config) Validate() error {
	if err := c.Form.Validate(); err != nil {
		return err
	}
	if c.Kernel.MeshCells < 0 {
		return fmt.Errorf("kernel.mesh_cells must not be negative, got %d", c.Kernel.MeshCells)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ApplyLogging sets the global logrus level from the config.
func (c Config) ApplyLogging() error {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}

// NewKernel returns an sdfx kernel at the configured resolution.
func (c Config) NewKernel() *sdfx.SdfxKernel {
	return sdfx.NewWithCells(c.Kernel.MeshCells)
}
