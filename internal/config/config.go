package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPackageName = "api"
	DefaultOutputDir   = "generated"
)

// FileNames lists the config files searched for, in priority order.
var FileNames = []string{
	"typespec-go.json",
	"typespec-go.yaml",
	"typespec-go.yml",
	"typespec-go.toml",
}

// Config represents the typespec-go configuration file
type Config struct {
	PackageName string `json:"packageName,omitempty" yaml:"packageName,omitempty" toml:"packageName,omitempty"`
	OutputDir   string `json:"outputDir,omitempty" yaml:"outputDir,omitempty" toml:"outputDir,omitempty"`
}

// Default returns a config with every value set to its default.
func Default() *Config {
	return &Config{
		PackageName: DefaultPackageName,
		OutputDir:   DefaultOutputDir,
	}
}

// LoadConfig loads the config from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the config from a specific path. The format is
// chosen by extension and unknown keys are rejected.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&config)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&config)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(&config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidConfig, path, err)
	}

	config.applyDefaults()
	return &config, nil
}

// Merge returns a copy of c with every non-empty override applied.
func (c *Config) Merge(packageName, outputDir string) *Config {
	merged := *c
	if packageName != "" {
		merged.PackageName = packageName
	}
	if outputDir != "" {
		merged.OutputDir = outputDir
	}
	merged.applyDefaults()
	return &merged
}

func (c *Config) applyDefaults() {
	if c.PackageName == "" {
		c.PackageName = DefaultPackageName
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

// loadConfigFromDir searches for a config file in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				config, err := LoadConfigFromPath(configPath)
				if err != nil {
					return nil, "", err
				}
				return config, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}
