// Package config reads the csvmd CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppName is the application name used for the config directory.
const AppName = "csvmd"

// Config holds CLI defaults. Zero values mean "not set"; command-line flags
// take precedence over every field.
type Config struct {
	Delimiter  string `yaml:"delimiter,omitempty"`
	Align      string `yaml:"align,omitempty"` // left, center, right
	NoHeaders  *bool  `yaml:"no_headers,omitempty"`
	Strict     *bool  `yaml:"strict,omitempty"`
	Strategy   string `yaml:"strategy,omitempty"` // auto, memory, buffer, seek, chunked, best-effort
	ChunkSize  int    `yaml:"chunk_size,omitempty"`
	MaxBuffer  int64  `yaml:"max_buffer,omitempty"`
	Lookahead  int    `yaml:"lookahead,omitempty"`
	TempDir    string `yaml:"temp_dir,omitempty"`
	Decompress string `yaml:"decompress,omitempty"` // auto, none, gzip, bzip2, xz, zstd
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from the given path. A missing file is an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes config to the given path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
