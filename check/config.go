package check

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = ".lineconf.yaml"

// Config represents the project configuration.
type Config struct {
	Name        string      `yaml:"name" toml:"name"`
	Extensions  []string    `yaml:"extensions" toml:"extensions"`
	IgnorePaths []string    `yaml:"ignore_paths,omitempty" toml:"ignore_paths"`
	Cache       CacheConfig `yaml:"cache" toml:"cache"`
}

// CacheConfig controls the on-disk result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" toml:"enabled"`
	Dir     string        `yaml:"dir" toml:"dir"`
	MaxAge  time.Duration `yaml:"max_age" toml:"max_age"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Name:       "lineconf",
		Extensions: []string{".conf", ".lineconf"},
		Cache: CacheConfig{
			Dir:    ".lineconf-cache",
			MaxAge: 24 * time.Hour,
		},
	}
}

// LoadConfig reads a YAML or TOML configuration, chosen by extension, on top
// of the defaults. A missing file yields the defaults.
func LoadConfig(configurationPath string) (Config, error) {
	config := DefaultConfig()
	if configurationPath == "" {
		return config, nil
	}

	f, err := os.Open(configurationPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(configurationPath)) {
	case ".toml":
		if _, err := toml.NewDecoder(f).Decode(&config); err != nil {
			return config, fmt.Errorf("error decoding %s: %w", configurationPath, err)
		}
	default:
		err := yaml.NewDecoder(f).Decode(&config)
		if err != nil && !errors.Is(err, io.EOF) {
			return config, fmt.Errorf("error decoding %s: %w", configurationPath, err)
		}
	}

	config.Extensions = normalizeExtensions(config.Extensions)
	return config, nil
}

// WriteConfig writes config to path, as TOML when the path ends in .toml
// and as YAML otherwise.
func WriteConfig(path string, config Config) error {
	var buf bytes.Buffer
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return err
		}
	} else {
		d, err := yaml.Marshal(config)
		if err != nil {
			return err
		}
		buf.Write(d)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Matcher reports whether a file found while walking a directory is checked.
func (c Config) Matcher() Matcher {
	extensions := make(map[string]bool, len(c.Extensions))
	for _, ext := range normalizeExtensions(c.Extensions) {
		extensions[ext] = true
	}
	return func(path string) bool {
		return extensions[strings.ToLower(filepath.Ext(path))]
	}
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
