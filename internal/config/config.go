package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the loxy.yaml runtime configuration.
type Config struct {
	// MaxDepth bounds evaluation nesting. Deeper programs fail with a
	// recursion-limit error instead of exhausting the Go stack.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Transcript is an optional SQLite database that receives every printed
	// line. Relative paths are resolved against the config file's directory.
	Transcript string `yaml:"transcript,omitempty"`

	Serve ServeConfig `yaml:"serve,omitempty"`
}

// ServeConfig configures `loxy serve`.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`

	// SessionTTL is how long an idle session keeps its globals.
	SessionTTL time.Duration `yaml:"session_ttl,omitempty"`
}

// Default returns the configuration used when no loxy.yaml is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a loxy.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	if cfg.Transcript != "" && !filepath.IsAbs(cfg.Transcript) {
		cfg.Transcript = filepath.Join(filepath.Dir(path), cfg.Transcript)
	}
	return cfg, nil
}

// ParseConfig parses loxy.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for loxy.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// Resolve loads the config at path, or discovers loxy.yaml upward from
// the working directory when path is empty. A missing file yields Default().
func Resolve(path string) (*Config, error) {
	if path == "" {
		found, err := FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return Default(), nil
		}
		path = found
	}
	return LoadConfig(path)
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must not be negative, got %d", path, c.MaxDepth)
	}
	if c.Serve.SessionTTL < 0 {
		return fmt.Errorf("%s: serve.session_ttl must not be negative, got %s", path, c.Serve.SessionTTL)
	}
	if c.Serve.Addr != "" && !strings.Contains(c.Serve.Addr, ":") {
		return fmt.Errorf("%s: serve.addr %q must be host:port or :port", path, c.Serve.Addr)
	}
	return nil
}

// setDefaults fills in default values for optional fields.
func (c *Config) setDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.Serve.SessionTTL == 0 {
		c.Serve.SessionTTL = DefaultSessionTTL
	}
}

// IsSourceFile reports whether path has a recognized source extension.
func IsSourceFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range SourceFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
