package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk workspace configuration (codenotes.yaml or codenotes.toml).
type FileConfig struct {
	Adapter     string `yaml:"adapter" toml:"adapter"`
	Path        string `yaml:"path" toml:"path"`
	StorageKey  string `yaml:"storage_key" toml:"storage_key"`
	Watch       bool   `yaml:"watch" toml:"watch"`
	MustExist   bool   `yaml:"must_exist" toml:"must_exist"`
	EventBuffer int    `yaml:"event_buffer" toml:"event_buffer"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`

	// dir is where the file was found; relative paths resolve against it.
	dir string
}

// LoadConfig reads a config file, picking the format from its extension.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &FileConfig{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(abs)
	return cfg, nil
}

// Options converts the file settings into functional options.
// Explicit options passed after these take precedence.
func (c *FileConfig) Options() []Option {
	if c == nil {
		return nil
	}
	opts := []Option{
		WithAdapter(c.Adapter),
		WithStorageKey(c.StorageKey),
		WithWatch(c.Watch),
		WithMustExist(c.MustExist),
	}
	if c.EventBuffer > 0 {
		opts = append(opts, WithEventBuffer(c.EventBuffer))
	}
	if c.Path != "" {
		path := c.Path
		if !filepath.IsAbs(path) && c.dir != "" {
			path = filepath.Join(c.dir, path)
		}
		opts = append(opts, WithPath(path))
	}
	return opts
}

// Level maps LogLevel onto slog. Unknown or empty values yield Info.
func (c *FileConfig) Level() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps "debug", "info", "warn" and "error" onto slog levels.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
