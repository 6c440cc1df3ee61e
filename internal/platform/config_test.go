package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		file string
		body string
	}{
		{"codenotes.yaml", "adapter: bolt\npath: data\nstorage_key: team.notes\nwatch: true\nevent_buffer: 8\nlog_level: debug\n"},
		{"codenotes.toml", "adapter = \"bolt\"\npath = \"data\"\nstorage_key = \"team.notes\"\nwatch = true\nevent_buffer = 8\nlog_level = \"debug\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "bolt", cfg.Adapter)
			assert.Equal(t, "team.notes", cfg.StorageKey)
			assert.True(t, cfg.Watch)
			assert.Equal(t, 8, cfg.EventBuffer)
			assert.Equal(t, slog.LevelDebug, cfg.Level())

			o := defaultOptions()
			for _, opt := range cfg.Options() {
				opt(o)
			}
			assert.Equal(t, AdapterBolt, o.adapter)
			assert.Equal(t, "team.notes", o.storageKey)
			assert.Equal(t, 8, o.eventBuffer)
			assert.True(t, o.watch)

			abs, err := filepath.Abs(filepath.Join(dir, "data"))
			require.NoError(t, err)
			assert.Equal(t, abs, o.path)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	ini := filepath.Join(dir, "codenotes.ini")
	require.NoError(t, os.WriteFile(ini, []byte("x=1"), 0644))
	_, err = LoadConfig(ini)
	assert.Error(t, err)

	bad := filepath.Join(dir, "codenotes.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("adapter: [unclosed"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestConfigDefaultsKeepOptions(t *testing.T) {
	cfg := &FileConfig{}
	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(o)
	}
	assert.Equal(t, AdapterFS, o.adapter)
	assert.Empty(t, o.path)
	assert.Equal(t, defaultOptions().storageKey, o.storageKey)

	var missing *FileConfig
	assert.Nil(t, missing.Options())
	assert.Equal(t, slog.LevelInfo, missing.Level())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
