package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "calltree.yaml")
	content := `
view:
  inverted: true
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.True(t, cfg.View.Inverted)
	assert.True(t, cfg.View.ShowPercentages)
	assert.Equal(t, "??", cfg.Loader.PlaceholderSymbol)
	assert.Equal(t, int64(1000000), cfg.Loader.MaxLineCount)
	assert.Equal(t, 1, cfg.Build.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "perf-calltree", cfg.Telemetry.ServiceName)
	assert.Equal(t, "grpc", cfg.Telemetry.Protocol)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "calltree.yaml")
	content := `
loader:
  format: collapsed
  placeholder_symbol: "<unknown>"
  strict: true
  max_line_count: 500
view:
  top_functions: true
  min_percent: 1.5
  max_depth: 8
build:
  workers: 4
log:
  level: debug
  format: json
telemetry:
  enabled: true
  endpoint: http://collector:4318
  protocol: http
  headers: "Authorization=Bearer x"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "collapsed", cfg.Loader.Format)
	assert.Equal(t, "<unknown>", cfg.Loader.PlaceholderSymbol)
	assert.True(t, cfg.Loader.Strict)
	assert.Equal(t, int64(500), cfg.Loader.MaxLineCount)
	assert.True(t, cfg.View.TopFunctions)
	assert.Equal(t, 1.5, cfg.View.MinPercent)
	assert.Equal(t, 8, cfg.View.MaxDepth)
	assert.Equal(t, 4, cfg.Build.Workers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http", cfg.Telemetry.Protocol)
	assert.Equal(t, "Authorization=Bearer x", cfg.Telemetry.Headers)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/calltree.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Build.Workers)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CALLTREE_BUILD_WORKERS", "3")
	t.Setenv("CALLTREE_LOG_LEVEL", "warn")

	cfg, err := Load("/nonexistent/path/calltree.yaml")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Build.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "calltree.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("view: [unclosed"), 0644))

	_, err := Load(configFile)
	assert.Error(t, err)
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte(`
build:
  workers: 2
`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Build.Workers)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "??", cfg.Loader.PlaceholderSymbol)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bad format", func(c *Config) { c.Loader.Format = "pprof" }, "unsupported loader format"},
		{"zero line count", func(c *Config) { c.Loader.MaxLineCount = 0 }, "max_line_count"},
		{"zero workers", func(c *Config) { c.Build.Workers = 0 }, "build workers must be at least 1"},
		{"negative percent", func(c *Config) { c.View.MinPercent = -1 }, "min_percent"},
		{"percent over 100", func(c *Config) { c.View.MinPercent = 101 }, "min_percent"},
		{"negative depth", func(c *Config) { c.View.MaxDepth = -1 }, "max_depth"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "unsupported log format"},
		{"bad protocol", func(c *Config) { c.Telemetry.Protocol = "udp" }, "unsupported telemetry protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
