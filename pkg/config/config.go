// Package config provides configuration management for perf-calltree.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override configuration keys.
const EnvPrefix = "CALLTREE"

// Config holds all configuration for the application.
type Config struct {
	Loader    LoaderConfig    `mapstructure:"loader"`
	View      ViewConfig      `mapstructure:"view"`
	Build     BuildConfig     `mapstructure:"build"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LoaderConfig controls how capture files are read.
type LoaderConfig struct {
	Format            string `mapstructure:"format"` // perfcore, collapsed or empty for auto
	PlaceholderSymbol string `mapstructure:"placeholder_symbol"`
	Strict            bool   `mapstructure:"strict"`
	MaxLineCount      int64  `mapstructure:"max_line_count"` // events one collapsed line may expand to
}

// ViewConfig holds the initial filter state and display settings.
type ViewConfig struct {
	Inverted        bool    `mapstructure:"inverted"`
	TopFunctions    bool    `mapstructure:"top_functions"`
	ShowPercentages bool    `mapstructure:"show_percentages"`
	MinPercent      float64 `mapstructure:"min_percent"`
	MaxDepth        int     `mapstructure:"max_depth"` // 0 means unlimited
}

// BuildConfig controls the tree builder.
type BuildConfig struct {
	Workers int `mapstructure:"workers"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// TelemetryConfig holds OpenTelemetry exporter configuration.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
	Protocol    string `mapstructure:"protocol"` // grpc or http
	Headers     string `mapstructure:"headers"`  // key1=value1,key2=value2
	Insecure    bool   `mapstructure:"insecure"`
	Sampler     string `mapstructure:"sampler"`
	SamplerArg  string `mapstructure:"sampler_arg"`
}

// Load reads configuration from the specified file path.
// An empty path searches the standard locations; a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("calltree")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/perf-calltree")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return decode(v)
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Loader defaults
	v.SetDefault("loader.format", "")
	v.SetDefault("loader.placeholder_symbol", "??")
	v.SetDefault("loader.strict", false)
	v.SetDefault("loader.max_line_count", 1000000)

	// View defaults
	v.SetDefault("view.inverted", false)
	v.SetDefault("view.top_functions", false)
	v.SetDefault("view.show_percentages", true)
	v.SetDefault("view.min_percent", 0.0)
	v.SetDefault("view.max_depth", 0)

	v.SetDefault("build.workers", 1)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "perf-calltree")
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.protocol", "grpc")
	v.SetDefault("telemetry.headers", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.sampler", "always_on")
	v.SetDefault("telemetry.sampler_arg", "")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Loader.Format {
	case "", "perfcore", "collapsed":
	default:
		return fmt.Errorf("unsupported loader format: %s", c.Loader.Format)
	}
	if c.Loader.MaxLineCount < 1 {
		return fmt.Errorf("max_line_count must be at least 1")
	}
	if c.Build.Workers < 1 {
		return fmt.Errorf("build workers must be at least 1")
	}
	if c.View.MinPercent < 0 || c.View.MinPercent > 100 {
		return fmt.Errorf("min_percent must be within [0, 100], got %v", c.View.MinPercent)
	}
	if c.View.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}
	switch strings.ToLower(c.Telemetry.Protocol) {
	case "grpc", "http", "http/protobuf":
	default:
		return fmt.Errorf("unsupported telemetry protocol: %s", c.Telemetry.Protocol)
	}
	return nil
}
