package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FreezerConfig locates the archive and describes how it was written.
type FreezerConfig struct {
	Dir            string `yaml:"dir"`
	Compression    string `yaml:"compression"`     // "snappy", "lz4", "zstd" or "none"
	MaxRecordSize  int    `yaml:"max_record_size"` // Upper bound for one decompressed record
	SequentialHint bool   `yaml:"sequential_hint"`
}

// ExportConfig controls how ranges are split and written out.
type ExportConfig struct {
	BatchSize uint64 `yaml:"batch_size"` // Blocks read per request
	Workers   int    `yaml:"workers"`    // Batches decoded concurrently
	Pretty    string `yaml:"pretty"`     // "auto", "always" or "never"
	Output    string `yaml:"output"`     // "-" for stdout, otherwise a file path
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // e.g., "trace", "debug", "info", "warn", "error"
	Output string `yaml:"output"` // e.g., "stdout", "stderr", "file", "none"
	File   string `yaml:"file"`   // Path to the log file, used if output is "file"
	Format string `yaml:"format"` // "json" or "text"
}

// DebugConfig holds debugging-related configurations.
type DebugConfig struct {
	Enabled          bool   `yaml:"enabled"`
	ListenAddress    string `yaml:"listen_address"`
	PProfEnabled     bool   `yaml:"pprof_enabled"`
	MetricsEnabled   bool   `yaml:"metrics_enabled"`
	MonitorUIEnabled bool   `yaml:"monitor_ui_enabled"`
	CollectInterval  string `yaml:"collect_interval"`
	MemoryCheck      bool   `yaml:"memory_check"`
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // e.g., "localhost:4317" for gRPC OTLP collector
	Protocol string `yaml:"protocol"` // "grpc" or "http"
	// SampleRatio is the fraction of root spans kept, in [0, 1].
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Config is the top-level configuration struct.
type Config struct {
	Freezer FreezerConfig `yaml:"freezer"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Debug   DebugConfig   `yaml:"debug"`
}

// ParseDuration parses a duration string. Returns the default duration if the string is empty or invalid.
// Logs a warning if the string is invalid but not empty.
func ParseDuration(durationStr string, defaultDuration time.Duration, logger *slog.Logger) time.Duration {
	if durationStr == "" || durationStr == "0" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		if logger != nil {
			logger.Warn("Invalid duration format, using default", "input", durationStr, "default", defaultDuration.String(), "error", err)
		}
		return defaultDuration
	}
	return d
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Freezer: FreezerConfig{
			Dir:            "./ancient/chain",
			Compression:    "snappy",
			MaxRecordSize:  64 * 1024 * 1024, // 64 MiB
			SequentialHint: true,
		},
		Export: ExportConfig{
			BatchSize: 1000,
			Workers:   4,
			Pretty:    "auto",
			Output:    "-",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			File:   "xtra.log",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			Protocol:    "grpc",
			SampleRatio: 1,
		},
		Debug: DebugConfig{
			Enabled:          false,
			ListenAddress:    "127.0.0.1:6060",
			PProfEnabled:     true,
			MetricsEnabled:   true,
			MonitorUIEnabled: true,
			CollectInterval:  "5s",
			MemoryCheck:      true,
		},
	}
}

// Load reads configuration from an io.Reader.
// This is the core logic, separated for testability.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	// If the reader is nil, it's like an empty file, return defaults.
	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	// Unmarshal YAML into the config struct, overwriting defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads configuration from a YAML file by path.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// If file doesn't exist, return default config by calling Load with a nil reader.
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// Validate checks values the YAML decoder cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.Export.BatchSize == 0 {
		errs = append(errs, errors.New("export.batch_size must be positive"))
	}
	if c.Export.Workers <= 0 {
		errs = append(errs, errors.New("export.workers must be positive"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be within [0, 1], got %g", c.Tracing.SampleRatio))
	}
	if c.Freezer.MaxRecordSize < 0 {
		errs = append(errs, errors.New("freezer.max_record_size must not be negative"))
	}
	errs = append(errs,
		oneOf("freezer.compression", c.Freezer.Compression, "snappy", "lz4", "zstd", "none"),
		oneOf("export.pretty", c.Export.Pretty, "auto", "always", "never"),
		oneOf("logging.level", c.Logging.Level, "trace", "debug", "info", "warn", "error"),
		oneOf("logging.output", c.Logging.Output, "stdout", "stderr", "file", "none"),
		oneOf("logging.format", c.Logging.Format, "json", "text"),
		oneOf("tracing.protocol", c.Tracing.Protocol, "grpc", "http"),
	)
	return errors.Join(errs...)
}
