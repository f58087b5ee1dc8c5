package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/camhal/observe"
)

// Config is the camhal configuration file.
type Config struct {
	// Module is the path of the simulated module descriptor.
	Module  string         `yaml:"module"`
	Serve   ServeConfig    `yaml:"serve"`
	Open    OpenConfig     `yaml:"open"`
	Observe observe.Config `yaml:"observe"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr string `yaml:"addr"`

	// Warm loads every camera's info before serving.
	Warm bool `yaml:"warm"`

	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// OpenConfig configures how the open command retries busy cameras.
type OpenConfig struct {
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retryDelay"`
}

var (
	errNoModule      = errors.New("no module descriptor configured (use -module or CAMHAL_MODULE)")
	errInvalidConfig = errors.New("invalid configuration")
)

func defaultConfig() Config {
	return Config{
		Serve: ServeConfig{
			Addr:            "127.0.0.1:8080",
			Warm:            true,
			ShutdownTimeout: 5 * time.Second,
		},
		Open: OpenConfig{
			RetryDelay: 50 * time.Millisecond,
		},
		Observe: observe.DefaultConfig(),
	}
}

// loadConfig layers defaults, the YAML file at path (if any) and CAMHAL_*
// environment overrides, then validates the result.
func loadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	if v := getenv("CAMHAL_MODULE"); v != "" {
		cfg.Module = v
	}
	if v := getenv("CAMHAL_ADDR"); v != "" {
		cfg.Serve.Addr = v
	}
	if v := getenv("CAMHAL_LOG_LEVEL"); v != "" {
		cfg.Observe.Logging.Enabled = true
		cfg.Observe.Logging.Level = v
	}
	if v := getenv("CAMHAL_LOG_FILE"); v != "" {
		cfg.Observe.Logging.Enabled = true
		cfg.Observe.Logging.File = v
	}
	if v := getenv("CAMHAL_TRACING_EXPORTER"); v != "" {
		cfg.Observe.Tracing.Enabled = true
		cfg.Observe.Tracing.Exporter = v
	}
	if v := getenv("CAMHAL_METRICS_EXPORTER"); v != "" {
		cfg.Observe.Metrics.Enabled = true
		cfg.Observe.Metrics.Exporter = v
	}
	if v := getenv("CAMHAL_OPEN_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CAMHAL_OPEN_RETRIES: %v", errInvalidConfig, err)
		}
		cfg.Open.Retries = n
	}
	return nil
}

func (c Config) validate() error {
	if c.Serve.Addr == "" {
		return fmt.Errorf("%w: serve.addr is required", errInvalidConfig)
	}
	if c.Open.Retries < 0 {
		return fmt.Errorf("%w: open.retries must not be negative", errInvalidConfig)
	}
	if err := c.Observe.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	return nil
}
