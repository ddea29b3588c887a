// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Pool configuration: defaults, YAML loading, environment overrides and validation.

package control

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvWorkers  = "HIOLOAD_WORKERS"
	EnvName     = "HIOLOAD_NAME"
	EnvLogLevel = "HIOLOAD_LOG_LEVEL"
)

// Config describes how a worker pool and its ambient services are built.
type Config struct {
	Name         string        `yaml:"name"`
	Workers      int           `yaml:"workers"`
	LockOSThread bool          `yaml:"lock_os_thread"`
	CPUAffinity  []int         `yaml:"cpu_affinity"`
	Log          LogConfig     `yaml:"log"`
	Metrics      MetricsConfig `yaml:"metrics"`
}

// LogConfig selects logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// MetricsConfig toggles Prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Name:         "pool",
		Workers:      runtime.NumCPU(),
		LockOSThread: true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig parses YAML from r on top of DefaultConfig.
func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from HIOLOAD_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v, ok := os.LookupEnv(EnvName); ok {
		c.Name = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if strings.TrimSpace(c.Name) == "" {
		result = multierror.Append(result, errors.New("name must not be empty"))
	}
	for _, cpu := range c.CPUAffinity {
		if cpu < 0 {
			result = multierror.Append(result, fmt.Errorf("cpu_affinity: negative cpu %d", cpu))
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return result.ErrorOrNil()
}
