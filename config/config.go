// Package config loads and validates batch run configuration.
package config

import (
	"context"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/mdbatch/engine"
	"github.com/viant/mdbatch/memory"
	"github.com/viant/mdbatch/model/types"
)

// EngineConfig describes the external converter command.
type EngineConfig struct {
	Command    string   `json:"command" yaml:"command"`
	Args       []string `json:"args,omitempty" yaml:"args,omitempty"`
	OCR        bool     `json:"ocr" yaml:"ocr"`
	DPI        int      `json:"dpi" yaml:"dpi"`
	TimeoutSec int      `json:"timeoutSec" yaml:"timeoutSec"`
}

// Options converts the engine settings into per-request options.
func (e *EngineConfig) Options() engine.Options {
	return engine.Options{
		OCR:     e.OCR,
		DPI:     e.DPI,
		Timeout: time.Duration(e.TimeoutSec) * time.Second,
	}
}

// MemoryConfig describes telemetry settings.
type MemoryConfig struct {
	Thresholds      memory.Thresholds `json:"thresholds" yaml:"thresholds"`
	SampleTimeoutMs int               `json:"sampleTimeoutMs" yaml:"sampleTimeoutMs"`
}

// Config is the serialisable batch run configuration. The zero value is not
// usable; start from Default. MaxWorkers zero means auto-detect from host
// cores and available memory.
type Config struct {
	MaxWorkers int          `json:"maxWorkers" yaml:"maxWorkers"`
	OutputRoot string       `json:"outputRoot" yaml:"outputRoot"`
	Engine     EngineConfig `json:"engine" yaml:"engine"`
	Memory     MemoryConfig `json:"memory" yaml:"memory"`
	Verbose    bool         `json:"verbose" yaml:"verbose"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{OCR: true, DPI: 200, TimeoutSec: 300},
		Memory: MemoryConfig{
			Thresholds:      memory.DefaultThresholds(),
			SampleTimeoutMs: int(memory.DefaultSampleTimeout / time.Millisecond),
		},
	}
}

// Load reads a YAML configuration from the supplied URL (file path, s3://,
// mem:// etc.) and overlays it on the defaults.
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, types.NewConfigurationError("failed to load config %s: %v", URL, err)
	}
	ret := Default()
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, types.NewConfigurationError("failed to parse config %s: %v", URL, err)
	}
	return ret, nil
}

// Validate returns a ConfigurationError describing the first invalid
// setting, or nil.
func (c *Config) Validate() error {
	if c.MaxWorkers < 0 {
		return types.NewConfigurationError("maxWorkers must not be negative, got %d", c.MaxWorkers)
	}
	if err := c.Memory.Thresholds.Validate(); err != nil {
		return types.NewConfigurationError("%v", err)
	}
	return nil
}

// SampleTimeout returns the telemetry query bound.
func (c *Config) SampleTimeout() time.Duration {
	if c.Memory.SampleTimeoutMs <= 0 {
		return memory.DefaultSampleTimeout
	}
	return time.Duration(c.Memory.SampleTimeoutMs) * time.Millisecond
}
