package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/services/level"
	"github.com/iamNilotpal/press/internal/core/services/session"
)

type Config struct {
	Codec   CodecConfig `yaml:"codec"`
	Service string      `yaml:"service"` // Service name attached to log entries
}

// Holds codec-specific configuration.
type CodecConfig struct {
	Algorithm          string `yaml:"algorithm"`           // zstd, brotli, zlib, bz2, lz4 or xz
	Level              string `yaml:"level"`               // Preset name or integer 1-10
	SessionBufferSize  int    `yaml:"session_buffer_size"` // Per-session output buffer size
	EncoderConcurrency int    `yaml:"encoder_concurrency"` // Backend encoder goroutines
	DecoderConcurrency int    `yaml:"decoder_concurrency"` // Backend decoder goroutines
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		Service: "press",
		Codec: CodecConfig{
			Algorithm:          string(domain.Zstd),
			Level:              level.PresetBalanced,
			SessionBufferSize:  session.DefaultBufferSize,
			EncoderConcurrency: 1,
			DecoderConcurrency: 1,
		},
	}
}

// Loads configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Resolves the codec section into validated runtime options.
func (c *Config) Options() (*domain.Options, error) {
	algo, ok := domain.ParseAlgorithm(c.Codec.Algorithm)
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q", c.Codec.Algorithm)
	}

	lvl, err := level.Parse(c.Codec.Level)
	if err != nil {
		return nil, err
	}

	return &domain.Options{
		Algorithm:          algo,
		Level:              lvl,
		SessionBufferSize:  c.Codec.SessionBufferSize,
		EncoderConcurrency: c.Codec.EncoderConcurrency,
		DecoderConcurrency: c.Codec.DecoderConcurrency,
	}, nil
}

func validateConfig(config *Config) error {
	if config.Service == "" {
		return fmt.Errorf("service is required")
	}

	if err := validateCodecConfig(&config.Codec); err != nil {
		return fmt.Errorf("invalid codec configuration: %w", err)
	}

	return nil
}

func validateCodecConfig(config *CodecConfig) error {
	if _, ok := domain.ParseAlgorithm(config.Algorithm); !ok {
		return fmt.Errorf("algorithm must be one of %v", domain.Algorithms())
	}

	if _, err := level.Parse(config.Level); err != nil {
		return fmt.Errorf("level must be a preset name or an integer between %d and %d", level.Min, level.Max)
	}

	if config.SessionBufferSize != 0 &&
		(config.SessionBufferSize < session.MinBufferSize || config.SessionBufferSize > session.MaxBufferSize) {
		return fmt.Errorf("session_buffer_size must be between %d and %d", session.MinBufferSize, session.MaxBufferSize)
	}

	if config.EncoderConcurrency < 0 || config.DecoderConcurrency < 0 {
		return fmt.Errorf("encoder_concurrency and decoder_concurrency must not be negative")
	}

	return nil
}
