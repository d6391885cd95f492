// Package config loads and validates qqr's YAML/environment configuration:
// which tournament algorithm to run, how to build the judge backing it, and
// where to send output and logs.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the complete qqr configuration.
type Config struct {
	Tournament TournamentConfig           `yaml:"tournament" koanf:"tournament"`
	Judge      JudgeConfig                `yaml:"judge" koanf:"judge"`
	Generators map[string]GeneratorConfig `yaml:"generators,omitempty" koanf:"generators"`
	Output     OutputConfig               `yaml:"output" koanf:"output"`
	Log        LogConfig                  `yaml:"log" koanf:"log"`
	Profiles   map[string]Profile         `yaml:"profiles,omitempty" koanf:"profiles"`
}

// Profile is a named override bundle, merged over the base Config by
// ApplyProfile (e.g. a "fast" profile that swaps in a cheaper judge model).
type Profile struct {
	Tournament TournamentConfig           `yaml:"tournament,omitempty"`
	Judge      JudgeConfig                `yaml:"judge,omitempty"`
	Generators map[string]GeneratorConfig `yaml:"generators,omitempty"`
	Output     OutputConfig               `yaml:"output,omitempty"`
	Log        LogConfig                  `yaml:"log,omitempty"`
}

// TournamentConfig selects and tunes the reward-model driver run by `qqr run`.
type TournamentConfig struct {
	// Algorithm is a registry key: round_robin, anchor, swiss,
	// single_elimination, or double_elimination. A trailing "/variant"
	// suffix is accepted and ignored by the registry per spec.md §4.6.
	Algorithm string `yaml:"algorithm" koanf:"algorithm" validate:"required"`
	// MaxRounds caps Swiss's round count (0 = use ceil(log2(G)), capped at G-1).
	MaxRounds int `yaml:"max_rounds,omitempty" koanf:"max_rounds" validate:"gte=0"`
	// Seed seeds the driver-local RNG used by Swiss and double-elimination
	// pairing, for reproducible runs. 0 means "time-seeded".
	Seed int64 `yaml:"seed,omitempty" koanf:"seed"`
	// Timeout is validated as a Go duration and merged across config
	// layers; `qqr run` takes its deadline from its --timeout flag and
	// does not read this field.
	Timeout string `yaml:"timeout,omitempty" koanf:"timeout"`
}

// JudgeConfig configures the LLM judge backend a tournament driver calls.
type JudgeConfig struct {
	// GeneratorType names the backend used to call the judge model,
	// e.g. "openai.OpenAI", "bedrock.Bedrock", "replicate.Replicate".
	GeneratorType string `yaml:"generator_type" koanf:"generator_type" validate:"required"`
	// Model is the model name passed through to the generator.
	Model string `yaml:"model,omitempty" koanf:"model"`
	// Retry configures the retry wrapper placed around BidirectionalCompare.
	Retry RetryConfig `yaml:"retry,omitempty" koanf:"retry"`
	// CacheTTL, if non-empty, wraps the judge in a TTL-bounded result cache.
	CacheTTL string `yaml:"cache_ttl,omitempty" koanf:"cache_ttl"`
	// MaxConcurrency bounds in-flight judge calls for this backend (0 = unbounded).
	MaxConcurrency int64 `yaml:"max_concurrency,omitempty" koanf:"max_concurrency" validate:"gte=0"`
}

// RetryConfig mirrors pkg/retry.Config in YAML-friendly form.
type RetryConfig struct {
	MaxAttempts  int     `yaml:"max_attempts,omitempty" koanf:"max_attempts" validate:"gte=0"`
	InitialDelay string  `yaml:"initial_delay,omitempty" koanf:"initial_delay"`
	MaxDelay     string  `yaml:"max_delay,omitempty" koanf:"max_delay"`
	Multiplier   float64 `yaml:"multiplier,omitempty" koanf:"multiplier" validate:"gte=0"`
	Jitter       float64 `yaml:"jitter,omitempty" koanf:"jitter" validate:"gte=0,lte=1"`
}

// GeneratorConfig contains generator-specific configuration.
type GeneratorConfig struct {
	Model       string  `yaml:"model" koanf:"model"`
	Temperature float64 `yaml:"temperature" koanf:"temperature" validate:"gte=0,lte=2"`
	APIKey      string  `yaml:"api_key,omitempty" koanf:"api_key"`
	RateLimit   float64 `yaml:"rate_limit,omitempty" koanf:"rate_limit" validate:"gte=0"` // Requests per second
}

// OutputConfig contains output configuration for the reward vector.
type OutputConfig struct {
	Format string `yaml:"format" koanf:"format" validate:"omitempty,oneof=json jsonl csv txt table"`
	Path   string `yaml:"path" koanf:"path"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format" validate:"omitempty,oneof=json text"`
}

// Validate validates the configuration and returns helpful error messages.
func (c *Config) Validate() error {
	if c.Tournament.MaxRounds < 0 {
		return fmt.Errorf("tournament.max_rounds must be non-negative, got: %d", c.Tournament.MaxRounds)
	}
	if c.Tournament.Timeout != "" {
		if _, err := time.ParseDuration(c.Tournament.Timeout); err != nil {
			return fmt.Errorf("invalid tournament.timeout: %w", err)
		}
	}

	if c.Judge.MaxConcurrency < 0 {
		return fmt.Errorf("judge.max_concurrency must be non-negative, got: %d", c.Judge.MaxConcurrency)
	}
	if c.Judge.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Judge.CacheTTL); err != nil {
			return fmt.Errorf("invalid judge.cache_ttl: %w", err)
		}
	}

	for name, gen := range c.Generators {
		if gen.Temperature < 0 || gen.Temperature > 2 {
			return fmt.Errorf("validation failed: generators.%s.temperature must be between 0 and 2, got: %f", name, gen.Temperature)
		}
	}

	validFormats := map[string]bool{
		"json":  true,
		"jsonl": true,
		"csv":   true,
		"txt":   true,
		"table": true,
	}
	if c.Output.Format != "" && !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (valid: json, jsonl, csv, txt, table)", c.Output.Format)
	}

	return nil
}

// Merge merges another config into this one, with the other config taking precedence.
func (c *Config) Merge(other *Config) {
	if other.Tournament.Algorithm != "" {
		c.Tournament.Algorithm = other.Tournament.Algorithm
	}
	if other.Tournament.MaxRounds != 0 {
		c.Tournament.MaxRounds = other.Tournament.MaxRounds
	}
	if other.Tournament.Seed != 0 {
		c.Tournament.Seed = other.Tournament.Seed
	}
	if other.Tournament.Timeout != "" {
		c.Tournament.Timeout = other.Tournament.Timeout
	}

	if other.Judge.GeneratorType != "" {
		c.Judge.GeneratorType = other.Judge.GeneratorType
	}
	if other.Judge.Model != "" {
		c.Judge.Model = other.Judge.Model
	}
	if other.Judge.Retry.MaxAttempts != 0 {
		c.Judge.Retry = other.Judge.Retry
	}
	if other.Judge.CacheTTL != "" {
		c.Judge.CacheTTL = other.Judge.CacheTTL
	}
	if other.Judge.MaxConcurrency != 0 {
		c.Judge.MaxConcurrency = other.Judge.MaxConcurrency
	}

	if c.Generators == nil {
		c.Generators = make(map[string]GeneratorConfig)
	}
	for name, gen := range other.Generators {
		existing := c.Generators[name]
		if gen.Model != "" {
			existing.Model = gen.Model
		}
		if gen.Temperature != 0 {
			existing.Temperature = gen.Temperature
		}
		if gen.APIKey != "" {
			existing.APIKey = gen.APIKey
		}
		if gen.RateLimit != 0 {
			existing.RateLimit = gen.RateLimit
		}
		c.Generators[name] = existing
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

// ApplyProfile applies a named profile to this config.
func (c *Config) ApplyProfile(profileName string) error {
	profile, exists := c.Profiles[profileName]
	if !exists {
		return fmt.Errorf("profile %q not found", profileName)
	}

	profileConfig := &Config{
		Tournament: profile.Tournament,
		Judge:      profile.Judge,
		Generators: profile.Generators,
		Output:     profile.Output,
		Log:        profile.Log,
	}

	c.Merge(profileConfig)
	return nil
}

// interpolateEnvVars replaces ${VAR} with environment variable values.
func interpolateEnvVars(s string, getenv func(string) (string, bool)) (string, error) {
	result := s
	start := 0
	for {
		idx := strings.Index(result[start:], "${")
		if idx == -1 {
			break
		}
		idx += start

		endIdx := strings.Index(result[idx:], "}")
		if endIdx == -1 {
			return "", fmt.Errorf("unclosed environment variable reference at position %d", idx)
		}
		endIdx += idx

		varName := result[idx+2 : endIdx]
		value, ok := getenv(varName)
		if !ok {
			return "", fmt.Errorf("environment variable %q is not set", varName)
		}

		result = result[:idx] + value + result[endIdx+1:]
		start = idx + len(value)
	}
	return result, nil
}
