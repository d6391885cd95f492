package judge

import (
	"github.com/eigen-ai-labs/qqr/pkg/registry"
)

// Config holds the settings needed to build an LLMJudge.
type Config struct {
	// GeneratorType names the backend used to call the judge model
	// (e.g. "openai.OpenAI", "bedrock.Bedrock", "replicate.Replicate").
	GeneratorType string

	// Model is the model name passed through to the generator
	// (e.g. "gpt-4o-mini").
	Model string

	// GeneratorConfig is additional backend-specific configuration.
	GeneratorConfig registry.Config
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GeneratorType:   "openai.OpenAI",
		Model:           "gpt-4o-mini",
		GeneratorConfig: make(registry.Config),
	}
}

// ConfigFromMap parses registry.Config into a typed Config.
func ConfigFromMap(m registry.Config) (Config, error) {
	cfg := DefaultConfig()

	cfg.GeneratorType = registry.GetString(m, "generator_type", cfg.GeneratorType)
	cfg.Model = registry.GetString(m, "model", cfg.Model)

	if genCfg, ok := m["generator_config"].(map[string]any); ok {
		cfg.GeneratorConfig = genCfg
	}

	return cfg, nil
}
