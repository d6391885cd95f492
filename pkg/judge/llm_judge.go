package judge

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eigen-ai-labs/qqr/pkg/generators"
	"github.com/eigen-ai-labs/qqr/pkg/registry"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
	"github.com/eigen-ai-labs/qqr/pkg/types"
)

// ratingPattern matches "Response A rating: [[N]]" and "Response B
// rating: [[N]]" lines, capturing which side and the numeric rating.
var ratingPattern = regexp.MustCompile(`(?i)response\s+([ab])\s+rating:\s*\[\[(\d+(?:\.\d+)?)\]\]`)

// LLMJudge is the production Judge: it delegates scoring to an LLM
// reached through a pkg/generators.Generator backend.
type LLMJudge struct {
	cfg       Config
	generator types.Generator
}

// NewLLMJudge builds an LLMJudge from registry configuration, creating
// the underlying generator backend named by cfg["generator_type"].
func NewLLMJudge(cfg registry.Config) (*LLMJudge, error) {
	config, err := ConfigFromMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid judge config: %w", err)
	}

	genCfg := config.GeneratorConfig
	if genCfg == nil {
		genCfg = make(registry.Config)
	}
	if config.Model != "" {
		genCfg["model"] = config.Model
	}

	gen, err := generators.Create(config.GeneratorType, genCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create judge generator %q: %w", config.GeneratorType, err)
	}

	return &LLMJudge{cfg: config, generator: gen}, nil
}

// NewLLMJudgeWithGenerator builds an LLMJudge around an already-constructed
// generator, bypassing the registry. This is the seam tests use to drive
// LLMJudge with a scripted generator double instead of a registered backend.
func NewLLMJudgeWithGenerator(cfg Config, gen types.Generator) *LLMJudge {
	return &LLMJudge{cfg: cfg, generator: gen}
}

// Compare implements Judge.
func (j *LLMJudge) Compare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair PairKey) (float64, float64, error) {
	conv := sample.NewConversation()
	conv.WithSystem(comparisonSystemPrompt())
	conv.AddPrompt(comparisonPrompt(query, flattenText(messagesA), flattenText(messagesB)))

	responses, err := j.generator.Generate(ctx, conv, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("judge compare %+v: %w", pair, err)
	}
	if len(responses) == 0 {
		return 0, 0, fmt.Errorf("judge compare %+v: generator returned no responses", pair)
	}

	scoreA, scoreB := parseComparisonRatings(responses[0].Content)
	return scoreA, scoreB, nil
}

// BidirectionalCompare implements Judge.
func (j *LLMJudge) BidirectionalCompare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair PairKey) (float64, float64, map[string]any, error) {
	forwardA, forwardB, err := j.Compare(ctx, messagesA, messagesB, query, pair)
	if err != nil {
		return 0, 0, nil, err
	}

	// Swap operand order so any positional bias in the judge affects
	// both candidates symmetrically, then average it out.
	reverseB, reverseA, err := j.Compare(ctx, messagesB, messagesA, query, PairKey{I: pair.J, J: pair.I})
	if err != nil {
		return 0, 0, nil, err
	}

	scoreA := (forwardA + reverseA) / 2
	scoreB := (forwardB + reverseB) / 2

	meta := map[string]any{
		"forward_a": forwardA,
		"forward_b": forwardB,
		"reverse_a": reverseA,
		"reverse_b": reverseB,
	}

	return scoreA, scoreB, meta, nil
}

// Name returns the fully qualified backend name the judge delegates to.
func (j *LLMJudge) Name() string {
	return j.generator.Name()
}

// parseComparisonRatings extracts the "Response A"/"Response B" ratings
// from judge output. Falls back to a 5/5 tie if a rating is missing,
// matching the conservative "assume no preference" default used when a
// judge fails to follow the output format.
func parseComparisonRatings(output string) (scoreA, scoreB float64) {
	scoreA, scoreB = 5, 5

	matches := ratingPattern.FindAllStringSubmatch(output, -1)
	for _, m := range matches {
		if len(m) < 3 {
			continue
		}
		val, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "a":
			scoreA = val
		case "b":
			scoreB = val
		}
	}

	return scoreA, scoreB
}
