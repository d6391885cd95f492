package judge

import (
	"context"
	"testing"

	_ "github.com/eigen-ai-labs/qqr/internal/generators/test"
	"github.com/eigen-ai-labs/qqr/internal/testutil"
	"github.com/eigen-ai-labs/qqr/pkg/registry"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparisonRatings(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantA      float64
		wantB      float64
	}{
		{
			name:  "both ratings present",
			input: "Response A rating: [[8]]\nResponse B rating: [[3]]",
			wantA: 8, wantB: 3,
		},
		{
			name:  "case insensitive and reordered",
			input: "response b rating: [[2]]\nresponse a rating: [[9]]",
			wantA: 9, wantB: 2,
		},
		{
			name:  "missing ratings default to a tie",
			input: "I cannot decide between these responses.",
			wantA: 5, wantB: 5,
		},
		{
			name:  "only one side present",
			input: "Response A rating: [[7]]",
			wantA: 7, wantB: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := parseComparisonRatings(tt.input)
			assert.Equal(t, tt.wantA, a)
			assert.Equal(t, tt.wantB, b)
		})
	}
}

func TestNewLLMJudge(t *testing.T) {
	j, err := NewLLMJudge(registry.Config{
		"generator_type": "test.Repeat",
	})
	require.NoError(t, err)
	assert.Equal(t, "test.Repeat", j.Name())
}

func TestNewLLMJudgeUnknownBackend(t *testing.T) {
	_, err := NewLLMJudge(registry.Config{
		"generator_type": "nonexistent.Backend",
	})
	require.Error(t, err)
}

func TestLLMJudgeBidirectionalCompareUsesBothOrientations(t *testing.T) {
	j, err := NewLLMJudge(registry.Config{
		"generator_type": "test.Blank",
	})
	require.NoError(t, err)

	a := []sample.Message{sample.NewAssistantMessage("response a")}
	b := []sample.Message{sample.NewAssistantMessage("response b")}

	scoreA, scoreB, meta, err := j.BidirectionalCompare(context.Background(), a, b, "query", PairKey{I: 0, J: 1})
	require.NoError(t, err)

	// test.Blank always returns empty text, so every direction falls
	// back to the 5/5 tie default and the average is exactly 5.
	assert.Equal(t, 5.0, scoreA)
	assert.Equal(t, 5.0, scoreB)
	assert.Contains(t, meta, "forward_a")
	assert.Contains(t, meta, "reverse_a")
}

// TestLLMJudgeBidirectionalCompareAveragesPositionalBias drives LLMJudge
// with a scripted generator double that disagrees with itself depending on
// operand order, which test.Blank/test.Repeat can't express since neither
// lets a caller script distinct per-call content. It confirms
// BidirectionalCompare's averaging actually cancels that disagreement.
func TestLLMJudgeBidirectionalCompareAveragesPositionalBias(t *testing.T) {
	gen := testutil.NewMockGenerator(
		"Response A rating: [[8]]\nResponse B rating: [[4]]",
		"Response A rating: [[6]]\nResponse B rating: [[2]]",
	)

	j := NewLLMJudgeWithGenerator(DefaultConfig(), gen)
	assert.Equal(t, "mock-generator", j.Name())

	a := []sample.Message{sample.NewAssistantMessage("response a")}
	b := []sample.Message{sample.NewAssistantMessage("response b")}

	scoreA, scoreB, meta, err := j.BidirectionalCompare(context.Background(), a, b, "query", PairKey{I: 0, J: 1})
	require.NoError(t, err)

	// forward call: A=8, B=4. reverse call (B,A swapped): the mock's
	// second scripted response rates "A"=6 (which is candidate B in the
	// swapped call) and "B"=2 (candidate A), so reverseA=2, reverseB=6.
	assert.Equal(t, 5.0, scoreA) // (8+2)/2
	assert.Equal(t, 5.0, scoreB) // (4+6)/2
	assert.Equal(t, 2, gen.Calls)
	assert.Equal(t, 8.0, meta["forward_a"])
	assert.Equal(t, 4.0, meta["forward_b"])
	assert.Equal(t, 2.0, meta["reverse_a"])
	assert.Equal(t, 6.0, meta["reverse_b"])
}
