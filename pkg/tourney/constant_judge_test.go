package tourney

import (
	"context"
	"fmt"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

// constantValueJudge scores every comparison from a fixed per-candidate
// value vector: comparing candidate i against candidate j always
// returns (values[i], values[j]), independent of message content. It
// exists purely to make tournament outcomes deterministic in tests.
type constantValueJudge struct {
	values []float64
	calls  int
	failAt int // if > 0, the call numbered failAt (1-indexed) returns an error
}

func newConstantValueJudge(values []float64) *constantValueJudge {
	return &constantValueJudge{values: values}
}

func (j *constantValueJudge) valueFor(messages []sample.Message) float64 {
	// Candidates built by sample.NewGroup encode their index as the sole
	// assistant message's content ("0", "1", ...), letting the judge
	// recover which player it is scoring without depending on pair
	// orientation or metadata.
	var idx int
	fmt.Sscanf(messages[0].Content, "%d", &idx)
	return j.values[idx]
}

func (j *constantValueJudge) Compare(_ context.Context, messagesA, messagesB []sample.Message, _ string, _ judge.PairKey) (float64, float64, error) {
	j.calls++
	if j.failAt > 0 && j.calls == j.failAt {
		return 0, 0, fmt.Errorf("simulated judge failure on call %d", j.calls)
	}
	return j.valueFor(messagesA), j.valueFor(messagesB), nil
}

func (j *constantValueJudge) BidirectionalCompare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair judge.PairKey) (float64, float64, map[string]any, error) {
	a, b, err := j.Compare(ctx, messagesA, messagesB, query, pair)
	return a, b, nil, err
}

// indexGroup builds a sample.Group of len(values) candidates, each a
// single assistant message naming its own index, so constantValueJudge
// can recover "which candidate is this" from message content alone.
func indexGroup(query string, n int) *sample.Group {
	candidates := make([]string, n)
	for i := range candidates {
		candidates[i] = fmt.Sprintf("%d", i)
	}
	return sample.NewGroup(query, candidates)
}
