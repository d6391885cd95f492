package tourney

import (
	"context"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

func init() {
	Register("anchor", NewAnchor)
}

// pivotIdx is the fixed candidate every other candidate is compared
// against.
const pivotIdx = 0

// Anchor compares every non-pivot candidate against a fixed pivot
// (index 0) in a single round. The pivot's own representative score is
// the mean of its per-comparison scores.
type Anchor struct {
	judge judge.Judge
}

// NewAnchor builds an Anchor driver over the given judge.
func NewAnchor(j judge.Judge) (Driver, error) {
	return &Anchor{judge: j}, nil
}

// Compute implements Driver.
func (d *Anchor) Compute(ctx context.Context, group *sample.Group) ([]float64, error) {
	n := group.Size()
	if n <= 1 {
		return make([]float64, n), nil
	}

	pairs := make([]judge.PairKey, 0, n-1)
	for idx := 1; idx < n; idx++ {
		pairs = append(pairs, judge.PairKey{I: idx, J: pivotIdx})
	}

	results, err := playRound(ctx, d.judge, group.Predictions, group.Query, pairs)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, n)
	var pivotSum float64
	for _, r := range results {
		// pair is (idx, pivot): scoreA is the non-pivot candidate's
		// score, scoreB is the pivot's score in that comparison.
		scores[r.pair.I] = r.scoreA
		pivotSum += r.scoreB
	}
	scores[pivotIdx] = pivotSum / float64(n-1)

	return Normalize(LinearRankRewards(scores)), nil
}
