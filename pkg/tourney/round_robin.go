package tourney

import (
	"context"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

func init() {
	Register("round_robin", NewRoundRobin)
}

// RoundRobin plays every unordered pair exactly once and ranks
// candidates by total wins (a win is worth 1 point, a draw ½ to each).
type RoundRobin struct {
	judge judge.Judge
}

// NewRoundRobin builds a RoundRobin driver over the given judge.
func NewRoundRobin(j judge.Judge) (Driver, error) {
	return &RoundRobin{judge: j}, nil
}

// Compute implements Driver.
func (d *RoundRobin) Compute(ctx context.Context, group *sample.Group) ([]float64, error) {
	n := group.Size()
	if n <= 1 {
		return make([]float64, n), nil
	}

	pairs := make([]judge.PairKey, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, judge.PairKey{I: i, J: j})
		}
	}

	results, err := playRound(ctx, d.judge, group.Predictions, group.Query, pairs)
	if err != nil {
		return nil, err
	}

	wins := make([]float64, n)
	for _, r := range results {
		switch {
		case r.scoreA > r.scoreB:
			wins[r.pair.I] += 1.0
		case r.scoreB > r.scoreA:
			wins[r.pair.J] += 1.0
		default:
			wins[r.pair.I] += 0.5
			wins[r.pair.J] += 0.5
		}
	}

	return Normalize(LinearRankRewards(wins)), nil
}
