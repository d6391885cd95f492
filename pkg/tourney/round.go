package tourney

import (
	"context"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
	"golang.org/x/sync/errgroup"
)

// Driver is a tournament algorithm: it turns a group of candidates and
// the query they answered into a z-normalized, length-G reward vector.
type Driver interface {
	Compute(ctx context.Context, group *sample.Group) ([]float64, error)
}

// matchResult is one completed comparison, carried back to the caller
// indexed by submission order rather than completion order.
type matchResult struct {
	pair   judge.PairKey
	scoreA float64
	scoreB float64
}

// playRound submits one judge call per pair concurrently under a single
// errgroup, waits for all of them, and returns their results in
// submission order. The first failing call cancels the round's context
// and aborts the whole round; no partial results are returned.
func playRound(ctx context.Context, j judge.Judge, predictions [][]sample.Message, query string, pairs []judge.PairKey) ([]matchResult, error) {
	results := make([]matchResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	for slot, pair := range pairs {
		slot, pair := slot, pair
		g.Go(func() error {
			scoreA, scoreB, _, err := j.BidirectionalCompare(gctx, predictions[pair.I], predictions[pair.J], query, pair)
			if err != nil {
				return err
			}
			results[slot] = matchResult{pair: pair, scoreA: scoreA, scoreB: scoreB}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
