package tourney

import "math"

// RankMin assigns competition ranks (1 = best) to scores in descending
// order, using the "min" method on ties: all players tied at a value
// receive the lowest rank their position spans, matching pandas'
// rank(method="min", ascending=False).
func RankMin(scores []float64) []float64 {
	ranks := make([]float64, len(scores))
	for i := range scores {
		rank := 1
		for j := range scores {
			if scores[j] > scores[i] {
				rank++
			}
		}
		ranks[i] = float64(rank)
	}
	return ranks
}

// LinearRankRewards implements the linear-rank reward shape: given raw
// scores, rank them (descending, ties via RankMin) and map each rank to
// a reward in [0,1], with all-tied input mapping to an all-zero vector.
// Used by round-robin and anchor.
func LinearRankRewards(scores []float64) []float64 {
	ranks := RankMin(scores)
	maxRank := ranks[0]
	for _, r := range ranks[1:] {
		if r > maxRank {
			maxRank = r
		}
	}

	rewards := make([]float64, len(scores))
	if maxRank == 1 {
		return rewards
	}
	for i, r := range ranks {
		rewards[i] = (maxRank - r) / (maxRank - 1)
	}
	return rewards
}

// OrderIndexRewards implements the order-index reward shape: order is a
// best-to-worst permutation of candidate indices with no declared ties.
// The candidate at order[k] receives reward 1 - k/(G-1). Used by
// single- and double-elimination, where the bracket already produces a
// strict ordering.
func OrderIndexRewards(order []int, groupSize int) []float64 {
	rewards := make([]float64, groupSize)
	if groupSize <= 1 {
		return rewards
	}
	for rankIdx, idx := range order {
		rewards[idx] = 1.0 - float64(rankIdx)/float64(groupSize-1)
	}
	return rewards
}

// Normalize z-normalizes a reward vector in place semantics (returns a
// new slice): subtract the population mean, divide by population
// std+1e-6. The epsilon prevents a divide-by-zero when every reward is
// identical (e.g. an all-tied ranking), in which case the result is an
// all-zero vector.
func Normalize(rewards []float64) []float64 {
	n := float64(len(rewards))
	if n == 0 {
		return rewards
	}

	var sum float64
	for _, r := range rewards {
		sum += r
	}
	mean := sum / n

	var sqDiff float64
	for _, r := range rewards {
		d := r - mean
		sqDiff += d * d
	}
	std := math.Sqrt(sqDiff / n)

	out := make([]float64, len(rewards))
	for i, r := range rewards {
		out[i] = (r - mean) / (std + 1e-6)
	}
	return out
}
