package tourney

import (
	"context"
	"sort"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

func init() {
	Register("single_elimination", NewSingleElimination)
}

// SingleElimination seeds players with a quick anchor round against
// index 0, arranges them into a serpentine-expanded power-of-two
// bracket so top seeds meet late, then plays standard knockout rounds.
type SingleElimination struct {
	judge judge.Judge
}

// NewSingleElimination builds a SingleElimination driver over the given judge.
func NewSingleElimination(j judge.Judge) (Driver, error) {
	return &SingleElimination{judge: j}, nil
}

// Compute implements Driver.
func (d *SingleElimination) Compute(ctx context.Context, group *sample.Group) ([]float64, error) {
	n := group.Size()
	if n <= 1 {
		return make([]float64, n), nil
	}

	players := make([]*elimPlayer, n)
	for i := range players {
		players[i] = &elimPlayer{idx: i}
	}

	if err := d.computeSeedingScores(ctx, players, group); err != nil {
		return nil, err
	}

	bracket := d.seededBracket(players)
	champion, eliminatedHistory, err := d.runTournament(ctx, bracket, group)
	if err != nil {
		return nil, err
	}

	order := d.finalOrder(champion, eliminatedHistory)
	return Normalize(OrderIndexRewards(order, n)), nil
}

// computeSeedingScores runs an anchor comparison (everyone vs index 0)
// to establish each player's initial avgPoint.
func (d *SingleElimination) computeSeedingScores(ctx context.Context, players []*elimPlayer, group *sample.Group) error {
	n := len(players)
	if n < 2 {
		return nil
	}

	pairs := make([]judge.PairKey, 0, n-1)
	for idx := 1; idx < n; idx++ {
		pairs = append(pairs, judge.PairKey{I: idx, J: pivotIdx})
	}

	results, err := playRound(ctx, d.judge, group.Predictions, group.Query, pairs)
	if err != nil {
		return err
	}

	var pivotScores []float64
	for _, r := range results {
		players[r.pair.I].points = append(players[r.pair.I].points, r.scoreA)
		pivotScores = append(pivotScores, r.scoreB)
	}

	var sum float64
	for _, s := range pivotScores {
		sum += s
	}
	players[pivotIdx].points = append(players[pivotIdx].points, sum/float64(len(pivotScores)))

	return nil
}

// seededBracket arranges players, sorted by avgPoint descending, into a
// serpentine bracket order: expand [0] by replacing each i with
// [i, 2*count-1-i] until the length reaches the next power of two ≥ n,
// then drop placeholder indices ≥ n (they become implicit byes).
func (d *SingleElimination) seededBracket(players []*elimPlayer) []*elimPlayer {
	n := len(players)
	sorted := make([]*elimPlayer, n)
	copy(sorted, players)
	sortByAvgPointDesc(sorted)

	power := 1
	for power < n {
		power *= 2
	}

	indices := []int{0}
	count := 1
	for count < power {
		next := make([]int, 0, len(indices)*2)
		for _, i := range indices {
			next = append(next, i, 2*count-1-i)
		}
		indices = next
		count *= 2
	}

	bracket := make([]*elimPlayer, 0, n)
	for _, idx := range indices {
		if idx < n {
			bracket = append(bracket, sorted[idx])
		}
	}
	return bracket
}

// runTournament plays consecutive pairs of the bracket each round
// (active[2k] vs active[2k+1]); an odd leftover advances as a bye.
// The loser of score_1 >= score_2 (a tie favors the first operand) is
// eliminated; eliminatedHistory records each round's losers in round
// order.
func (d *SingleElimination) runTournament(ctx context.Context, bracket []*elimPlayer, group *sample.Group) (*elimPlayer, [][]*elimPlayer, error) {
	active := make([]*elimPlayer, len(bracket))
	copy(active, bracket)
	var eliminatedHistory [][]*elimPlayer

	for len(active) > 1 {
		var pairs []judge.PairKey
		var pairPlayers [][2]*elimPlayer
		var next []*elimPlayer

		for i := 0; i < len(active); {
			if i+1 < len(active) {
				p1, p2 := active[i], active[i+1]
				pairs = append(pairs, judge.PairKey{I: p1.idx, J: p2.idx})
				pairPlayers = append(pairPlayers, [2]*elimPlayer{p1, p2})
				i += 2
			} else {
				next = append(next, active[i])
				i++
			}
		}

		results, err := playRound(ctx, d.judge, group.Predictions, group.Query, pairs)
		if err != nil {
			return nil, nil, err
		}

		var losers []*elimPlayer
		for slot, r := range results {
			p1, p2 := pairPlayers[slot][0], pairPlayers[slot][1]
			p1.points = append(p1.points, r.scoreA)
			p2.points = append(p2.points, r.scoreB)

			if r.scoreA >= r.scoreB {
				next = append(next, p1)
				losers = append(losers, p2)
			} else {
				next = append(next, p2)
				losers = append(losers, p1)
			}
		}

		if len(losers) > 0 {
			eliminatedHistory = append(eliminatedHistory, losers)
		}
		active = next
	}

	if len(active) == 0 {
		return nil, eliminatedHistory, nil
	}
	return active[0], eliminatedHistory, nil
}

// finalOrder reconstructs the best-to-worst candidate index order:
// champion first, then each eliminated round's losers in reverse round
// order, each group internally sorted by avgPoint descending.
func (d *SingleElimination) finalOrder(champion *elimPlayer, eliminatedHistory [][]*elimPlayer) []int {
	var order []int
	if champion != nil {
		order = append(order, champion.idx)
	}

	for i := len(eliminatedHistory) - 1; i >= 0; i-- {
		group := eliminatedHistory[i]
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].avgPoint() > group[b].avgPoint()
		})
		for _, p := range group {
			order = append(order, p.idx)
		}
	}

	return order
}
