package tourney

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

func init() {
	Register("double_elimination", NewDoubleElimination)
}

// DoubleElimination runs a winners bracket to completion, feeds every
// round's losers into a losers bracket in drop order, then plays a
// single grand final between the two bracket champions.
type DoubleElimination struct {
	judge judge.Judge
	rng   *rand.Rand
}

// NewDoubleElimination builds a DoubleElimination driver over the given
// judge with a time-seeded RNG.
func NewDoubleElimination(j judge.Judge) (Driver, error) {
	return &DoubleElimination{judge: j, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}, nil
}

// NewDoubleEliminationSeeded builds a DoubleElimination driver with an
// explicit RNG, for reproducible tests.
func NewDoubleEliminationSeeded(j judge.Judge, rng *rand.Rand) *DoubleElimination {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DoubleElimination{judge: j, rng: rng}
}

// Compute implements Driver.
func (d *DoubleElimination) Compute(ctx context.Context, group *sample.Group) ([]float64, error) {
	n := group.Size()
	if n <= 1 {
		return make([]float64, n), nil
	}

	players := make([]*elimPlayer, n)
	for i := range players {
		players[i] = &elimPlayer{idx: i}
	}

	wbChampion, drops, err := d.runWinnersBracket(ctx, players, group)
	if err != nil {
		return nil, err
	}

	lbChampion, lbEliminated, err := d.runLosersBracket(ctx, drops, group)
	if err != nil {
		return nil, err
	}

	grandWinner, grandLoser, err := d.runGrandFinal(ctx, wbChampion, lbChampion, group)
	if err != nil {
		return nil, err
	}

	order := d.finalOrder(grandWinner, grandLoser, lbEliminated, players)
	return Normalize(OrderIndexRewards(order, n)), nil
}

// runWinnersBracket plays create-pairings rounds over all n players
// until one remains, recording each round's losers as a drop group in
// round order. Both participants of a played match have their score
// appended to their points history.
func (d *DoubleElimination) runWinnersBracket(ctx context.Context, players []*elimPlayer, group *sample.Group) (*elimPlayer, [][]*elimPlayer, error) {
	active := make([]*elimPlayer, len(players))
	copy(active, players)
	var drops [][]*elimPlayer

	for len(active) > 1 {
		winners, losers, err := d.playBracketRound(ctx, active, group)
		if err != nil {
			return nil, nil, err
		}
		if len(losers) > 0 {
			drops = append(drops, losers)
		}
		active = winners
	}

	if len(active) == 0 {
		return nil, drops, nil
	}
	return active[0], drops, nil
}

// runLosersBracket walks the winners-bracket drop schedule in order,
// merging each newly dropped group into the active pool and playing
// exactly one round against it before the next group is merged in, so a
// freshly dropped group faces the surviving pool before it is reduced
// further. Only once the whole drop schedule has been consumed does the
// pool get played down to a single survivor. Each round's losers are
// recorded, in round order, as the losers-bracket elimination history
// used by finalOrder.
func (d *DoubleElimination) runLosersBracket(ctx context.Context, drops [][]*elimPlayer, group *sample.Group) (*elimPlayer, [][]*elimPlayer, error) {
	var active []*elimPlayer
	var eliminated [][]*elimPlayer

	for _, dropped := range drops {
		active = append(active, dropped...)
		if len(active) >= 2 {
			winners, losers, err := d.playBracketRound(ctx, active, group)
			if err != nil {
				return nil, nil, err
			}
			if len(losers) > 0 {
				eliminated = append(eliminated, losers)
			}
			active = winners
		}
	}

	for len(active) > 1 {
		winners, losers, err := d.playBracketRound(ctx, active, group)
		if err != nil {
			return nil, nil, err
		}
		if len(losers) > 0 {
			eliminated = append(eliminated, losers)
		}
		active = winners
	}

	if len(active) == 0 {
		return nil, eliminated, nil
	}
	return active[0], eliminated, nil
}

// playBracketRound shuffles active, pairs consecutive players after the
// shuffle (an odd leftover advances untouched as a bye), plays the
// pairs concurrently, and returns (winners, losers) for that round.
// Winner of a match is decided by score_1 >= score_2, favoring the
// first operand on a tie, same rule single-elimination uses.
func (d *DoubleElimination) playBracketRound(ctx context.Context, active []*elimPlayer, group *sample.Group) ([]*elimPlayer, []*elimPlayer, error) {
	shuffled := make([]*elimPlayer, len(active))
	copy(shuffled, active)
	d.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var pairs []judge.PairKey
	var pairPlayers [][2]*elimPlayer
	var winners []*elimPlayer

	for i := 0; i < len(shuffled); {
		if i+1 < len(shuffled) {
			p1, p2 := shuffled[i], shuffled[i+1]
			pairs = append(pairs, judge.PairKey{I: p1.idx, J: p2.idx})
			pairPlayers = append(pairPlayers, [2]*elimPlayer{p1, p2})
			i += 2
		} else {
			winners = append(winners, shuffled[i])
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
			winners = append(winners, p1)
			losers = append(losers, p2)
		} else {
			winners = append(winners, p2)
			losers = append(losers, p1)
		}
	}

	return winners, losers, nil
}

// runGrandFinal plays one comparison between the two bracket champions
// if both are present and distinct. If either is absent, or they are
// the same player (the winners-bracket champion went undefeated and
// also fell through as its own losers-bracket entry is impossible, but
// a degenerate 1-player losers bracket can coincide), the existing
// champion is the grand winner with no match played.
func (d *DoubleElimination) runGrandFinal(ctx context.Context, wbChampion, lbChampion *elimPlayer, group *sample.Group) (winner, loser *elimPlayer, err error) {
	if wbChampion == nil {
		return lbChampion, nil, nil
	}
	if lbChampion == nil || lbChampion.idx == wbChampion.idx {
		return wbChampion, nil, nil
	}

	pair := judge.PairKey{I: wbChampion.idx, J: lbChampion.idx}
	results, err := playRound(ctx, d.judge, group.Predictions, group.Query, []judge.PairKey{pair})
	if err != nil {
		return nil, nil, err
	}

	r := results[0]
	wbChampion.points = append(wbChampion.points, r.scoreA)
	lbChampion.points = append(lbChampion.points, r.scoreB)

	if r.scoreA >= r.scoreB {
		return wbChampion, lbChampion, nil
	}
	return lbChampion, wbChampion, nil
}

// finalOrder reconstructs the best-to-worst candidate index order:
// grand winner, grand loser, then losers-bracket elimination groups in
// reverse round order (each sorted by avgPoint descending), then any
// player not yet placed (e.g. a degenerate single-candidate bracket
// that never reached the losers bracket).
func (d *DoubleElimination) finalOrder(grandWinner, grandLoser *elimPlayer, lbEliminated [][]*elimPlayer, players []*elimPlayer) []int {
	placed := make(map[int]bool, len(players))
	var order []int

	place := func(p *elimPlayer) {
		if p == nil || placed[p.idx] {
			return
		}
		placed[p.idx] = true
		order = append(order, p.idx)
	}

	place(grandWinner)
	place(grandLoser)

	for i := len(lbEliminated) - 1; i >= 0; i-- {
		group := lbEliminated[i]
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].avgPoint() > group[b].avgPoint()
		})
		for _, p := range group {
			place(p)
		}
	}

	leftovers := make([]*elimPlayer, 0)
	for _, p := range players {
		if !placed[p.idx] {
			leftovers = append(leftovers, p)
		}
	}
	sortByAvgPointDesc(leftovers)
	for _, p := range leftovers {
		place(p)
	}

	return order
}
