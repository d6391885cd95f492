package tourney

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

func init() {
	Register("swiss", NewSwiss)
}

// swissPlayer tracks a candidate's Swiss-system state: accumulated
// points (win=1, draw=½), the set of opponents already faced (to avoid
// rematches), and the derived Buchholz tiebreak.
type swissPlayer struct {
	idx       int
	points    float64
	opponents map[int]bool
	buchholz  float64
}

// Swiss plays ⌈log₂G⌉ rounds (capped at G-1, or at MaxRounds if set) of
// points-based pairing with no rematches except as a last-resort
// fallback, then breaks ties with the Buchholz score (sum of each
// opponent's final points).
type Swiss struct {
	judge     judge.Judge
	MaxRounds int
	rng       *rand.Rand
}

// NewSwiss builds a Swiss driver over the given judge with the default
// round count (⌈log₂G⌉, capped at G-1) and a time-seeded RNG.
func NewSwiss(j judge.Judge) (Driver, error) {
	return &Swiss{judge: j, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}, nil
}

// NewSwissSeeded builds a Swiss driver with an explicit round cap and
// RNG, for reproducible tests or a config-supplied round limit.
func NewSwissSeeded(j judge.Judge, maxRounds int, rng *rand.Rand) *Swiss {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Swiss{judge: j, MaxRounds: maxRounds, rng: rng}
}

// Compute implements Driver.
func (d *Swiss) Compute(ctx context.Context, group *sample.Group) ([]float64, error) {
	n := group.Size()
	if n <= 1 {
		return make([]float64, n), nil
	}

	players := make([]*swissPlayer, n)
	for i := range players {
		players[i] = &swissPlayer{idx: i, opponents: make(map[int]bool)}
	}

	numRounds := d.numRounds(n)
	for round := 0; round < numRounds; round++ {
		pairs, byeIdx, hasBye := d.createPairings(players)

		results, err := playRound(ctx, d.judge, group.Predictions, group.Query, pairs)
		if err != nil {
			return nil, err
		}

		for _, r := range results {
			p1, p2 := players[r.pair.I], players[r.pair.J]
			switch {
			case r.scoreA > r.scoreB:
				p1.points += 1.0
			case r.scoreB > r.scoreA:
				p2.points += 1.0
			default:
				p1.points += 0.5
				p2.points += 0.5
			}
			p1.opponents[p2.idx] = true
			p2.opponents[p1.idx] = true
		}

		if hasBye {
			players[byeIdx].points += 1.0
		}
	}

	d.calculateBuchholz(players)
	rewards := d.calculateGroupRewards(players, n)
	return Normalize(rewards), nil
}

func (d *Swiss) numRounds(groupSize int) int {
	rounds := d.MaxRounds
	if rounds <= 0 {
		rounds = int(math.Ceil(math.Log2(float64(groupSize))))
	}
	if rounds > groupSize-1 {
		rounds = groupSize - 1
	}
	return rounds
}

// createPairings shuffles a working copy of the player list, stable-sorts
// it by points descending, gives the lowest-ranked player a bye on odd
// counts, then greedily pairs each still-unpaired player with the first
// later unpaired player it hasn't already faced. If no such opponent
// exists, it falls back to the first remaining unpaired player,
// allowing a rematch rather than leaving anyone unpaired.
func (d *Swiss) createPairings(players []*swissPlayer) ([]judge.PairKey, int, bool) {
	shuffled := make([]*swissPlayer, len(players))
	copy(shuffled, players)
	d.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	sort.SliceStable(shuffled, func(i, j int) bool {
		return shuffled[i].points > shuffled[j].points
	})

	unpaired := shuffled
	byeIdx := -1
	hasBye := false
	if len(unpaired)%2 != 0 {
		last := unpaired[len(unpaired)-1]
		unpaired = unpaired[:len(unpaired)-1]
		byeIdx = last.idx
		hasBye = true
	}

	processed := make([]bool, len(unpaired))
	pairs := make([]judge.PairKey, 0, len(unpaired)/2)
	for i := range unpaired {
		if processed[i] {
			continue
		}
		p1 := unpaired[i]
		found := false
		for j := i + 1; j < len(unpaired); j++ {
			if processed[j] || p1.opponents[unpaired[j].idx] {
				continue
			}
			pairs = append(pairs, judge.PairKey{I: p1.idx, J: unpaired[j].idx})
			processed[i], processed[j] = true, true
			found = true
			break
		}
		if !found {
			for j := i + 1; j < len(unpaired); j++ {
				if processed[j] {
					continue
				}
				pairs = append(pairs, judge.PairKey{I: p1.idx, J: unpaired[j].idx})
				processed[i], processed[j] = true, true
				break
			}
		}
	}

	return pairs, byeIdx, hasBye
}

func (d *Swiss) calculateBuchholz(players []*swissPlayer) {
	for _, p := range players {
		var sum float64
		for oppIdx := range p.opponents {
			sum += players[oppIdx].points
		}
		p.buchholz = sum
	}
}

// calculateGroupRewards sorts players by (points desc, buchholz desc),
// then gives every group of players tied on both keys the arithmetic
// mean of the positional rewards their tied positions would otherwise
// receive individually.
func (d *Swiss) calculateGroupRewards(players []*swissPlayer, groupSize int) []float64 {
	rewards := make([]float64, groupSize)

	ranked := make([]*swissPlayer, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].points != ranked[j].points {
			return ranked[i].points > ranked[j].points
		}
		return ranked[i].buchholz > ranked[j].buchholz
	})

	i := 0
	for i < groupSize {
		j := i
		for j+1 < groupSize &&
			ranked[j+1].points == ranked[i].points &&
			ranked[j+1].buchholz == ranked[i].buchholz {
			j++
		}

		var sumRewards float64
		for k := i; k <= j; k++ {
			sumRewards += float64(groupSize-(k+1)) / float64(groupSize-1)
		}
		avgReward := sumRewards / float64(j-i+1)

		for k := i; k <= j; k++ {
			rewards[ranked[k].idx] = avgReward
		}

		i = j + 1
	}

	return rewards
}
