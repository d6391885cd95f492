package tourney

import "sort"

// elimPlayer is the per-candidate state shared by the elimination
// drivers: every judge score the candidate has ever received, used as
// the seeding/tiebreak statistic avgPoint.
type elimPlayer struct {
	idx    int
	points []float64
}

func (p *elimPlayer) avgPoint() float64 {
	if len(p.points) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.points {
		sum += v
	}
	return sum / float64(len(p.points))
}

// sortByAvgPointDesc sorts a slice of elimPlayer in place by avgPoint
// descending, stably (ties keep their relative input order).
func sortByAvgPointDesc(players []*elimPlayer) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].avgPoint() > players[j].avgPoint()
	})
}
