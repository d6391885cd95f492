package tourney

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleEliminationScenario(t *testing.T) {
	j := newConstantValueJudge([]float64{1, 2, 3, 4})
	d := NewDoubleEliminationSeeded(j, rand.New(rand.NewSource(42)))

	rewards, err := d.Compute(context.Background(), indexGroup("q", 4))
	require.NoError(t, err)

	// Candidate 3 (value 4) never loses: it is the grand winner.
	// Candidate 2 (value 3) can only ever lose to candidate 3, so it
	// wins its way back through the losers bracket to the grand final
	// as grand loser. Candidate 0 (lowest value) is eliminated first in
	// every losers-bracket path and ends up last.
	assert.Greater(t, rewards[3], rewards[2])
	assert.Greater(t, rewards[2], rewards[1])
	assert.Greater(t, rewards[1], rewards[0])
	assert.InDeltaSlice(t, []float64{-1.3416, -0.4472, 0.4472, 1.3416}, rewards, 1e-4)
}

func TestDoubleEliminationGrandFinalRunsAtMostOnce(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		j := newConstantValueJudge(makeDescendingValues(6))
		d := NewDoubleEliminationSeeded(j, rand.New(rand.NewSource(seed)))
		_, err := d.Compute(context.Background(), indexGroup("q", 6))
		require.NoError(t, err)
		// 5 winners-bracket matches + 4 losers-bracket matches + exactly
		// one grand final.
		assert.Equal(t, (6-1)+(6-2)+1, j.calls)
	}
}

func TestDoubleEliminationDegenerateSingle(t *testing.T) {
	d := NewDoubleEliminationSeeded(newConstantValueJudge([]float64{1}), rand.New(rand.NewSource(1)))
	rewards, err := d.Compute(context.Background(), indexGroup("q", 1))
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, rewards)
}

func TestDoubleEliminationGrandFinal(t *testing.T) {
	j := newConstantValueJudge([]float64{9, 1})
	d := NewDoubleEliminationSeeded(j, rand.New(rand.NewSource(7)))

	rewards, err := d.Compute(context.Background(), indexGroup("q", 2))
	require.NoError(t, err)
	assert.Greater(t, rewards[0], rewards[1])
}

func TestDoubleEliminationGrandFinalSkippedWhenChampionsCoincide(t *testing.T) {
	d := NewDoubleEliminationSeeded(newConstantValueJudge([]float64{1, 2}), rand.New(rand.NewSource(1)))
	champ := &elimPlayer{idx: 0, points: []float64{5}}

	winner, loser, err := d.runGrandFinal(context.Background(), champ, champ, indexGroup("q", 2))
	require.NoError(t, err)
	assert.Same(t, champ, winner)
	assert.Nil(t, loser)

	winner, loser, err = d.runGrandFinal(context.Background(), champ, nil, indexGroup("q", 2))
	require.NoError(t, err)
	assert.Same(t, champ, winner)
	assert.Nil(t, loser)
}

func TestDoubleEliminationOrderPreservesStrictDominance(t *testing.T) {
	values := makeDescendingValues(8)
	for seed := int64(0); seed < 5; seed++ {
		j := newConstantValueJudge(values)
		d := NewDoubleEliminationSeeded(j, rand.New(rand.NewSource(seed)))
		rewards, err := d.Compute(context.Background(), indexGroup("q", 8))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rewards[0], rewards[len(rewards)-1])
	}
}
