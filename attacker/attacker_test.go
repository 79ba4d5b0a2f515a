package attacker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
)

func TestAttackAlwaysIncludesIdentityAtZeroCost(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	atk, err := New(nil, features)
	require.NoError(t, err)

	row := dataset.NewRow([]feature.Value{feature.Num(3)}, 0)
	attacks := atk.Attack(row, 0, 5)
	require.Len(t, attacks, 1)
	assert.Equal(t, 0.0, attacks[0].Cost)
	assert.Equal(t, feature.Num(3), attacks[0].Record.Value(0))
}

func TestAttackChainsRulesWithinBudget(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	rules := map[string][]Rule{
		"x": {
			{Comparator: Eq, Precondition: feature.Num(3), Set: feature.Num(6), Cost: 1},
			{Comparator: Eq, Precondition: feature.Num(6), Set: feature.Num(7), Cost: 1},
		},
	}
	atk, err := New(rules, features)
	require.NoError(t, err)

	row := dataset.NewRow([]feature.Value{feature.Num(3)}, 0)

	oneHop := atk.Attack(row, 0, 1)
	require.Len(t, oneHop, 2)
	assert.Equal(t, feature.Num(6), oneHop[1].Record.Value(0))

	twoHop := atk.Attack(row, 0, 2)
	require.Len(t, twoHop, 3)
	assert.Equal(t, 2.0, twoHop[2].Cost)
	assert.Equal(t, feature.Num(7), twoHop[2].Record.Value(0))
}

func TestAttackRespectsBudget(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	rules := map[string][]Rule{
		"x": {{Comparator: Le, Precondition: feature.Num(5), Set: feature.Num(6), Cost: 3}},
	}
	atk, err := New(rules, features)
	require.NoError(t, err)

	row := dataset.NewRow([]feature.Value{feature.Num(1)}, 0)
	attacks := atk.Attack(row, 0, 2)
	assert.Len(t, attacks, 1, "the rule costs more than the residual budget")
}

func TestNewRejectsUnknownFeature(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	_, err := New(map[string][]Rule{"y": nil}, features)
	assert.Error(t, err)
}

func TestIsFeasible(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	rules := map[string][]Rule{
		"x": {{Comparator: Le, Precondition: feature.Num(5), Set: feature.Num(9), Cost: 1}},
	}
	atk, err := New(rules, features)
	require.NoError(t, err)

	row := dataset.NewRow([]feature.Value{feature.Num(3)}, 0)
	assert.True(t, atk.IsFeasible(row, 0, 1, func(v feature.Value) bool { return v.Float() > 8 }))
	assert.False(t, atk.IsFeasible(row, 0, 0, func(v feature.Value) bool { return v.Float() > 8 }))
}
