package attacker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/feature"
)

func TestParseRulesParsesPreconditionAndSet(t *testing.T) {
	doc := `
features:
  age:
    - precondition: "<= 30"
      cost: 1.0
      set: 31
`
	kinds := map[string]feature.Kind{"age": feature.Real}
	rules, err := ParseRules(strings.NewReader(doc), kinds)
	require.NoError(t, err)
	require.Len(t, rules["age"], 1)
	r := rules["age"][0]
	assert.Equal(t, Le, r.Comparator)
	assert.Equal(t, feature.Num(30), r.Precondition)
	assert.Equal(t, feature.Num(31), r.Set)
	assert.Equal(t, 1.0, r.Cost)
}

func TestParseRulesRejectsUnknownFeature(t *testing.T) {
	doc := `
features:
  height:
    - precondition: "<= 30"
      cost: 1.0
      set: 31
`
	_, err := ParseRules(strings.NewReader(doc), map[string]feature.Kind{"age": feature.Real})
	assert.Error(t, err)
}

func TestParseRulesRejectsNegativeCost(t *testing.T) {
	doc := `
features:
  age:
    - precondition: "<= 30"
      cost: -1.0
      set: 31
`
	_, err := ParseRules(strings.NewReader(doc), map[string]feature.Kind{"age": feature.Real})
	assert.Error(t, err)
}

func TestParseRulesRejectsMissingFeaturesSection(t *testing.T) {
	_, err := ParseRules(strings.NewReader("not: yaml-we-expect\n"), map[string]feature.Kind{})
	assert.Error(t, err)
}
