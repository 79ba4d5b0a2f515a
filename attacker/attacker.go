/*
Package attacker enumerates the perturbations an adversary may apply to
a single feature of a record within a cost budget, and answers
feasibility questions used by constraint propagation.
*/
package attacker

import (
	"fmt"
	"sort"

	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

// Attacker holds, per feature, the rules an adversary may chain to
// perturb that feature's value.
type Attacker struct {
	rulesByIndex map[int][]Rule
}

// New resolves rulesByName's feature names against features and
// returns an Attacker, or a ConfigError if a rule names an unknown
// feature.
func New(rulesByName map[string][]Rule, features []*feature.Feature) (*Attacker, error) {
	byIndex := make(map[int][]Rule)
	for name, rules := range rulesByName {
		idx := -1
		for i, f := range features {
			if f.Name() == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, terrors.NewConfigError(fmt.Sprintf("attacker rule references unknown feature %q", name))
		}
		byIndex[idx] = rules
	}
	return &Attacker{rulesByIndex: byIndex}, nil
}

// Attack is one member of an attack set: a perturbed view of the base
// record and the cumulative cost of reaching it.
type Attack struct {
	Record dataset.View
	Cost   float64
}

/*
Attack returns the attack set for base's feature column j within
residual cost: the closure of base under zero or more chained rules
declared for j, each annotated with total cost. The first element is
always (base, 0); the rest are deduped by resulting value and sorted
by cost ascending then by attacked value ascending.
*/
func (a *Attacker) Attack(base dataset.View, j int, residual float64) []Attack {
	rules := a.rulesByIndex[j]
	start := base.Value(j)
	startKey := start.String()

	dist := map[string]float64{startKey: 0}
	vals := map[string]feature.Value{startKey: start}

	for pass := 0; pass <= len(rules); pass++ {
		changed := false
		keys := make([]string, 0, len(dist))
		for k := range dist {
			keys = append(keys, k)
		}
		for _, k := range keys {
			cur := vals[k]
			d := dist[k]
			for _, r := range rules {
				if !r.Matches(cur) {
					continue
				}
				nc := d + r.Cost
				if nc > residual {
					continue
				}
				nk := r.Set.String()
				if old, ok := dist[nk]; !ok || nc < old {
					dist[nk] = nc
					vals[nk] = r.Set
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	var rest []Attack
	for k, d := range dist {
		if k == startKey {
			continue
		}
		rest = append(rest, Attack{Record: dataset.WithValue(base, j, vals[k]), Cost: d})
	}
	sort.Slice(rest, func(i, k int) bool {
		if rest[i].Cost != rest[k].Cost {
			return rest[i].Cost < rest[k].Cost
		}
		vi, vk := rest[i].Record.Value(j), rest[k].Record.Value(j)
		if !vi.IsCategorical() && !vk.IsCategorical() {
			return vi.Float() < vk.Float()
		}
		return vi.String() < vk.String()
	})
	return append([]Attack{{Record: base, Cost: 0}}, rest...)
}

/*
IsFeasible reports whether some attack on base's feature j, within
residual cost, produces a value satisfying predicate.
*/
func (a *Attacker) IsFeasible(base dataset.View, j int, residual float64, predicate func(feature.Value) bool) bool {
	for _, atk := range a.Attack(base, j, residual) {
		if predicate(atk.Record.Value(j)) {
			return true
		}
	}
	return false
}
