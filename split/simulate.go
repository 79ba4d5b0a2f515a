/*
Package split holds the per-candidate partitioning, the constrained
leaf-prediction optimizer, and the parallel feature/threshold search
that together choose the best split for one tree node.
*/
package split

import (
	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
)

// CostVector is the per-instance residual adversarial budget available
// at a node, keyed by row index.
type CostVector map[int]float64

/*
Simulate partitions validIndices into L (certainly left), R (certainly
right) and U (uncertain) under a candidate split on feature j at value
v: an index lands in L if every attack on it (within its residual cost)
satisfies the routing predicate, in R if every attack violates it, and
in U otherwise. Order within each group preserves validIndices' order.
*/
func Simulate(ds *dataset.Dataset, validIndices []int, atk *attacker.Attacker, cost CostVector, j int, v feature.Value, numerical bool) (L, R, U []int) {
	predicate := routingPredicate(v, numerical)
	for _, i := range validIndices {
		rec := ds.Record(i)
		attacks := atk.Attack(rec, j, cost[i])
		allSatisfy, allViolate := true, true
		for _, a := range attacks {
			if predicate(a.Record.Value(j)) {
				allViolate = false
			} else {
				allSatisfy = false
			}
		}
		switch {
		case allSatisfy:
			L = append(L, i)
		case allViolate:
			R = append(R, i)
		default:
			U = append(U, i)
		}
	}
	return L, R, U
}

func routingPredicate(v feature.Value, numerical bool) func(feature.Value) bool {
	if numerical {
		return func(fv feature.Value) bool { return fv.LessOrEqual(v.Float()) }
	}
	return func(fv feature.Value) bool { return fv.EqualSymbol(v.String()) }
}
