package split

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/constraint"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
)

// Result bundles a chosen split and everything the tree builder needs
// to commit it and recurse into both children.
type Result struct {
	Gain             float64
	Feature          int
	Value            feature.Value
	NextValue        feature.Value
	L, R             []int
	YLeft, YRight    float64
	SSE              float64
	CostLeft         CostVector
	CostRight        CostVector
	ConstraintsLeft  []constraint.Constraint
	ConstraintsRight []constraint.Constraint
}

/*
FindBestSplit scans validFeatures for the (feature, value) pair that
maximizes gain = currentLoss - sse over the constrained two-leaf fit,
using nWorkers goroutines each scanning a contiguous chunk of
validFeatures. The winner is deterministic regardless of nWorkers: the
reduction breaks ties by lower feature index then lower value. Returns
nil if no candidate improves on currentLoss.
*/
func FindBestSplit(ds *dataset.Dataset, validInstances, validFeatures []int, atk *attacker.Attacker, cost CostVector, constraints []constraint.Constraint, currentLoss, currentPrediction float64, nWorkers int) *Result {
	if nWorkers < 1 {
		nWorkers = 1
	}
	chunks := chunkFeatures(validFeatures, nWorkers)
	localBests := make([]*candidate, len(chunks))
	var wg sync.WaitGroup
	for w, chunk := range chunks {
		wg.Add(1)
		go func(w int, chunk []int) {
			defer wg.Done()
			localBests[w] = scanChunk(ds, validInstances, chunk, atk, cost, constraints, currentLoss, currentPrediction)
		}(w, chunk)
	}
	wg.Wait()

	best := reduce(localBests)
	if best == nil {
		return nil
	}
	return finalizeSplit(ds, validInstances, atk, cost, constraints, best)
}

type candidate struct {
	gain              float64
	feature           int
	value             feature.Value
	nextValue         feature.Value
	numerical         bool
	yLeft, yRight     float64
	sse               float64
}

func scanChunk(ds *dataset.Dataset, validInstances, features []int, atk *attacker.Attacker, cost CostVector, constraints []constraint.Constraint, currentLoss, currentPrediction float64) *candidate {
	var best *candidate
	labels := labelSlice(ds)
	for _, j := range features {
		f := ds.Features()[j]
		numerical := f.Kind().Numerical()
		values := uniqueValues(ds, validInstances, j)
		for vi, v := range values {
			L, R, U := Simulate(ds, validInstances, atk, cost, j, v, numerical)
			candConstraints := candidateConstraints(constraints, atk, j, v, numerical)
			result, err := OptimizeSSE(labels, L, R, U, candConstraints, currentPrediction, currentPrediction)
			if err != nil {
				log.Debug().Err(err).Int("feature", j).Str("value", v.String()).Msg("split candidate numerical failure")
				continue
			}
			gain := currentLoss - result.SSE
			if best == nil || gain > best.gain {
				next := v
				if vi+1 < len(values) {
					next = values[vi+1]
				}
				best = &candidate{
					gain: gain, feature: j, value: v, nextValue: next, numerical: numerical,
					yLeft: result.YLeft, yRight: result.YRight, sse: result.SSE,
				}
			}
		}
	}
	return best
}

func reduce(candidates []*candidate) *candidate {
	var best *candidate
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if best == nil || better(c, best) {
			best = c
		}
	}
	if best == nil || best.gain <= 0 {
		return nil
	}
	return best
}

func better(a, b *candidate) bool {
	if a.gain != b.gain {
		return a.gain > b.gain
	}
	if a.feature != b.feature {
		return a.feature < b.feature
	}
	return a.value.String() < b.value.String()
}

func finalizeSplit(ds *dataset.Dataset, validInstances []int, atk *attacker.Attacker, cost CostVector, constraints []constraint.Constraint, best *candidate) *Result {
	L, R, U := Simulate(ds, validInstances, atk, cost, best.feature, best.value, best.numerical)

	var constraintsLeft, constraintsRight []constraint.Constraint
	for _, c := range constraints {
		if cl, ok := c.PropagateLeft(atk, best.feature, best.value, best.numerical); ok {
			constraintsLeft = append(constraintsLeft, *cl)
		}
		if cr, ok := c.PropagateRight(atk, best.feature, best.value, best.numerical); ok {
			constraintsRight = append(constraintsRight, *cr)
		}
	}

	costLeft := make(CostVector, len(L))
	costRight := make(CostVector, len(R))
	for _, i := range L {
		costLeft[i] = cost[i]
	}
	for _, i := range R {
		costRight[i] = cost[i]
	}

	labels := labelSlice(ds)
	for _, i := range U {
		dl := abs(labels[i] - best.yLeft)
		dr := abs(labels[i] - best.yRight)
		if dl > dr {
			costMinLeft := minCostForSide(ds, atk, cost, i, best.feature, best.value, best.numerical, true)
			L = append(L, i)
			costLeft[i] = costMinLeft
			constraintsLeft = append(constraintsLeft, constraint.New(ds.Record(i), labels[i], costMinLeft, true, best.yRight, constraint.L))
			constraintsRight = append(constraintsRight, constraint.New(ds.Record(i), labels[i], costMinLeft, false, best.yRight, constraint.R))
		} else {
			costMinRight := minCostForSide(ds, atk, cost, i, best.feature, best.value, best.numerical, false)
			R = append(R, i)
			costRight[i] = costMinRight
			constraintsLeft = append(constraintsLeft, constraint.New(ds.Record(i), labels[i], costMinRight, false, best.yLeft, constraint.L))
			constraintsRight = append(constraintsRight, constraint.New(ds.Record(i), labels[i], costMinRight, true, best.yLeft, constraint.R))
		}
	}

	return &Result{
		Gain: best.gain, Feature: best.feature, Value: best.value, NextValue: best.nextValue,
		L: L, R: R, YLeft: best.yLeft, YRight: best.yRight, SSE: best.sse,
		CostLeft: costLeft, CostRight: costRight,
		ConstraintsLeft: constraintsLeft, ConstraintsRight: constraintsRight,
	}
}

// minCostForSide computes the minimum cost among attacks on instance i
// that place it on the requested side of the winning split. left=true
// asks for the minimum left-placing cost, matching the true-minimum
// resolution of the U-redistribution ambiguity (rather than the legacy
// shortcut of assuming the identity attack is always left-placing).
func minCostForSide(ds *dataset.Dataset, atk *attacker.Attacker, cost CostVector, i, j int, v feature.Value, numerical bool, left bool) float64 {
	predicate := routingPredicate(v, numerical)
	best := -1.0
	for _, a := range atk.Attack(ds.Record(i), j, cost[i]) {
		satisfies := predicate(a.Record.Value(j))
		if satisfies == left {
			if best < 0 || a.Cost < best {
				best = a.Cost
			}
		}
	}
	if best < 0 {
		// No attack places i on the requested side: unreachable given
		// i was assigned there because it is the majority-error side,
		// but fall back to i's full residual cost rather than panic.
		return cost[i]
	}
	return best
}

func candidateConstraints(constraints []constraint.Constraint, atk *attacker.Attacker, j int, v feature.Value, numerical bool) []constraint.Constraint {
	var result []constraint.Constraint
	for _, c := range constraints {
		cl, lok := c.PropagateLeft(atk, j, v, numerical)
		cr, rok := c.PropagateRight(atk, j, v, numerical)
		if !lok && !rok {
			continue
		}
		var nc constraint.Constraint
		switch {
		case lok && rok:
			nc = *cl
			nc.Direction = constraint.U
		case lok:
			nc = *cl
			nc.Direction = constraint.L
		default:
			nc = *cr
			nc.Direction = constraint.R
		}
		result = append(result, nc)
	}
	return result
}

func chunkFeatures(features []int, n int) [][]int {
	if n > len(features) {
		n = len(features)
	}
	if n == 0 {
		return nil
	}
	chunks := make([][]int, n)
	base := len(features) / n
	extra := len(features) % n
	idx := 0
	for w := 0; w < n; w++ {
		size := base
		if w < extra {
			size++
		}
		chunks[w] = features[idx : idx+size]
		idx += size
	}
	return chunks
}

// UniqueValues returns the distinct values feature j takes over
// indices, sorted ascending. Interior nodes record this for a split's
// feature so test-time routing can enumerate the values seen at
// training.
func UniqueValues(ds *dataset.Dataset, indices []int, j int) []feature.Value {
	return uniqueValues(ds, indices, j)
}

func uniqueValues(ds *dataset.Dataset, indices []int, j int) []feature.Value {
	seen := make(map[string]feature.Value)
	for _, i := range indices {
		v := ds.Value(i, j)
		seen[v.String()] = v
	}
	values := make([]feature.Value, 0, len(seen))
	for _, v := range seen {
		values = append(values, v)
	}
	sort.Slice(values, func(a, b int) bool {
		if ds.Features()[j].Kind().Numerical() {
			return values[a].Float() < values[b].Float()
		}
		return values[a].String() < values[b].String()
	})
	return values
}

func labelSlice(ds *dataset.Dataset) []float64 {
	labels := make([]float64, ds.Len())
	for i := range labels {
		labels[i] = ds.Label(i)
	}
	return labels
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
