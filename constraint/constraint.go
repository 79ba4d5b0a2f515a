/*
Package constraint records adversarial commitments made at an ancestor
split and threads them down the tree as bounds a descendant leaf
prediction must satisfy.
*/
package constraint

import (
	"math"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
)

// Direction says which side of a split a constrained instance was
// committed to land on: certainly left, certainly right, or either
// (uncertain).
type Direction int

const (
	L Direction = iota
	R
	U
)

/*
Constraint asserts that instance Record's future leaf prediction on
side Direction is bounded relative to Bound, both expressed as squared
distance from Label: (Bound-Label)² is an upper bound on that distance
when Inequality is false and a lower bound when Inequality is true.
*/
type Constraint struct {
	Record       dataset.View
	Label        float64
	ResidualCost float64
	Inequality   bool
	Bound        float64
	Direction    Direction
}

// New builds a constraint. Direction is set by the caller, typically
// from a pair of PropagateLeft/PropagateRight outcomes.
func New(record dataset.View, label, residualCost float64, inequality bool, bound float64, dir Direction) Constraint {
	return Constraint{Record: record, Label: label, ResidualCost: residualCost, Inequality: inequality, Bound: bound, Direction: dir}
}

/*
Violation evaluates this constraint's inequality at leaf predictions
(yL, yR): the constraint is satisfied when the result is <= 0. This is
the exact per-direction formula of the SSE optimizer's constraint set.
*/
func (c Constraint) Violation(yL, yR float64) float64 {
	bTerm := (c.Bound - c.Label) * (c.Bound - c.Label)
	sign := 1.0
	if c.Inequality {
		sign = -1.0
	}
	switch c.Direction {
	case L:
		dl := (yL - c.Label) * (yL - c.Label)
		return sign * (dl - bTerm)
	case R:
		dr := (yR - c.Label) * (yR - c.Label)
		return sign * (dr - bTerm)
	default: // U
		dl := (yL - c.Label) * (yL - c.Label)
		dr := (yR - c.Label) * (yR - c.Label)
		if !c.Inequality {
			return math.Min(dl, dr) - bTerm
		}
		return math.Max(dl, dr) - bTerm
	}
}

/*
PropagateLeft restricts this constraint to the hypothesis that its
instance lands in the left child of a split on (j, v). It returns
(nil, false) iff no attack on the instance within its residual cost
could place it on the left.
*/
func (c Constraint) PropagateLeft(a *attacker.Attacker, j int, v feature.Value, numerical bool) (*Constraint, bool) {
	return c.propagate(a, j, leftPredicate(v, numerical))
}

// PropagateRight is the symmetric operation for the right child.
func (c Constraint) PropagateRight(a *attacker.Attacker, j int, v feature.Value, numerical bool) (*Constraint, bool) {
	return c.propagate(a, j, rightPredicate(v, numerical))
}

func (c Constraint) propagate(a *attacker.Attacker, j int, predicate func(feature.Value) bool) (*Constraint, bool) {
	if !a.IsFeasible(c.Record, j, c.ResidualCost, predicate) {
		return nil, false
	}
	nc := c
	return &nc, true
}

func leftPredicate(v feature.Value, numerical bool) func(feature.Value) bool {
	if numerical {
		return func(fv feature.Value) bool { return fv.LessOrEqual(v.Float()) }
	}
	return func(fv feature.Value) bool { return fv.EqualSymbol(v.String()) }
}

func rightPredicate(v feature.Value, numerical bool) func(feature.Value) bool {
	left := leftPredicate(v, numerical)
	return func(fv feature.Value) bool { return !left(fv) }
}
