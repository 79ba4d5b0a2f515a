package split

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/FedericoMarcuzzi/TREANT/constraint"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

const (
	sseTolerance    = 1e-6
	sseMaxEvals     = 100
	sseFDStep       = 1.4901161193847656e-08
	sseMaxOuterIter = 8
)

// SSEResult is a converged pair of leaf predictions and the SSE they
// achieve.
type SSEResult struct {
	YLeft, YRight, SSE float64
}

/*
OptimizeSSE finds (ŷ_L, ŷ_R) minimizing worst-case SSE over L, R, U
subject to constraints, starting from (initLeft, initRight). It runs a
penalty-SQP hybrid: gonum/optimize's LBFGS minimizes a penalized
objective whose exact-penalty weight increases once per outer
iteration until every constraint is satisfied, the evaluation cap is
spent, or sseMaxOuterIter outer iterations have run. A non-convergent
or errored solve surfaces as a NumericalFailure and the caller treats
the candidate split as infeasible.
*/
func OptimizeSSE(labels []float64, L, R, U []int, constraints []constraint.Constraint, initLeft, initRight float64) (*SSEResult, error) {
	x := []float64{initLeft, initRight}
	penaltyWeight := 1.0
	evalsLeft := sseMaxEvals
	lastF := math.Inf(1)

	for outer := 0; outer < sseMaxOuterIter && evalsLeft > 0; outer++ {
		penalized := func(p []float64) float64 {
			f := baseSSE(labels, L, R, U, p[0], p[1])
			for _, c := range constraints {
				if v := c.Violation(p[0], p[1]); v > 0 {
					f += penaltyWeight * v
				}
			}
			return f
		}
		grad := func(g, p []float64) {
			finiteDifferenceGradient(g, penalized, p)
		}
		prob := optimize.Problem{Func: penalized, Grad: grad}
		settings := &optimize.Settings{
			GradientThreshold: sseTolerance,
			FuncEvaluations:   evalsLeft,
			MajorIterations:   sseMaxEvals,
		}
		result, err := optimize.Minimize(prob, x, settings, &optimize.LBFGS{})
		if err != nil {
			return nil, terrors.NewNumericalFailure("sse optimizer did not converge", err)
		}
		evalsLeft -= result.Stats.FuncEvaluations
		x = result.X
		satisfied := allSatisfied(constraints, x, sseTolerance)
		if math.Abs(lastF-result.F) <= sseTolerance && satisfied {
			lastF = result.F
			break
		}
		lastF = result.F
		if satisfied {
			break
		}
		penaltyWeight *= 10
	}
	if !allSatisfied(constraints, x, sseTolerance) {
		return nil, terrors.NewNumericalFailure("sse optimizer could not satisfy constraints within budget", nil)
	}
	return &SSEResult{YLeft: x[0], YRight: x[1], SSE: baseSSE(labels, L, R, U, x[0], x[1])}, nil
}

func baseSSE(labels []float64, L, R, U []int, yL, yR float64) float64 {
	var s float64
	for _, i := range L {
		d := labels[i] - yL
		s += d * d
	}
	for _, i := range R {
		d := labels[i] - yR
		s += d * d
	}
	for _, i := range U {
		dl := labels[i] - yL
		dr := labels[i] - yR
		s += math.Max(dl*dl, dr*dr)
	}
	return s
}

func allSatisfied(constraints []constraint.Constraint, x []float64, tol float64) bool {
	for _, c := range constraints {
		if c.Violation(x[0], x[1]) > tol {
			return false
		}
	}
	return true
}

func finiteDifferenceGradient(g []float64, f func([]float64) float64, x []float64) {
	base := f(x)
	xp := make([]float64, len(x))
	copy(xp, x)
	for i := range x {
		xp[i] = x[i] + sseFDStep
		g[i] = (f(xp) - base) / sseFDStep
		xp[i] = x[i]
	}
}
