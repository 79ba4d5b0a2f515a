/*
Package builder drives the depth-first, per-node recursion that grows
one robust regression tree: at each node it asks split.FindBestSplit
for the best (feature, value) candidate, commits it as an interior
node if it improves on the current loss, and recurses into both
children with their propagated cost vectors and constraints.
*/
package builder

import (
	"context"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/constraint"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/split"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
	"github.com/FedericoMarcuzzi/TREANT/tree"
)

// Config holds the stop conditions and resource knobs for one tree's
// growth.
type Config struct {
	MaxDepth   int
	MinPerNode int
	Budget     float64
	Workers    int
}

/*
Build grows one tree over ds under attacker atk using a fresh
in-memory node store, and returns it. Features is the subset of
ds.Features() column indices this tree is allowed to split on (pass
all of them for no feature subsampling).
*/
func Build(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, label string, features []int, cfg Config) (*tree.Tree, error) {
	instances := make([]int, ds.Len())
	for i := range instances {
		instances[i] = i
	}
	cost := make(split.CostVector, len(instances))
	for _, i := range instances {
		cost[i] = cfg.Budget
	}
	prediction := meanLabel(ds, instances)
	loss := sse(ds, instances, prediction)

	store := tree.NewMemoryNodeStore()
	rootID, err := build(ctx, ds, instances, features, atk, cost, nil, prediction, loss, 0, cfg, store)
	if err != nil {
		return nil, err
	}
	return tree.New(rootID, store, feature.New(label, feature.Real)), nil
}

func build(ctx context.Context, ds *dataset.Dataset, instances, features []int, atk *attacker.Attacker, cost split.CostVector, constraints []constraint.Constraint, prediction, loss float64, depth int, cfg Config, store tree.NodeStore) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(instances) == 0 {
		return "", terrors.NewInvariantViolation("node entered with empty instance set at depth %d", depth)
	}

	var best *split.Result
	if depth < cfg.MaxDepth && len(instances) >= cfg.MinPerNode {
		best = split.FindBestSplit(ds, instances, features, atk, cost, constraints, loss, prediction, cfg.Workers)
	}
	if best == nil {
		leaf := &tree.Node{Prediction: meanLabel(ds, instances)}
		if err := store.Create(ctx, leaf); err != nil {
			return "", err
		}
		return leaf.ID, nil
	}

	if len(best.L) == 0 || len(best.R) == 0 {
		return "", terrors.NewInvariantViolation("split on feature %d value %v produced an empty child", best.Feature, best.Value)
	}

	numerical := ds.Features()[best.Feature].Kind().Numerical()
	leftLoss := sse(ds, best.L, best.YLeft)
	rightLoss := sse(ds, best.R, best.YRight)

	leftID, err := build(ctx, ds, best.L, features, atk, best.CostLeft, best.ConstraintsLeft, best.YLeft, leftLoss, depth+1, cfg, store)
	if err != nil {
		return "", err
	}
	rightID, err := build(ctx, ds, best.R, features, atk, best.CostRight, best.ConstraintsRight, best.YRight, rightLoss, depth+1, cfg, store)
	if err != nil {
		return "", err
	}

	interior := &tree.Node{
		Interior:     true,
		Feature:      best.Feature,
		Numerical:    numerical,
		Value:        best.Value,
		UniqueValues: split.UniqueValues(ds, instances, best.Feature),
		LeftID:       leftID,
		RightID:      rightID,
	}
	if err := store.Create(ctx, interior); err != nil {
		return "", err
	}
	return interior.ID, nil
}

func meanLabel(ds *dataset.Dataset, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var sum float64
	for _, i := range indices {
		sum += ds.Label(i)
	}
	return sum / float64(len(indices))
}

func sse(ds *dataset.Dataset, indices []int, prediction float64) float64 {
	var s float64
	for _, i := range indices {
		d := ds.Label(i) - prediction
		s += d * d
	}
	return s
}

