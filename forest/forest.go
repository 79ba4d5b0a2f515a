/*
Package forest is the bagging ensemble driver: it samples rows (and
optionally features) with a caller-supplied random source, grows one
tree per estimator with package builder, and averages leaf predictions
at inference time.
*/
package forest

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/builder"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/queue"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
	"github.com/FedericoMarcuzzi/TREANT/tree"
)

// Config configures one bagging run. MaxFeatures <= 0 or >= the
// dataset's feature count disables feature subsampling.
type Config struct {
	Estimators  int
	MaxFeatures int
	builder.Config
}

// Forest is an ensemble of independently trained trees whose
// predictions are averaged.
type Forest struct {
	Trees []*tree.Tree
}

/*
Fit grows cfg.Estimators trees over ds under atk, each on a bootstrap
resample of ds's rows (drawn with replacement via rng) and, when
cfg.MaxFeatures is set, a random subset of feature columns. rng is
never a package-global generator, so two Fit calls sharing a *rand.Rand
seed sequence are reproducible.
*/
func Fit(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, label string, cfg Config, rng *rand.Rand) (*Forest, error) {
	return fit(ctx, ds, atk, label, cfg, rng, func(ctx context.Context, bag *dataset.Dataset, features []int) (*tree.Tree, error) {
		return builder.Build(ctx, bag, atk, label, features, cfg.Config)
	})
}

/*
FitDistributed fits a forest the same way Fit does, except each tree is
grown with builder.BuildDistributed rather than builder.Build: newQueue
and newStore are called once per estimator (indices 0..cfg.Estimators-1)
to obtain the queue.Queue and tree.NodeStore that tree's node-growth
tasks flow through, which a caller can back with redisq/redisstore to
share the work with other worker processes.
*/
func FitDistributed(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, label string, cfg Config, rng *rand.Rand, newQueue func(estimator int) queue.Queue, newStore func(estimator int) tree.NodeStore) (*Forest, error) {
	e := 0
	return fit(ctx, ds, atk, label, cfg, rng, func(ctx context.Context, bag *dataset.Dataset, features []int) (*tree.Tree, error) {
		t, err := builder.BuildDistributed(ctx, bag, atk, label, features, cfg.Config, newQueue(e), newStore(e))
		e++
		return t, err
	})
}

func fit(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, label string, cfg Config, rng *rand.Rand, grow func(ctx context.Context, bag *dataset.Dataset, features []int) (*tree.Tree, error)) (*Forest, error) {
	if cfg.Estimators < 1 {
		return nil, terrors.NewConfigError("forest requires at least one estimator")
	}
	n := ds.Len()
	allFeatures := make([]int, len(ds.Features()))
	for i := range allFeatures {
		allFeatures[i] = i
	}

	f := &Forest{Trees: make([]*tree.Tree, cfg.Estimators)}
	for e := 0; e < cfg.Estimators; e++ {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = rng.Intn(n)
		}
		bag, err := bootstrap(ds, rows)
		if err != nil {
			return nil, err
		}
		features := sampleFeatures(allFeatures, cfg.MaxFeatures, rng)
		t, err := grow(ctx, bag, features)
		if err != nil {
			return nil, fmt.Errorf("fitting estimator %d: %w", e, err)
		}
		f.Trees[e] = t
	}
	return f, nil
}

/*
Predict routes rec through every tree and returns the mean of their
leaf predictions. An error from any one tree aborts the whole
prediction: a tree that cannot route a record is a malformed model,
not a runtime condition to recover from.
*/
func Predict(ctx context.Context, f *Forest, rec dataset.View) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, terrors.NewInvariantViolation("forest has no trees")
	}
	var sum float64
	for _, t := range f.Trees {
		p, err := t.Predict(ctx, rec)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return sum / float64(len(f.Trees)), nil
}

// Test reports the mean squared error of f's predictions over ds
// against its label column.
func Test(ctx context.Context, f *Forest, ds *dataset.Dataset) (float64, error) {
	if ds.Len() == 0 {
		return 0, nil
	}
	var sse float64
	for i := 0; i < ds.Len(); i++ {
		rec := ds.Record(i)
		p, err := Predict(ctx, f, rec)
		if err != nil {
			return 0, err
		}
		d := p - rec.Label()
		sse += d * d
	}
	return sse / float64(ds.Len()), nil
}

func sampleFeatures(all []int, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= len(all) {
		return all
	}
	shuffled := make([]int, len(all))
	copy(shuffled, all)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	subset := shuffled[:maxFeatures]
	sort.Ints(subset)
	return subset
}

func bootstrap(ds *dataset.Dataset, rows []int) (*dataset.Dataset, error) {
	features := ds.Features()
	cols := make([][]feature.Value, len(features))
	labels := make([]float64, len(rows))
	for k, i := range rows {
		for j := range features {
			cols[j] = append(cols[j], ds.Value(i, j))
		}
		labels[k] = ds.Label(i)
	}
	return dataset.New(features, cols, labels)
}
