package builder

import (
	"context"
	"sync"
	"time"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/queue"
	"github.com/FedericoMarcuzzi/TREANT/split"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
	"github.com/FedericoMarcuzzi/TREANT/tree"
)

const pullBackoff = 5 * time.Millisecond

/*
BuildDistributed grows one tree the same way Build does, except that
node-growth work is handed off through q rather than recursed into
directly: each node reserves a placeholder in store, is pushed onto q
as a Task, and is picked up by one of cfg.Workers goroutines (which may,
with a queue.Queue backed by redisq, be pulling from a different
process entirely). Use this over Build when q is shared across
processes; for a single-process run Build's direct recursion is
simpler and does the same work.
*/
func BuildDistributed(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, label string, features []int, cfg Config, q queue.Queue, store tree.NodeStore) (*tree.Tree, error) {
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

	root := &tree.Node{Prediction: prediction}
	if err := store.Create(ctx, root); err != nil {
		return nil, err
	}
	if err := q.Push(ctx, &queue.Task{
		NodeID: root.ID, Instances: instances, Features: features,
		Cost: cost, Prediction: prediction, Loss: loss,
	}); err != nil {
		return nil, err
	}

	if err := runWorkers(ctx, ds, atk, cfg, q, store); err != nil {
		return nil, err
	}
	return tree.New(root.ID, store, feature.New(label, feature.Real)), nil
}

func runWorkers(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, cfg Config, q queue.Queue, store tree.NodeStore) error {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	go func() {
		queue.WaitFor(ctx, q)
		cancelWorkers()
	}()

	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := worker(workerCtx, ds, atk, cfg, q, store); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

func worker(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, cfg Config, q queue.Queue, store tree.NodeStore) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		task, tctx, cancel, err := q.Pull(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if task == nil {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pullBackoff):
			}
			continue
		}
		err = processTask(tctx, ds, atk, cfg, q, store, task)
		cancel()
		if err != nil {
			q.Drop(ctx, task.ID())
			return err
		}
		if err := q.Complete(ctx, task.ID()); err != nil {
			return err
		}
	}
}

func processTask(ctx context.Context, ds *dataset.Dataset, atk *attacker.Attacker, cfg Config, q queue.Queue, store tree.NodeStore, t *queue.Task) error {
	if len(t.Instances) == 0 {
		return terrors.NewInvariantViolation("node entered with empty instance set at depth %d", t.Depth)
	}

	var best *split.Result
	if t.Depth < cfg.MaxDepth && len(t.Instances) >= cfg.MinPerNode {
		best = split.FindBestSplit(ds, t.Instances, t.Features, atk, t.Cost, t.Constraints, t.Loss, t.Prediction, cfg.Workers)
	}
	if best == nil {
		leaf := &tree.Node{ID: t.NodeID, Prediction: meanLabel(ds, t.Instances)}
		return store.Store(ctx, leaf)
	}
	if len(best.L) == 0 || len(best.R) == 0 {
		return terrors.NewInvariantViolation("split on feature %d value %v produced an empty child", best.Feature, best.Value)
	}

	left := &tree.Node{Prediction: best.YLeft}
	if err := store.Create(ctx, left); err != nil {
		return err
	}
	right := &tree.Node{Prediction: best.YRight}
	if err := store.Create(ctx, right); err != nil {
		return err
	}

	numerical := ds.Features()[best.Feature].Kind().Numerical()
	interior := &tree.Node{
		ID: t.NodeID, Interior: true, Feature: best.Feature, Numerical: numerical, Value: best.Value,
		UniqueValues: split.UniqueValues(ds, t.Instances, best.Feature),
		LeftID:       left.ID,
		RightID:      right.ID,
	}
	if err := store.Store(ctx, interior); err != nil {
		return err
	}

	if err := q.Push(ctx, &queue.Task{
		NodeID: left.ID, Depth: t.Depth + 1, Instances: best.L, Features: t.Features,
		Cost: best.CostLeft, Constraints: best.ConstraintsLeft, Prediction: best.YLeft, Loss: sse(ds, best.L, best.YLeft),
	}); err != nil {
		return err
	}
	return q.Push(ctx, &queue.Task{
		NodeID: right.ID, Depth: t.Depth + 1, Instances: best.R, Features: t.Features,
		Cost: best.CostRight, Constraints: best.ConstraintsRight, Prediction: best.YRight, Loss: sse(ds, best.R, best.YRight),
	})
}
