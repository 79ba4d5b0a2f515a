package tree

import (
	"context"
	"fmt"

	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
)

// Tree is a regression tree: a NodeStore holding all its nodes, the ID
// of its root, and the feature it predicts.
type Tree struct {
	NodeStore
	RootID string
	Label  *feature.Feature
}

// New returns a tree over nodeStore rooted at rootID, predicting label.
func New(rootID string, nodeStore NodeStore, label *feature.Feature) *Tree {
	return &Tree{nodeStore, rootID, label}
}

// Predict routes rec from the root to a leaf and returns its
// prediction.
func (t *Tree) Predict(ctx context.Context, rec dataset.View) (float64, error) {
	if t == nil {
		return 0, fmt.Errorf("nil tree cannot predict")
	}
	n, err := t.Get(ctx, t.RootID)
	if err != nil {
		return 0, fmt.Errorf("predicting: retrieving root %v: %w", t.RootID, err)
	}
	if n == nil {
		return 0, fmt.Errorf("predicting: root node %v not found", t.RootID)
	}
	for n.Interior {
		id := n.RightID
		if n.Route(rec.Value(n.Feature)) {
			id = n.LeftID
		}
		n, err = t.Get(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("predicting: retrieving node %v: %w", id, err)
		}
		if n == nil {
			return 0, fmt.Errorf("predicting: node %v not found", id)
		}
	}
	return n.Prediction, nil
}

// Test reports the mean squared error of the tree's predictions over
// ds against its label column.
func (t *Tree) Test(ctx context.Context, ds *dataset.Dataset) (float64, error) {
	if t == nil || ds.Len() == 0 {
		return 0, nil
	}
	var sse float64
	for i := 0; i < ds.Len(); i++ {
		rec := ds.Record(i)
		p, err := t.Predict(ctx, rec)
		if err != nil {
			return 0, err
		}
		d := p - rec.Label()
		sse += d * d
	}
	return sse / float64(ds.Len()), nil
}

/*
Traverse visits every node reachable from the root. It calls f before
descending into children if bottomup is false, after if true. A
context error, a node-store error, or an error from f aborts the walk.
*/
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.NodeStore.Get(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bottomup {
		if err := f(ctx, n); err != nil {
			return err
		}
	}
	if n.Interior {
		for _, id := range []string{n.LeftID, n.RightID} {
			child, err := t.NodeStore.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := t.traverse(ctx, child, bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		if err := f(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID, "")
}

func (t *Tree) subtreeString(nodeID, indent string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err)
	}
	if !n.Interior {
		return fmt.Sprintf("%s[%s] leaf %v\n", indent, nodeID, n.Prediction)
	}
	op := "="
	if n.Numerical {
		op = "<="
	}
	s := fmt.Sprintf("%s[%s] col%d %s %v\n", indent, nodeID, n.Feature, op, n.Value)
	s += t.subtreeString(n.LeftID, indent+"  ")
	s += t.subtreeString(n.RightID, indent+"  ")
	return s
}
