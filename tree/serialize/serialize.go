/*
Package serialize writes and reads a tree.Tree as JSON, one object per
node in pre-order, matching the model-output contract: interior nodes
carry (feature index, split value, left id, right id), leaves carry a
prediction.
*/
package serialize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/tree"
)

type jsonValue struct {
	Num float64 `json:"n,omitempty"`
	Sym string  `json:"s,omitempty"`
	Cat bool    `json:"c,omitempty"`
}

func encodeValue(v feature.Value) jsonValue {
	if v.IsCategorical() {
		return jsonValue{Sym: v.String(), Cat: true}
	}
	return jsonValue{Num: v.Float()}
}

func decodeValue(v jsonValue) feature.Value {
	if v.Cat {
		return feature.Sym(v.Sym)
	}
	return feature.Num(v.Num)
}

type jsonNode struct {
	ID           string      `json:"id"`
	Interior     bool        `json:"interior"`
	Feature      int         `json:"feature,omitempty"`
	Numerical    bool        `json:"numerical,omitempty"`
	Value        jsonValue   `json:"value,omitempty"`
	UniqueValues []jsonValue `json:"uniqueValues,omitempty"`
	LeftID       string      `json:"leftId,omitempty"`
	RightID      string      `json:"rightId,omitempty"`
	Prediction   float64     `json:"prediction,omitempty"`
}

func encodeNode(n *tree.Node) jsonNode {
	jn := jsonNode{ID: n.ID, Interior: n.Interior, Prediction: n.Prediction}
	if n.Interior {
		jn.Feature = n.Feature
		jn.Numerical = n.Numerical
		jn.Value = encodeValue(n.Value)
		jn.LeftID = n.LeftID
		jn.RightID = n.RightID
		for _, v := range n.UniqueValues {
			jn.UniqueValues = append(jn.UniqueValues, encodeValue(v))
		}
	}
	return jn
}

func decodeNode(jn jsonNode) *tree.Node {
	n := &tree.Node{ID: jn.ID, Interior: jn.Interior, Prediction: jn.Prediction}
	if jn.Interior {
		n.Feature = jn.Feature
		n.Numerical = jn.Numerical
		n.Value = decodeValue(jn.Value)
		n.LeftID = jn.LeftID
		n.RightID = jn.RightID
		for _, v := range jn.UniqueValues {
			n.UniqueValues = append(n.UniqueValues, decodeValue(v))
		}
	}
	return n
}

type jsonTree struct {
	RootID string     `json:"rootID"`
	Label  string     `json:"label"`
	Nodes  []jsonNode `json:"nodes"`
}

// WriteJSON walks t pre-order and writes it to w as a single JSON
// document.
func WriteJSON(ctx context.Context, t *tree.Tree, w io.Writer) error {
	jt := jsonTree{RootID: t.RootID, Label: t.Label.Name()}
	err := t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		jt.Nodes = append(jt.Nodes, encodeNode(n))
		return nil
	})
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(jt)
}

// ReadJSON reads a document written by WriteJSON into a fresh
// in-memory tree.Tree, resolving Label against features.
func ReadJSON(ctx context.Context, r io.Reader, features []*feature.Feature) (*tree.Tree, error) {
	var jt jsonTree
	if err := json.NewDecoder(r).Decode(&jt); err != nil {
		return nil, fmt.Errorf("decoding tree: %w", err)
	}
	var label *feature.Feature
	for _, f := range features {
		if f.Name() == jt.Label {
			label = f
			break
		}
	}
	if label == nil {
		// The label column is never among a dataset's feature columns
		// (it's the target, not a predictor), so it won't be found above
		// in the common case; builder.Build and forest.Fit always give it
		// a Real feature, so reconstruct it the same way.
		label = feature.New(jt.Label, feature.Real)
	}
	store := tree.NewMemoryNodeStore()
	for _, jn := range jt.Nodes {
		if err := store.Store(ctx, decodeNode(jn)); err != nil {
			return nil, fmt.Errorf("decoding tree: storing node %s: %w", jn.ID, err)
		}
	}
	return tree.New(jt.RootID, store, label), nil
}
