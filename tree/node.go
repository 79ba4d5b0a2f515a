package tree

import "github.com/FedericoMarcuzzi/TREANT/feature"

/*
Node is a tagged-union node of a Tree: an interior node routes on
(Feature, Value) to LeftID or RightID, a leaf carries a single
Prediction. Interior distinguishes the two variants rather than an
open class hierarchy; the routing predicate lives entirely in Route.
*/
type Node struct {
	ID       string
	Interior bool

	// Interior fields.
	Feature      int
	Numerical    bool
	Value        feature.Value
	UniqueValues []feature.Value
	LeftID       string
	RightID      string

	// Leaf field.
	Prediction float64
}

// Route reports whether v routes to the left child of an interior node.
func (n *Node) Route(v feature.Value) bool {
	if n.Numerical {
		return v.LessOrEqual(n.Value.Float())
	}
	return v.EqualSymbol(n.Value.String())
}
