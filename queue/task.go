package queue

import (
	"fmt"

	"github.com/FedericoMarcuzzi/TREANT/constraint"
)

/*
Task represents one tree node awaiting growth: the row indices and
feature columns it may split on, the residual adversarial budget per
row, and the constraints inherited from its ancestors. NodeID is the
ID of a placeholder node already reserved in the tree's NodeStore;
whichever worker completes this task fills that node in (as a leaf or
as an interior node with two freshly reserved children) and calls
Queue.Complete.
*/
type Task struct {
	NodeID       string
	Depth        int
	Instances    []int
	Features     []int
	Cost         map[int]float64
	Constraints  []constraint.Constraint
	Prediction   float64
	Loss         float64
}

// ID returns the ID of the placeholder node this task will fill in.
func (t *Task) ID() string {
	return t.NodeID
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s depth:%d instances:%d}", t.NodeID, t.Depth, len(t.Instances))
}
