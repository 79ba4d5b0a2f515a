/*
Package json encodes and decodes queue.Task values as JSON, so a
redis-backed queue.Queue can move tasks between worker processes.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FedericoMarcuzzi/TREANT/constraint"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/queue"
)

// TaskEncodeDecoder is an interface for objects that allow encoding
// tasks as slices of bytes and decoding them back. It is used to
// serialize tasks into a representation to store on redis.
type TaskEncodeDecoder interface {
	Encode(context.Context, *queue.Task) ([]byte, error)
	Decode(context.Context, []byte) (*queue.Task, error)
}

type taskEncodeDecoder struct {
	nFeatures int
}

// New returns a TaskEncodeDecoder for tasks over a dataset with
// nFeatures feature columns.
func New(nFeatures int) TaskEncodeDecoder {
	return &taskEncodeDecoder{nFeatures: nFeatures}
}

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

type jsonConstraint struct {
	Row          []jsonValue `json:"row"`
	Label        float64     `json:"label"`
	ResidualCost float64     `json:"residualCost"`
	Inequality   bool        `json:"inequality"`
	Bound        float64     `json:"bound"`
	Direction    int         `json:"direction"`
}

type jsonTask struct {
	NodeID      string           `json:"id"`
	Depth       int              `json:"depth"`
	Instances   []int            `json:"instances"`
	Features    []int            `json:"features"`
	Cost        map[int]float64  `json:"cost"`
	Constraints []jsonConstraint `json:"constraints"`
	Prediction  float64          `json:"prediction"`
	Loss        float64          `json:"loss"`
}

func (ted *taskEncodeDecoder) Encode(ctx context.Context, t *queue.Task) ([]byte, error) {
	jt := &jsonTask{
		NodeID: t.ID(), Depth: t.Depth, Instances: t.Instances, Features: t.Features,
		Cost: t.Cost, Prediction: t.Prediction, Loss: t.Loss,
	}
	for _, c := range t.Constraints {
		jc := jsonConstraint{
			Label: c.Label, ResidualCost: c.ResidualCost, Inequality: c.Inequality,
			Bound: c.Bound, Direction: int(c.Direction),
		}
		for j := 0; j < ted.nFeatures; j++ {
			jc.Row = append(jc.Row, encodeValue(c.Record.Value(j)))
		}
		jt.Constraints = append(jt.Constraints, jc)
	}
	data, err := json.Marshal(jt)
	if err != nil {
		return nil, fmt.Errorf("encoding task %s as json: %v", t.ID(), err)
	}
	return data, nil
}

func (ted *taskEncodeDecoder) Decode(ctx context.Context, data []byte) (*queue.Task, error) {
	jt := &jsonTask{}
	if err := json.Unmarshal(data, jt); err != nil {
		return nil, fmt.Errorf("decoding task from json: %v", err)
	}
	t := &queue.Task{
		NodeID: jt.NodeID, Depth: jt.Depth, Instances: jt.Instances, Features: jt.Features,
		Cost: jt.Cost, Prediction: jt.Prediction, Loss: jt.Loss,
	}
	for _, jc := range jt.Constraints {
		values := make([]feature.Value, len(jc.Row))
		for j, jv := range jc.Row {
			values[j] = decodeValue(jv)
		}
		row := dataset.NewRow(values, jc.Label)
		t.Constraints = append(t.Constraints, constraint.New(row, jc.Label, jc.ResidualCost, jc.Inequality, jc.Bound, constraint.Direction(jc.Direction)))
	}
	return t, nil
}
