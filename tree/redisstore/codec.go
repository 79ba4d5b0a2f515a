package redisstore

import (
	"encoding/json"
	"fmt"

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
	Interior     bool        `json:"interior,omitempty"`
	Feature      int         `json:"feature,omitempty"`
	Numerical    bool        `json:"numerical,omitempty"`
	Value        jsonValue   `json:"value,omitempty"`
	UniqueValues []jsonValue `json:"uniqueValues,omitempty"`
	LeftID       string      `json:"leftId,omitempty"`
	RightID      string      `json:"rightId,omitempty"`
	Prediction   float64     `json:"prediction,omitempty"`
}

type jsonNodeEncodeDecoder struct{}

// NewJSONNodeEncodeDecoder returns a NodeEncodeDecoder that marshals
// tree.Node values as JSON.
func NewJSONNodeEncodeDecoder() NodeEncodeDecoder {
	return jsonNodeEncodeDecoder{}
}

func (jsonNodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &jsonNode{
		ID:         n.ID,
		Interior:   n.Interior,
		Feature:    n.Feature,
		Numerical:  n.Numerical,
		Value:      encodeValue(n.Value),
		LeftID:     n.LeftID,
		RightID:    n.RightID,
		Prediction: n.Prediction,
	}
	for _, v := range n.UniqueValues {
		jn.UniqueValues = append(jn.UniqueValues, encodeValue(v))
	}
	data, err := json.Marshal(jn)
	if err != nil {
		return nil, fmt.Errorf("encoding node %s as json: %v", n.ID, err)
	}
	return data, nil
}

func (jsonNodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &jsonNode{}
	if err := json.Unmarshal(data, jn); err != nil {
		return nil, fmt.Errorf("decoding node from json: %v", err)
	}
	n := &tree.Node{
		ID:         jn.ID,
		Interior:   jn.Interior,
		Feature:    jn.Feature,
		Numerical:  jn.Numerical,
		Value:      decodeValue(jn.Value),
		LeftID:     jn.LeftID,
		RightID:    jn.RightID,
		Prediction: jn.Prediction,
	}
	for _, v := range jn.UniqueValues {
		n.UniqueValues = append(n.UniqueValues, decodeValue(v))
	}
	return n, nil
}
