package dataset

import (
	"fmt"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

/*
ReadMongo iterates every document of db.collection on session into a
Dataset, reading columns by name per the given Column descriptors and
label as the target field.
*/
func ReadMongo(session *mgo.Session, db, collection string, columns []Column, label string) (*Dataset, error) {
	features := make([]*feature.Feature, len(columns))
	cols := make([][]feature.Value, len(columns))
	for j, c := range columns {
		if c.Kind == feature.Categorical {
			features[j] = feature.NewCategorical(c.Name, c.Categories)
		} else {
			features[j] = feature.New(c.Name, c.Kind)
		}
	}
	var labels []float64

	iter := session.DB(db).C(collection).Find(nil).Iter()
	defer iter.Close()
	var doc bson.M
	for iter.Next(&doc) {
		for j, c := range columns {
			v, err := mongoValue(c.Kind, doc[c.Name])
			if err != nil {
				return nil, terrors.WrapDataError(err, fmt.Sprintf("document field %s", c.Name))
			}
			cols[j] = append(cols[j], v)
		}
		labelVal, err := mongoFloat(doc[label])
		if err != nil {
			return nil, terrors.WrapDataError(err, fmt.Sprintf("document label field %s", label))
		}
		labels = append(labels, labelVal)
	}
	if err := iter.Err(); err != nil {
		return nil, terrors.WrapDataError(err, fmt.Sprintf("iterating %s.%s", db, collection))
	}
	return New(features, cols, labels)
}

func mongoValue(k feature.Kind, raw interface{}) (feature.Value, error) {
	if raw == nil {
		return feature.Value{}, nil
	}
	if k == feature.Categorical {
		s, ok := raw.(string)
		if !ok {
			return feature.Value{}, fmt.Errorf("expected string, got %T", raw)
		}
		return feature.Sym(s), nil
	}
	f, err := mongoFloat(raw)
	if err != nil {
		return feature.Value{}, err
	}
	return feature.Num(f), nil
}

func mongoFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected mongo field type %T", raw)
	}
}
