/*
Package dataset holds the in-memory columnar container that training
and prediction read from, plus the readers that populate it from the
native flat-file format, CSV, SQL and MongoDB.
*/
package dataset

import (
	"fmt"

	"github.com/FedericoMarcuzzi/TREANT/feature"
)

// Dataset is an immutable, columnar collection of records plus their
// labels. All ingestion backends converge on this representation before
// training starts; nothing reads lazily from a backend once Dataset is
// built.
type Dataset struct {
	features []*feature.Feature
	columns  []feature.Value
	labels   []float64
	n        int
}

// New builds a Dataset from column-major values. columns[j] must have
// exactly n entries for every j, matching len(labels).
func New(features []*feature.Feature, columns [][]feature.Value, labels []float64) (*Dataset, error) {
	n := len(labels)
	if len(columns) != len(features) {
		return nil, fmt.Errorf("dataset: %d feature columns for %d features", len(columns), len(features))
	}
	flat := make([]feature.Value, 0, len(features)*n)
	for j, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("dataset: column %s has %d values, labels have %d", features[j].Name(), len(col), n)
		}
		flat = append(flat, col...)
	}
	return &Dataset{features: features, columns: flat, labels: labels, n: n}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return d.n }

// Features returns the dataset's feature columns, in column order.
func (d *Dataset) Features() []*feature.Feature { return d.features }

// Label returns the label of record i.
func (d *Dataset) Label(i int) float64 { return d.labels[i] }

// Value returns the value of feature column j for record i.
func (d *Dataset) Value(i, j int) feature.Value { return d.columns[j*d.n+i] }

// Record returns a view over record i's values, in column order.
func (d *Dataset) Record(i int) Record {
	return Record{d: d, i: i}
}

// FeatureIndex returns the column index of the named feature, or -1.
func (d *Dataset) FeatureIndex(name string) int {
	for j, f := range d.features {
		if f.Name() == name {
			return j
		}
	}
	return -1
}

// Record is a row view over a Dataset; it does not copy the underlying
// values.
type Record struct {
	d *Dataset
	i int
}

// Value returns this record's value for feature column j.
func (r Record) Value(j int) feature.Value { return r.d.Value(r.i, j) }

// Label returns this record's label.
func (r Record) Label() float64 { return r.d.Label(r.i) }

// Index returns this record's row index within its Dataset.
func (r Record) Index() int { return r.i }

// View is satisfied by Record and by Overlay, so split and attacker code
// can operate on either a dataset row or a perturbed copy of one.
type View interface {
	Value(j int) feature.Value
	Label() float64
}

// Overlay is a View that reads through to a base View except for one
// overridden feature column, used to represent an attacker's
// perturbation of a single feature without copying the whole record.
type Overlay struct {
	base   View
	column int
	value  feature.Value
}

// WithValue returns a View identical to r except that feature column j
// reads as v.
func WithValue(base View, j int, v feature.Value) Overlay {
	return Overlay{base: base, column: j, value: v}
}

func (o Overlay) Value(j int) feature.Value {
	if j == o.column {
		return o.value
	}
	return o.base.Value(j)
}

func (o Overlay) Label() float64 { return o.base.Label() }

// Row is a detached, self-contained View over a snapshot of values: it
// holds no reference to a Dataset, so it survives encoding a record
// (e.g. the instance pinned inside a constraint.Constraint) across a
// process boundary.
type Row struct {
	values []feature.Value
	label  float64
}

// NewRow builds a Row from a snapshot of column values and a label.
func NewRow(values []feature.Value, label float64) Row {
	return Row{values: values, label: label}
}

func (r Row) Value(j int) feature.Value { return r.values[j] }
func (r Row) Label() float64            { return r.label }
