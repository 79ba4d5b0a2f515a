package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

/*
ReadCSV reads a CSV stream whose header row names its columns. kinds
must map 1:1 to the non-label columns in header order; label names the
column holding the target value. A "?" cell is read as the zero
feature.Value (numerical 0); Value has no separate undefined state.
Categorical features carry the symbols observed in their column.
*/
func ReadCSV(r io.Reader, kinds []feature.Kind, label string) (*Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, terrors.WrapDataError(err, "reading CSV header")
	}
	featureCols, labelCol, err := resolveCSVColumns(header, label, kinds)
	if err != nil {
		return nil, err
	}

	cols := make([][]feature.Value, len(featureCols))
	var labels []float64

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, terrors.WrapDataError(err, fmt.Sprintf("reading CSV line %d", line))
		}
		for i, fc := range featureCols {
			v, err := parseCSVValue(fc.kind, row[fc.index])
			if err != nil {
				return nil, terrors.WrapDataError(err, fmt.Sprintf("line %d column %s", line, fc.name))
			}
			cols[i] = append(cols[i], v)
		}
		labelVal, err := strconv.ParseFloat(row[labelCol], 64)
		if err != nil {
			return nil, terrors.WrapDataError(err, fmt.Sprintf("line %d label column %s", line, label))
		}
		labels = append(labels, labelVal)
	}
	features := make([]*feature.Feature, len(featureCols))
	for i, fc := range featureCols {
		if fc.kind != feature.Categorical {
			features[i] = feature.New(fc.name, fc.kind)
			continue
		}
		seen := make(map[string]bool)
		var categories []string
		for _, v := range cols[i] {
			if v.IsCategorical() && !seen[v.String()] {
				seen[v.String()] = true
				categories = append(categories, v.String())
			}
		}
		features[i] = feature.NewCategorical(fc.name, categories)
	}
	return New(features, cols, labels)
}

type csvColumn struct {
	name  string
	kind  feature.Kind
	index int
}

func resolveCSVColumns(header []string, label string, kinds []feature.Kind) ([]csvColumn, int, error) {
	var featureCols []csvColumn
	labelCol := -1
	ki := 0
	for i, name := range header {
		if name == label {
			labelCol = i
			continue
		}
		if ki >= len(kinds) {
			return nil, -1, terrors.NewDataError(fmt.Sprintf("CSV header names more feature columns than kinds given (%d)", len(kinds)))
		}
		featureCols = append(featureCols, csvColumn{name: name, kind: kinds[ki], index: i})
		ki++
	}
	if labelCol == -1 {
		return nil, -1, terrors.NewDataError(fmt.Sprintf("CSV header does not contain label column %q", label))
	}
	return featureCols, labelCol, nil
}

func parseCSVValue(k feature.Kind, s string) (feature.Value, error) {
	if s == "?" {
		return feature.Value{}, nil
	}
	if k == feature.Categorical {
		return feature.Sym(s), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return feature.Value{}, err
	}
	return feature.Num(f), nil
}
