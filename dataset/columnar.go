package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

/*
ReadColumnar reads the native whitespace-columnar format: featureReader's
first line is a header of BOOL/INT/DOUBLE tokens naming each column's
kind, one token per column; each following line holds one whitespace-
separated value per column. labelReader holds one float label per line,
and must have as many lines as featureReader has data rows.

Columns are named col0, col1, ... in header order; this format carries
no feature names, only kinds.
*/
func ReadColumnar(featureReader, labelReader io.Reader) (*Dataset, error) {
	fs := bufio.NewScanner(featureReader)
	if !fs.Scan() {
		return nil, terrors.NewDataError("reading columnar header: empty feature file")
	}
	kinds, err := parseColumnarHeader(fs.Text())
	if err != nil {
		return nil, err
	}
	columns := make([][]feature.Value, len(kinds))
	for fs.Scan() {
		line := strings.TrimSpace(fs.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) != len(kinds) {
			return nil, terrors.NewDataError(fmt.Sprintf("columnar row has %d fields, header declares %d", len(tokens), len(kinds)))
		}
		for j, tok := range tokens {
			v, err := parseColumnarToken(kinds[j], tok)
			if err != nil {
				return nil, terrors.NewDataError(fmt.Sprintf("parsing column %d value %q: %v", j, tok, err))
			}
			columns[j] = append(columns[j], v)
		}
	}
	if err := fs.Err(); err != nil {
		return nil, terrors.NewDataError(fmt.Sprintf("reading feature file: %v", err))
	}
	n := 0
	if len(columns) > 0 {
		n = len(columns[0])
	}

	labels, err := readLabels(labelReader)
	if err != nil {
		return nil, err
	}
	if len(labels) != n {
		return nil, terrors.NewDataError(fmt.Sprintf("label count %d does not match record count %d", len(labels), n))
	}

	features := make([]*feature.Feature, len(kinds))
	for j, k := range kinds {
		features[j] = feature.New(fmt.Sprintf("col%d", j), k)
	}
	return New(features, columns, labels)
}

/*
ReadColumnarFeatures reads only the native whitespace-columnar feature
file (no sibling label file), for contexts such as prediction where
ground-truth labels aren't available. It returns the parsed features
alongside one Row per record.
*/
func ReadColumnarFeatures(featureReader io.Reader) ([]*feature.Feature, []Row, error) {
	fs := bufio.NewScanner(featureReader)
	if !fs.Scan() {
		return nil, nil, terrors.NewDataError("reading columnar header: empty feature file")
	}
	kinds, err := parseColumnarHeader(fs.Text())
	if err != nil {
		return nil, nil, err
	}
	var rows []Row
	for fs.Scan() {
		line := strings.TrimSpace(fs.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) != len(kinds) {
			return nil, nil, terrors.NewDataError(fmt.Sprintf("columnar row has %d fields, header declares %d", len(tokens), len(kinds)))
		}
		values := make([]feature.Value, len(kinds))
		for j, tok := range tokens {
			v, err := parseColumnarToken(kinds[j], tok)
			if err != nil {
				return nil, nil, terrors.NewDataError(fmt.Sprintf("parsing column %d value %q: %v", j, tok, err))
			}
			values[j] = v
		}
		rows = append(rows, NewRow(values, 0))
	}
	if err := fs.Err(); err != nil {
		return nil, nil, terrors.NewDataError(fmt.Sprintf("reading feature file: %v", err))
	}
	features := make([]*feature.Feature, len(kinds))
	for j, k := range kinds {
		features[j] = feature.New(fmt.Sprintf("col%d", j), k)
	}
	return features, rows, nil
}

func parseColumnarHeader(line string) ([]feature.Kind, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, terrors.NewDataError("columnar header has no type tokens")
	}
	kinds := make([]feature.Kind, len(tokens))
	for i, t := range tokens {
		switch t {
		case "BOOL":
			kinds[i] = feature.Boolean
		case "INT":
			kinds[i] = feature.Integer
		case "DOUBLE":
			kinds[i] = feature.Real
		default:
			return nil, terrors.NewDataError(fmt.Sprintf("unrecognized column type %q", t))
		}
	}
	return kinds, nil
}

func parseColumnarToken(k feature.Kind, tok string) (feature.Value, error) {
	switch k {
	case feature.Boolean:
		switch tok {
		case "0", "false":
			return feature.Num(0), nil
		case "1", "true":
			return feature.Num(1), nil
		default:
			return feature.Value{}, fmt.Errorf("boolean feature can only be 0, 1, true or false")
		}
	case feature.Integer:
		v, err := strconv.Atoi(tok)
		if err != nil {
			return feature.Value{}, err
		}
		return feature.Num(float64(v)), nil
	case feature.Real:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return feature.Value{}, err
		}
		return feature.Num(v), nil
	}
	return feature.Value{}, fmt.Errorf("unhandled kind %v", k)
}

func readLabels(r io.Reader) ([]float64, error) {
	var labels []float64
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, terrors.NewDataError(fmt.Sprintf("parsing label %q: %v", line, err))
		}
		labels = append(labels, v)
	}
	if err := sc.Err(); err != nil {
		return nil, terrors.NewDataError(fmt.Sprintf("reading label file: %v", err))
	}
	return labels, nil
}
