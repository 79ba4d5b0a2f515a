package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

func TestNewRejectsColumnCountMismatch(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	_, err := New(features, nil, []float64{1})
	assert.Error(t, err)
}

func TestNewRejectsColumnLengthMismatch(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	columns := [][]feature.Value{{feature.Num(1), feature.Num(2)}}
	_, err := New(features, columns, []float64{1})
	assert.Error(t, err)
}

func TestRecordAndLabel(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real), feature.New("y", feature.Real)}
	columns := [][]feature.Value{{feature.Num(1), feature.Num(2)}, {feature.Num(10), feature.Num(20)}}
	ds, err := New(features, columns, []float64{100, 200})
	require.NoError(t, err)

	rec := ds.Record(1)
	assert.Equal(t, feature.Num(2), rec.Value(0))
	assert.Equal(t, feature.Num(20), rec.Value(1))
	assert.Equal(t, 200.0, rec.Label())
	assert.Equal(t, 1, rec.Index())
}

func TestFeatureIndex(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real), feature.New("y", feature.Real)}
	ds, err := New(features, [][]feature.Value{{feature.Num(1)}, {feature.Num(2)}}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.FeatureIndex("y"))
	assert.Equal(t, -1, ds.FeatureIndex("z"))
}

func TestOverlayReadsThroughExceptOverriddenColumn(t *testing.T) {
	row := NewRow([]feature.Value{feature.Num(1), feature.Num(2)}, 5)
	ov := WithValue(row, 1, feature.Num(99))
	assert.Equal(t, feature.Num(1), ov.Value(0))
	assert.Equal(t, feature.Num(99), ov.Value(1))
	assert.Equal(t, 5.0, ov.Label())
}

func TestReadColumnarParsesHeaderAndRows(t *testing.T) {
	features := strings.NewReader("BOOL INT DOUBLE\n1 3 2.5\n0 -1 0.0\n")
	labels := strings.NewReader("1\n0\n")
	ds, err := ReadColumnar(features, labels)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, feature.Num(1), ds.Value(0, 0))
	assert.Equal(t, feature.Num(3), ds.Value(0, 1))
	assert.Equal(t, feature.Num(2.5), ds.Value(0, 2))
	assert.Equal(t, 1.0, ds.Label(0))
}

func TestReadColumnarRejectsMismatchedLabelCount(t *testing.T) {
	features := strings.NewReader("DOUBLE\n1.0\n2.0\n")
	labels := strings.NewReader("1\n")
	_, err := ReadColumnar(features, labels)
	require.Error(t, err)
	var de *terrors.DataError
	assert.ErrorAs(t, err, &de)
}

func TestReadColumnarRejectsRowWithWrongFieldCount(t *testing.T) {
	features := strings.NewReader("DOUBLE DOUBLE\n1.0\n")
	labels := strings.NewReader("1\n")
	_, err := ReadColumnar(features, labels)
	require.Error(t, err)
	var de *terrors.DataError
	assert.ErrorAs(t, err, &de)
}

func TestReadColumnarFeaturesHasNoLabels(t *testing.T) {
	features := strings.NewReader("DOUBLE\n1.5\n2.5\n")
	parsed, rows, err := ReadColumnarFeatures(features)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, feature.Num(1.5), rows[0].Value(0))
}

func TestReadCSVResolvesLabelAndFeatureColumns(t *testing.T) {
	r := strings.NewReader("x,label,y\n1,9,a\n2,8,b\n")
	ds, err := ReadCSV(r, []feature.Kind{feature.Real, feature.Categorical}, "label")
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, feature.Num(1), ds.Record(0).Value(0))
	assert.Equal(t, feature.Sym("a"), ds.Record(0).Value(1))
	assert.Equal(t, 9.0, ds.Record(0).Label())
}

func TestReadCSVRejectsMissingLabelColumn(t *testing.T) {
	r := strings.NewReader("x,y\n1,2\n")
	_, err := ReadCSV(r, []feature.Kind{feature.Real}, "label")
	assert.Error(t, err)
}
