package dataset

import (
	"context"
	"database/sql"
	"fmt"

	// Registered for their side effect of adding a database/sql driver;
	// ReadSQL is driver-agnostic and dispatches on the *sql.DB the caller
	// opened with one of them.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

// Column names one query column and the Kind it should be read as.
type Column struct {
	Name string
	Kind feature.Kind
	// Categories lists the available symbols when Kind is Categorical.
	Categories []string
}

/*
ReadSQL runs "SELECT <columns>, <label> FROM <table>" against db and
materializes the result into a Dataset. db may be opened against
PostgreSQL (lib/pq) or SQLite3 (mattn/go-sqlite3); ReadSQL itself is
driver-agnostic.
*/
func ReadSQL(ctx context.Context, db *sql.DB, table string, columns []Column, label string) (*Dataset, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", selectList(columns, label), table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, terrors.WrapDataError(err, "querying "+table)
	}
	defer rows.Close()

	features := make([]*feature.Feature, len(columns))
	cols := make([][]feature.Value, len(columns))
	var labels []float64
	dest := make([]interface{}, len(columns)+1)
	raw := make([]sql.RawBytes, len(columns)+1)
	for i := range raw {
		dest[i] = &raw[i]
	}
	for j, c := range columns {
		if c.Kind == feature.Categorical {
			features[j] = feature.NewCategorical(c.Name, c.Categories)
		} else {
			features[j] = feature.New(c.Name, c.Kind)
		}
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, terrors.WrapDataError(err, "scanning row from "+table)
		}
		for j, c := range columns {
			v, err := sqlValue(c.Kind, string(raw[j]))
			if err != nil {
				return nil, terrors.WrapDataError(err, fmt.Sprintf("column %s", c.Name))
			}
			cols[j] = append(cols[j], v)
		}
		labelVal, err := sqlFloat(string(raw[len(columns)]))
		if err != nil {
			return nil, terrors.WrapDataError(err, "label column "+label)
		}
		labels = append(labels, labelVal)
	}
	if err := rows.Err(); err != nil {
		return nil, terrors.WrapDataError(err, "iterating "+table)
	}
	return New(features, cols, labels)
}

func selectList(columns []Column, label string) string {
	s := ""
	for i, c := range columns {
		if i > 0 {
			s += ", "
		}
		s += c.Name
	}
	return s + ", " + label
}

func sqlValue(k feature.Kind, s string) (feature.Value, error) {
	if k == feature.Categorical {
		return feature.Sym(s), nil
	}
	return sqlFloatValue(s)
}

func sqlFloatValue(s string) (feature.Value, error) {
	f, err := sqlFloat(s)
	if err != nil {
		return feature.Value{}, err
	}
	return feature.Num(f), nil
}

func sqlFloat(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err
}
