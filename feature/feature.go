// Package feature describes the typed columns of a training dataset:
// their kind, name, and (for categorical columns) the closed set of
// symbols they may take.
package feature

import "fmt"

/*
Kind identifies the type tag of a feature column. It is a closed set of
variants dispatched on with a type switch rather than an open class
hierarchy: boolean and integer columns behave like real columns for
routing purposes (numerical, "<=" splits) but are kept distinct so
ingestion and validation can enforce their narrower domains.
*/
type Kind int

const (
	// Boolean columns take only 0/1 (also accepted as true/false on input).
	Boolean Kind = iota
	// Integer columns take whole numbers.
	Integer
	// Real columns take arbitrary float64 values.
	Real
	// Categorical columns take one of a fixed set of string symbols.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "BOOL"
	case Integer:
		return "INT"
	case Real:
		return "DOUBLE"
	case Categorical:
		return "CATEGORICAL"
	default:
		return "UNKNOWN"
	}
}

// Numerical reports whether the kind is routed with a "<=" split, as
// opposed to an equality split.
func (k Kind) Numerical() bool {
	return k == Boolean || k == Integer || k == Real
}

/*
Feature names one column of a Dataset and its Kind. Categorical features
additionally carry the set of symbols observed for them at ingestion,
used to validate values and to enumerate discrete split candidates.
*/
type Feature struct {
	name       string
	kind       Kind
	categories []string
}

// New returns a numerical (Boolean, Integer or Real) feature.
func New(name string, kind Kind) *Feature {
	if kind == Categorical {
		panic("feature: New called with Categorical kind, use NewCategorical")
	}
	return &Feature{name: name, kind: kind}
}

// NewCategorical returns a Categorical feature with the given available symbols.
func NewCategorical(name string, categories []string) *Feature {
	return &Feature{name: name, kind: Categorical, categories: categories}
}

// Name returns the column's name.
func (f *Feature) Name() string { return f.name }

// Kind returns the column's type tag.
func (f *Feature) Kind() Kind { return f.kind }

// Categories returns the available symbols for a Categorical feature, or
// nil for a numerical one.
func (f *Feature) Categories() []string { return f.categories }

// Valid reports whether v is an acceptable value for the feature: a
// float64 for numerical kinds, one of Categories() for Categorical.
func (f *Feature) Valid(v interface{}) (bool, error) {
	if v == nil {
		return true, nil
	}
	switch f.kind {
	case Boolean, Integer, Real:
		if _, ok := v.(float64); !ok {
			return false, fmt.Errorf("feature %s expects float64, got %T", f.name, v)
		}
		return true, nil
	case Categorical:
		s, ok := v.(string)
		if !ok {
			return false, fmt.Errorf("feature %s expects string, got %T", f.name, v)
		}
		for _, c := range f.categories {
			if c == s {
				return true, nil
			}
		}
		return false, fmt.Errorf("feature %s: unknown category %q", f.name, s)
	}
	return false, fmt.Errorf("feature %s: unhandled kind %v", f.name, f.kind)
}

func (f *Feature) String() string { return f.name }
