package feature

import "fmt"

/*
Value is a tagged feature value: a float64 for Boolean/Integer/Real
columns (booleans as 0.0/1.0), a string symbol for Categorical columns.
Value is immutable and comparable with ==. The attacker's "no duplicate
records" dedup (spec.md §4.1) keys values by String(), and the discrete
split predicate compares symbols with EqualSymbol.
*/
type Value struct {
	num float64
	sym string
	cat bool
}

// Num returns a numerical Value.
func Num(v float64) Value { return Value{num: v} }

// Sym returns a categorical Value.
func Sym(v string) Value { return Value{sym: v, cat: true} }

// IsCategorical reports whether the value is a categorical symbol.
func (v Value) IsCategorical() bool { return v.cat }

// Float returns the numerical payload; it is meaningless if IsCategorical().
func (v Value) Float() float64 { return v.num }

// String returns the categorical symbol, or a decimal rendering of a
// numerical value if this Value is not categorical.
func (v Value) String() string {
	if v.cat {
		return v.sym
	}
	return fmt.Sprintf("%v", v.num)
}

// LessOrEqual implements the "<=" predicate used to route numerical splits.
func (v Value) LessOrEqual(threshold float64) bool {
	return v.num <= threshold
}

// EqualSymbol implements the "=" predicate used to route categorical splits.
func (v Value) EqualSymbol(s string) bool {
	return v.cat && v.sym == s
}
