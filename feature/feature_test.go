package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPanicsOnCategorical(t *testing.T) {
	assert.Panics(t, func() { New("x", Categorical) })
}

func TestNumericalKinds(t *testing.T) {
	assert.True(t, Boolean.Numerical())
	assert.True(t, Integer.Numerical())
	assert.True(t, Real.Numerical())
	assert.False(t, Categorical.Numerical())
}

func TestValidRejectsWrongType(t *testing.T) {
	f := New("x", Real)
	ok, err := f.Valid("not a number")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestValidAcceptsNil(t *testing.T) {
	f := New("x", Real)
	ok, err := f.Valid(nil)
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestValidCategoricalChecksMembership(t *testing.T) {
	f := NewCategorical("color", []string{"red", "blue"})
	ok, err := f.Valid("red")
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = f.Valid("green")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestValueLessOrEqualAndEqualSymbol(t *testing.T) {
	n := Num(5)
	assert.True(t, n.LessOrEqual(5))
	assert.False(t, n.LessOrEqual(4.9))

	s := Sym("red")
	assert.True(t, s.EqualSymbol("red"))
	assert.False(t, s.EqualSymbol("blue"))
	assert.True(t, s.IsCategorical())
}
