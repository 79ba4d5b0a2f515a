package attacker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FedericoMarcuzzi/TREANT/feature"
)

// Comparator is the operator of a rule's precondition.
type Comparator int

const (
	Eq Comparator = iota
	Ne
	Le
	Ge
	Lt
	Gt
)

func parseComparator(op string) (Comparator, error) {
	switch op {
	case "==":
		return Eq, nil
	case "!=":
		return Ne, nil
	case "<=":
		return Le, nil
	case ">=":
		return Ge, nil
	case "<":
		return Lt, nil
	case ">":
		return Gt, nil
	default:
		return 0, fmt.Errorf("unknown comparator %q", op)
	}
}

// Rule is one declared perturbation for a feature: it fires when the
// current value satisfies the precondition, and costs Cost to apply,
// replacing the value with Set.
type Rule struct {
	Comparator  Comparator
	Precondition feature.Value
	Set         feature.Value
	Cost        float64
}

// Matches reports whether v satisfies the rule's precondition.
func (r Rule) Matches(v feature.Value) bool {
	if v.IsCategorical() || r.Precondition.IsCategorical() {
		eq := v.EqualSymbol(r.Precondition.String())
		switch r.Comparator {
		case Eq:
			return eq
		case Ne:
			return !eq
		default:
			return false
		}
	}
	a, b := v.Float(), r.Precondition.Float()
	switch r.Comparator {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Le:
		return a <= b
	case Ge:
		return a >= b
	case Lt:
		return a < b
	case Gt:
		return a > b
	}
	return false
}

// ParsePrecondition splits a precondition string like "<= 30" into its
// comparator and literal, read as a number or, for a Categorical kind,
// as a symbol.
func ParsePrecondition(s string, kind feature.Kind) (Comparator, feature.Value, error) {
	s = strings.TrimSpace(s)
	var op, lit string
	for _, candidate := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(s, candidate) {
			op = candidate
			lit = strings.TrimSpace(s[len(candidate):])
			break
		}
	}
	if op == "" {
		return 0, feature.Value{}, fmt.Errorf("precondition %q has no recognized comparator", s)
	}
	cmp, err := parseComparator(op)
	if err != nil {
		return 0, feature.Value{}, err
	}
	v, err := literalValue(lit, kind)
	if err != nil {
		return 0, feature.Value{}, fmt.Errorf("precondition %q: %w", s, err)
	}
	return cmp, v, nil
}

func literalValue(lit string, kind feature.Kind) (feature.Value, error) {
	if kind == feature.Categorical {
		return feature.Sym(lit), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return feature.Value{}, fmt.Errorf("parsing %q as number: %w", lit, err)
	}
	return feature.Num(f), nil
}
