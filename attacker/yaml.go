package attacker

import (
	"fmt"
	"io"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/terrors"
)

type yamlRule struct {
	Precondition string      `yaml:"precondition"`
	Cost         float64     `yaml:"cost"`
	Set          interface{} `yaml:"set"`
}

type yamlDoc struct {
	Features map[string][]yamlRule `yaml:"features"`
}

/*
ParseRules reads a YAML document of the shape:

	features:
	  age:
	    - precondition: "<= 30"
	      cost: 1.0
	      set: 31

and returns the declared rules keyed by feature name. kinds names each
referenced feature's Kind, needed to parse its literals. Malformed
documents are surfaced as a ConfigError.
*/
func ParseRules(r io.Reader, kinds map[string]feature.Kind) (map[string][]Rule, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, terrors.WrapConfigError(err, "reading attacker rule file")
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, terrors.WrapConfigError(err, "parsing attacker rule YAML")
	}
	if doc.Features == nil {
		return nil, terrors.NewConfigError("attacker rule file has no features section")
	}
	result := make(map[string][]Rule)
	for name, yrs := range doc.Features {
		kind, ok := kinds[name]
		if !ok {
			return nil, terrors.NewConfigError(fmt.Sprintf("attacker rules reference unknown feature %q", name))
		}
		rules := make([]Rule, 0, len(yrs))
		for _, yr := range yrs {
			cmp, pre, err := ParsePrecondition(yr.Precondition, kind)
			if err != nil {
				return nil, terrors.WrapConfigError(err, fmt.Sprintf("feature %s rule", name))
			}
			setVal, err := literalValue(fmt.Sprintf("%v", yr.Set), kind)
			if err != nil {
				return nil, terrors.WrapConfigError(err, fmt.Sprintf("feature %s rule set value", name))
			}
			if yr.Cost < 0 {
				return nil, terrors.NewConfigError(fmt.Sprintf("feature %s rule has negative cost %v", name, yr.Cost))
			}
			rules = append(rules, Rule{Comparator: cmp, Precondition: pre, Set: setVal, Cost: yr.Cost})
		}
		result[name] = rules
	}
	return result, nil
}
