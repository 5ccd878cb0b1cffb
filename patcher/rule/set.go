package rule

import "fmt"

// Set is an ordered list of compiled rules; each rule sees the output of the previous one.
type Set []*Compiled

// NewSet compiles rules preserving their order.
func NewSet(rules ...Rule) (Set, error) {
	ret := make(Set, 0, len(rules))
	seen := map[string]bool{}
	for i, r := range rules {
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q at position %d", ErrInvalidRule, r.Name, i)
		}
		seen[r.Name] = true
		c, err := r.Compile()
		if err != nil {
			return nil, err
		}
		ret = append(ret, c)
	}
	return ret, nil
}

// Apply runs all rules in order and returns the final text with one outcome per rule.
func (s Set) Apply(text string) (string, []Outcome) {
	outcomes := make([]Outcome, 0, len(s))
	for _, c := range s {
		var o Outcome
		text, o = c.Apply(text)
		outcomes = append(outcomes, o)
	}
	return text, outcomes
}

// Rules returns the source definitions.
func (s Set) Rules() []Rule {
	ret := make([]Rule, 0, len(s))
	for _, c := range s {
		ret = append(ret, c.Rule)
	}
	return ret
}

// Unmatched returns names of rules that neither matched nor were guarded.
func Unmatched(outcomes []Outcome) []string {
	var ret []string
	for _, o := range outcomes {
		if !o.Matched && !o.Guarded {
			ret = append(ret, o.Name)
		}
	}
	return ret
}
