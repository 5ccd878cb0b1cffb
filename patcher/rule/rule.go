package rule

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRule is returned when a rule cannot be compiled.
var ErrInvalidRule = errors.New("invalid rule")

// dotAll mirrors multi-line matching: patterns see the whole file and '.' spans newlines.
const dotAll = "(?s)"

// Rule is a single (pattern, replacement) unit applied to the source text.
type Rule struct {
	Name        string `json:"name" yaml:"name" description:"rule name"`
	Pattern     string `json:"pattern" yaml:"pattern" description:"RE2 pattern, matched in dot-all mode"`
	Replacement string `json:"replacement" yaml:"replacement" description:"replacement template (${1} expands group 1) or literal text"`
	// Literal inserts Replacement verbatim, without group expansion.
	Literal bool `json:"literal,omitempty" yaml:"literal,omitempty"`
	// Guard is matched at the start of each match; a match it covers is already applied and is left as is.
	Guard string `json:"guard,omitempty" yaml:"guard,omitempty"`
}

// Outcome reports what a rule did to the text.
type Outcome struct {
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
	Count   int    `json:"count,omitempty"`
	Guarded bool   `json:"guarded,omitempty"`
}

// Compiled is a rule with its patterns ready for matching.
type Compiled struct {
	Rule
	re    *regexp.Regexp
	guard *regexp.Regexp
}

// Compile validates the rule and compiles its patterns.
func (r Rule) Compile() (*Compiled, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if r.Pattern == "" {
		return nil, fmt.Errorf("%w: %s: pattern is required", ErrInvalidRule, r.Name)
	}
	re, err := regexp.Compile(dotAll + r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRule, r.Name, err)
	}
	ret := &Compiled{Rule: r, re: re}
	if r.Guard != "" {
		if ret.guard, err = regexp.Compile(dotAll + `\A(?:` + r.Guard + ")"); err != nil {
			return nil, fmt.Errorf("%w: %s: guard: %v", ErrInvalidRule, r.Name, err)
		}
	}
	return ret, nil
}

// MustCompile is like Compile but panics on error; used for built-in rules.
func (r Rule) MustCompile() *Compiled {
	c, err := r.Compile()
	if err != nil {
		panic(err)
	}
	return c
}

// Apply replaces every non-overlapping match of the rule in text, except matches the guard covers.
// A rule that does not match returns text unchanged with Matched=false.
func (c *Compiled) Apply(text string) (string, Outcome) {
	out := Outcome{Name: c.Name}
	locs := c.re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, out
	}
	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		if c.guard != nil && c.guard.MatchString(text[loc[0]:]) {
			out.Guarded = true
			continue
		}
		sb.WriteString(text[last:loc[0]])
		if c.Literal {
			sb.WriteString(c.Replacement)
		} else {
			sb.Write(c.re.ExpandString(nil, c.Replacement, text, loc))
		}
		last = loc[1]
		out.Count++
	}
	if out.Count == 0 {
		return text, out
	}
	out.Matched = true
	sb.WriteString(text[last:])
	return sb.String(), out
}
