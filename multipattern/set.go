// Package multipattern runs a set of compiled minre rules over one subject
// buffer, the way an inspection pipeline scans a decoded payload against
// many signatures at once. Rules may declare literal hints; an Aho-Corasick
// automaton over all hints decides which rules are worth running at all
// before the backtracking engine is invoked.
package multipattern

import (
	"fmt"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"github.com/minre/minre"
)

// Rule is one named pattern. Hints are literal substrings, at least one of
// which must occur in the subject for the pattern to possibly match; a rule
// with no hints is always tried.
type Rule struct {
	Name    string
	Expr    string
	Hints   []string
	Options minre.RegexOptions
}

// RuleMatch pairs a rule name with the match its pattern produced.
type RuleMatch struct {
	Rule  string
	Match *minre.Match
}

type compiledRule struct {
	name string
	re   *minre.Regexp
}

// Set holds compiled rules plus the hint automaton. A Set is immutable
// after NewSet and safe for concurrent Scan calls.
type Set struct {
	rules    []compiledRule
	always   []int // indices of rules with no hints
	hintRule []int // automaton pattern index -> rule index
	ac       *ac.AhoCorasick
}

// NewSet compiles every rule up front and builds the hint automaton.
// A rule that fails to compile fails the whole set.
func NewSet(rules ...Rule) (*Set, error) {
	s := &Set{}

	var hints []string
	for i, r := range rules {
		re, err := minre.Compile(r.Expr, r.Options)
		if err != nil {
			return nil, fmt.Errorf("multipattern: rule %q: %w", r.Name, err)
		}
		s.rules = append(s.rules, compiledRule{name: r.Name, re: re})

		if len(r.Hints) == 0 {
			s.always = append(s.always, i)
			continue
		}
		for _, h := range r.Hints {
			hints = append(hints, h)
			s.hintRule = append(s.hintRule, i)
		}
	}

	if len(hints) > 0 {
		// case-insensitive hint matching over-approximates: a spurious
		// candidate just costs one engine run, a missed one loses a match
		builder := ac.NewAhoCorasickBuilder(ac.Opts{
			AsciiCaseInsensitive: true,
			MatchKind:            ac.LeftMostLongestMatch,
		})
		automaton := builder.Build(hints)
		s.ac = &automaton
	}

	return s, nil
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	return len(s.rules)
}

// Scan prefilters subject against the hint automaton and runs the engine
// for every candidate rule, in rule order. Rules that do not match are
// skipped; engine errors (budget exhaustion) abort the scan.
func (s *Set) Scan(subject []byte) ([]RuleMatch, error) {
	candidate := make([]bool, len(s.rules))
	for _, i := range s.always {
		candidate[i] = true
	}
	if s.ac != nil {
		for _, hit := range s.ac.FindAll(string(subject)) {
			candidate[s.hintRule[hit.Pattern()]] = true
		}
	}

	var out []RuleMatch
	for i, cr := range s.rules {
		if !candidate[i] {
			continue
		}
		m, err := cr.re.FindMatch(subject)
		if err != nil {
			return nil, fmt.Errorf("multipattern: rule %q: %w", cr.name, err)
		}
		if m != nil {
			out = append(out, RuleMatch{Rule: cr.name, Match: m})
		}
	}
	return out, nil
}
