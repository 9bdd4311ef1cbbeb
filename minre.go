/*
Package minre is a compact, embeddable pattern matching engine over byte
buffers. It evaluates a restricted regular expression dialect: literals,
the metacharacters . ^ $ * + ? | ( ) [ ] \, the escapes \s \S \d \b \f \n
\r \t \v and \xHH byte literals, bracket sets with ranges and negation,
greedy and non-greedy quantifiers, alternation and capturing groups.
Nothing beyond that: no lookaround, no named groups, no Unicode classes.

Matching is byte-oriented backtracking with no global state; a compiled
Regexp is safe for concurrent use. Backtracking cost is bounded by a per-
call step budget rather than left to grow without limit.
*/
package minre

import (
	"errors"
	"strconv"

	"github.com/minre/minre/syntax"
)

// DefaultMatchBudget is the backtracking step budget applied to newly
// compiled patterns. Generous enough for any sane pattern; pathological
// ones (nested unbounded quantifiers) hit it instead of burning CPU
// forever.
var DefaultMatchBudget = 10_000_000

var (
	// ErrNoMatch is returned by the one-shot Find when the pattern does not
	// occur in the subject. The Regexp methods report no match as a nil
	// *Match instead.
	ErrNoMatch = errors.New("minre: no match")

	// ErrBudgetExceeded means matching was aborted because the step budget
	// ran out.
	ErrBudgetExceeded = errors.New("minre: match budget exceeded")

	// ErrCapsTooSmall means the caller-supplied capture slice has fewer
	// slots than the pattern has capturing groups.
	ErrCapsTooSmall = errors.New("minre: capture slice smaller than group count")
)

// Regexp is the representation of a compiled pattern.
// A Regexp is safe for concurrent use by multiple goroutines.
type Regexp struct {
	// MatchBudget caps the number of backtracking steps a single find call
	// may take before giving up with ErrBudgetExceeded.
	MatchBudget int

	// read-only after Compile
	pattern string
	options RegexOptions
	prog    *syntax.Program
}

// RegexOptions is a bitfield of matching options.
type RegexOptions int32

const (
	// IgnoreCase folds ASCII letters before comparing. \xHH byte literals
	// always compare exactly.
	IgnoreCase RegexOptions = 0x0001
)

// Compile analyzes a pattern and returns, if successful, a Regexp that can
// be matched against byte buffers. Pattern errors are *syntax.Error values.
func Compile(expr string, opt RegexOptions) (*Regexp, error) {
	prog, err := syntax.Analyze(expr)
	if err != nil {
		return nil, err
	}

	return &Regexp{
		pattern:     expr,
		options:     opt,
		prog:        prog,
		MatchBudget: DefaultMatchBudget,
	}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be analyzed.
// It simplifies safe initialization of global variables holding compiled
// patterns.
func MustCompile(str string, opt RegexOptions) *Regexp {
	regexp, err := Compile(str, opt)
	if err != nil {
		panic(`minre: Compile(` + quote(str) + `): ` + err.Error())
	}
	return regexp
}

// String returns the source text used to compile the pattern.
func (re *Regexp) String() string {
	return re.pattern
}

// GroupCount returns the number of capturing groups in the pattern,
// excluding group 0.
func (re *Regexp) GroupCount() int {
	return re.prog.GroupCount()
}

func quote(s string) string {
	if strconv.CanBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

// FindMatch searches subject for the pattern and returns the first match,
// or nil if there is none. Anchored patterns are tried at offset 0 only;
// everything else at each offset in increasing order.
func (re *Regexp) FindMatch(subject []byte) (*Match, error) {
	return re.FindMatchStartingAt(subject, 0)
}

// FindStringMatch is FindMatch over a string subject.
func (re *Regexp) FindStringMatch(s string) (*Match, error) {
	return re.FindMatchStartingAt([]byte(s), 0)
}

// FindMatchStartingAt searches subject from the given offset. Anchored
// patterns must match exactly at startAt.
func (re *Regexp) FindMatchStartingAt(subject []byte, startAt int) (*Match, error) {
	if startAt < 0 || startAt > len(subject) {
		return nil, nil
	}

	caps := make([]Capture, re.prog.GroupCount())
	start, n := re.run(subject, caps, startAt)
	if n < 0 {
		return nil, matchErr(n)
	}

	return &Match{
		Index:    start,
		Length:   n,
		Captures: caps,
		subject:  subject,
	}, nil
}

// MatchBytes reports whether the pattern matches anywhere in subject.
func (re *Regexp) MatchBytes(subject []byte) (bool, error) {
	m, err := re.FindMatch(subject)
	return m != nil, err
}

// MatchString reports whether the pattern matches anywhere in s.
func (re *Regexp) MatchString(s string) (bool, error) {
	m, err := re.FindStringMatch(s)
	return m != nil, err
}

// run executes one search on a fresh runner. Returns (start, consumed) on
// success, (0, negative code) otherwise.
func (re *Regexp) run(subject []byte, caps []Capture, startAt int) (int, int) {
	r := &runner{
		prog:       re.prog,
		subject:    subject,
		caps:       caps,
		ignoreCase: re.options&IgnoreCase != 0,
		budget:     re.MatchBudget,
	}
	return r.find(startAt)
}

// matchErr maps an internal failure code to an error. rNoMatch maps to nil:
// the Regexp methods report no match through a nil *Match.
func matchErr(n int) error {
	switch n {
	case rNoMatch:
		return nil
	case rBudget:
		return ErrBudgetExceeded
	case rQuantifier:
		return &syntax.Error{Code: syntax.ErrUnexpectedQuantifier}
	default:
		return &syntax.Error{Code: syntax.ErrInternal}
	}
}

// Find is the one-shot entry point: it compiles expr, matches it against
// subject and returns the end offset of the match (start offset plus
// consumed length). Capture slots are written into caps up to len(caps);
// pass nil to skip capturing. When caps are requested they must have at
// least one slot per capturing group. Returns -1 with ErrNoMatch when the
// pattern does not occur.
func Find(expr string, subject []byte, caps []Capture, opt RegexOptions) (int, error) {
	re, err := Compile(expr, opt)
	if err != nil {
		return -1, err
	}
	if caps != nil && len(caps) < re.GroupCount() {
		return -1, ErrCapsTooSmall
	}

	start, n := re.run(subject, caps, 0)
	if n < 0 {
		if n == rNoMatch {
			return -1, ErrNoMatch
		}
		return -1, matchErr(n)
	}
	return start + n, nil
}
