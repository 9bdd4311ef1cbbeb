// Package syntax analyzes minre patterns into the flat group and branch
// tables the matcher runs against. There is no AST: a compiled pattern is
// the pattern bytes themselves plus offset tables describing every
// parenthesized group and every '|' alternation point.
package syntax

import "sort"

// Capacity limits for a single pattern. Exceeding either is an analysis
// error, never a truncation.
const (
	MaxGroups   = 100
	MaxBranches = 100
)

// Group describes one parenthesized group. Group 0 always exists and spans
// the whole pattern. Start and Len delimit the group's content (between the
// parentheses, both exclusive) as offsets into Program.Pattern. BranchStart
// and BranchCount select this group's contiguous run in Program.Branches.
type Group struct {
	Start       int
	Len         int
	BranchStart int
	BranchCount int
}

// Branch records one '|' alternation point: the offset of the bar and the
// index of its innermost enclosing group (0 when none is open).
type Branch struct {
	Group int
	Bar   int
}

// Program is the analyzed form of a pattern. It is immutable after Analyze
// returns and safe to share between concurrent matches.
type Program struct {
	Pattern  []byte
	Groups   []Group
	Branches []Branch
}

// metacharacters that may follow a backslash outside a character set.
const metacharacters = `^$().[]*+?|\Ssdbfnrtv`

func isMeta(b byte) bool {
	for i := 0; i < len(metacharacters); i++ {
		if metacharacters[i] == b {
			return true
		}
	}
	return false
}

// IsQuantifier reports whether b is one of the quantifier metacharacters.
func IsQuantifier(b byte) bool {
	return b == '*' || b == '+' || b == '?'
}

// OpLen returns the byte length of the single pattern unit at p[i]:
// 4 for \xHH, 2 for any other escape, 1 otherwise. Character sets are not
// units; see SegmentLen.
func OpLen(p []byte, i int) int {
	if p[i] == '\\' {
		if i+1 < len(p) && p[i+1] == 'x' {
			return 4
		}
		return 2
	}
	return 1
}

// setLen returns the length of the character set starting at p[i] == '[',
// through the matching ']' inclusive, or -1 if the set never closes within
// the pattern. Escapes inside the set are stepped over whole, so a ']'
// hidden behind a backslash does not terminate it.
func setLen(p []byte, i int) int {
	j := i + 1
	for j < len(p) && p[j] != ']' {
		j += OpLen(p, j)
	}
	if j >= len(p) {
		return -1
	}
	return j - i + 1
}

// SegmentLen returns the byte length of the pattern unit at p[i], treating
// a whole character set as one unit. Returns -1 for an unterminated set.
func SegmentLen(p []byte, i int) int {
	if p[i] == '[' {
		return setLen(p, i)
	}
	return OpLen(p, i)
}

// Analyze makes a single forward scan over expr, recording group boundaries
// and alternation points and validating escapes, set termination, balance
// and capacity. The returned Program is ready for matching.
func Analyze(expr string) (*Program, error) {
	p := []byte(expr)
	prog := &Program{
		Pattern: p,
		Groups:  []Group{{Start: 0, Len: len(p)}},
	}

	var open []int // stack of indices of currently open groups
	atSegmentStart := true

	for i := 0; i < len(p); {
		step := 1
		switch c := p[i]; {
		case c == '[':
			step = setLen(p, i)
			if step < 0 {
				return nil, newError(ErrInvalidCharSet, expr, i)
			}
			atSegmentStart = false

		case c == '\\':
			if i+1 >= len(p) {
				return nil, newError(ErrInvalidEscape, expr, i)
			}
			if p[i+1] == 'x' {
				if i+3 >= len(p) || !IsHexDigit(p[i+2]) || !IsHexDigit(p[i+3]) {
					return nil, newError(ErrInvalidEscape, expr, i)
				}
				step = 4
			} else {
				if !isMeta(p[i+1]) {
					return nil, newError(ErrInvalidEscape, expr, i)
				}
				step = 2
			}
			atSegmentStart = false

		case c == '|':
			if len(prog.Branches) >= MaxBranches {
				return nil, newError(ErrTooManyBranches, expr, i)
			}
			owner := 0
			if len(open) > 0 {
				owner = open[len(open)-1]
			}
			prog.Branches = append(prog.Branches, Branch{Group: owner, Bar: i})
			atSegmentStart = true

		case c == '(':
			if len(prog.Groups) >= MaxGroups {
				return nil, newError(ErrTooManyGroups, expr, i)
			}
			open = append(open, len(prog.Groups))
			prog.Groups = append(prog.Groups, Group{Start: i + 1, Len: -1})
			atSegmentStart = true

		case c == ')':
			if len(open) == 0 {
				return nil, newError(ErrUnbalancedGroups, expr, i)
			}
			gi := open[len(open)-1]
			open = open[:len(open)-1]
			prog.Groups[gi].Len = i - prog.Groups[gi].Start
			if prog.Groups[gi].Len == 0 {
				return nil, newError(ErrEmptyGroup, expr, i)
			}
			atSegmentStart = false

		case IsQuantifier(c):
			// A quantifier is valid only after a matchable unit. Shapes the
			// scan cannot decide here (doubled quantifiers) are left to the
			// matcher, same as the ported behavior.
			if atSegmentStart {
				return nil, newError(ErrUnexpectedQuantifier, expr, i)
			}

		default:
			atSegmentStart = false
		}
		i += step
	}

	if len(open) != 0 {
		return nil, newError(ErrUnbalancedGroups, expr, len(p))
	}

	buildBranchTable(prog)
	return prog, nil
}

// buildBranchTable stable-sorts branches by owning group and hands every
// group its contiguous slice of the sorted array.
func buildBranchTable(prog *Program) {
	sort.SliceStable(prog.Branches, func(i, j int) bool {
		return prog.Branches[i].Group < prog.Branches[j].Group
	})

	j := 0
	for gi := range prog.Groups {
		prog.Groups[gi].BranchStart = j
		for j < len(prog.Branches) && prog.Branches[j].Group == gi {
			j++
		}
		prog.Groups[gi].BranchCount = j - prog.Groups[gi].BranchStart
	}
}

// GroupAt returns the index of the group whose content starts at the given
// pattern offset, or -1. The matcher uses it to resolve the group opened by
// a '(' it is standing on.
func (prog *Program) GroupAt(start int) int {
	for gi := 1; gi < len(prog.Groups); gi++ {
		if prog.Groups[gi].Start == start {
			return gi
		}
	}
	return -1
}

// Anchored reports whether the pattern is anchored to the subject start.
func (prog *Program) Anchored() bool {
	return len(prog.Pattern) > 0 && prog.Pattern[0] == '^'
}

// GroupCount returns the number of capturing groups, excluding group 0.
func (prog *Program) GroupCount() int {
	return len(prog.Groups) - 1
}
