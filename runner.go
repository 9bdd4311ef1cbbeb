package minre

import "github.com/minre/minre/syntax"

// Internal match results. Zero or positive values are consumed subject
// lengths; negatives are failure kinds that propagate up the recursion and
// are mapped to errors at the API boundary.
const (
	rNoMatch    = -1
	rInternal   = -2
	rQuantifier = -3
	rBudget     = -4
)

// runner holds the state of one find call. A runner is never shared: every
// call builds its own, so a Regexp is safe for concurrent use.
type runner struct {
	prog       *syntax.Program
	subject    []byte
	caps       []Capture
	ignoreCase bool
	budget     int
}

// find drives the search: anchored patterns get one attempt at startAt,
// unanchored patterns one attempt per offset in increasing order. The
// first non-negative result wins. Returns (start, consumed) on success,
// (0, negative code) on failure.
func (r *runner) find(startAt int) (int, int) {
	n := rNoMatch
	for i := startAt; i <= len(r.subject); i++ {
		n = r.matchGroup(0, i, len(r.subject))
		if n >= 0 {
			return i, n
		}
		if n == rBudget || r.prog.Anchored() {
			break
		}
	}
	return 0, n
}

// matchGroup tries each branch of group gi in pattern order against the
// subject segment [ss, se); the first branch to match wins. A group with no
// branches still gets one attempt on its whole content.
func (r *runner) matchGroup(gi, ss, se int) int {
	g := &r.prog.Groups[gi]
	result := rNoMatch

	for bi := 0; ; bi++ {
		ps := g.Start
		if bi > 0 {
			ps = r.prog.Branches[g.BranchStart+bi-1].Bar + 1
		}
		pe := g.Start + g.Len
		if bi < g.BranchCount {
			pe = r.prog.Branches[g.BranchStart+bi].Bar
		}

		result = r.matchSegment(ps, pe, ss, se)
		if result == rBudget || result > 0 || bi >= g.BranchCount {
			break
		}
	}
	return result
}

// matchSegment consumes the pattern segment [ps, pe) against the subject
// segment [ss, se), one unit at a time, and returns the number of subject
// bytes consumed. Quantified units recurse on the unit and on the segment
// remainder; groups recurse through matchGroup.
func (r *runner) matchSegment(ps, pe, ss, se int) int {
	pat := r.prog.Pattern
	j := ss

	for i := ps; i < pe; {
		if r.budget--; r.budget < 0 {
			return rBudget
		}

		var step int
		gi := -1
		if pat[i] == '(' {
			if gi = r.prog.GroupAt(i + 1); gi < 0 {
				return rInternal
			}
			step = r.prog.Groups[gi].Len + 2
		} else {
			step = syntax.SegmentLen(pat, i)
		}
		if syntax.IsQuantifier(pat[i]) {
			return rQuantifier
		}
		if step <= 0 {
			return rInternal
		}

		if i+step < pe && syntax.IsQuantifier(pat[i+step]) {
			if pat[i+step] == '?' {
				n := r.matchSegment(i, i+step, j, se)
				if n == rBudget {
					return rBudget
				}
				if n > 0 {
					j += n
				}
				i += step + 1
				continue
			}

			// '+' or '*': repeat the unit, re-trying the segment remainder
			// after every repetition count; the latest count that lets both
			// succeed wins (greedy), or the first one (non-greedy).
			plus := pat[i+step] == '+'
			j2, nj := j, j
			n1, n2 := 0, -1
			ni := i + step + 1
			nonGreedy := false
			if ni < pe && pat[ni] == '?' {
				nonGreedy = true
				ni++
			}

			for {
				if n1 = r.matchSegment(i, i+step, j2, se); n1 > 0 {
					j2 += n1
				}
				if n1 == rBudget {
					return rBudget
				}
				if plus && n1 < 0 {
					break
				}
				if ni >= pe {
					// nothing follows the quantifier
					nj = j2
				} else if n2 = r.matchSegment(ni, pe, j2, se); n2 >= 0 {
					nj = j2 + n2
				} else if n2 == rBudget {
					return rBudget
				}
				if nj > j && nonGreedy {
					break
				}
				if n1 <= 0 {
					break
				}
			}

			// '*' with zero repetitions: the remainder must still match
			// from the original position.
			if n1 < 0 && n2 < 0 && !plus {
				if n2 = r.matchSegment(ni, pe, j, se); n2 > 0 {
					nj = j + n2
				} else if n2 == rBudget {
					return rBudget
				}
			}

			if plus && nj == j {
				return rNoMatch
			}
			if nj == j && ni < pe && n2 < 0 {
				return rNoMatch
			}
			// the remainder was matched above, nothing left to consume
			return nj - ss
		}

		switch {
		case pat[i] == '[':
			if j >= se {
				return rNoMatch
			}
			if r.matchSet(i+1, i+step-1, r.subject[j]) <= 0 {
				return rNoMatch
			}
			j++

		case pat[i] == '(':
			n := rNoMatch
			if pe-(i+step) <= 0 {
				// nothing follows the group
				n = r.matchGroup(gi, j, se)
				if n == rBudget {
					return rBudget
				}
			} else {
				// withhold ever more of the subject from the group until
				// the remainder matches what is left
				for j2 := 0; j2 <= se-j; j2++ {
					n = r.matchGroup(gi, j, se-j2)
					if n == rBudget {
						return rBudget
					}
					if n >= 0 {
						n3 := r.matchSegment(i+step, pe, j+n, se)
						if n3 == rBudget {
							return rBudget
						}
						if n3 >= 0 {
							break
						}
					}
				}
			}
			if n < 0 {
				return n
			}
			if n > 0 && r.caps != nil && gi-1 < len(r.caps) {
				r.caps[gi-1] = Capture{Index: j, Length: n}
			}
			j += n

		case pat[i] == '^':
			if j != ss {
				return rNoMatch
			}

		case pat[i] == '$':
			if j != se {
				return rNoMatch
			}

		default:
			if j >= se {
				return rNoMatch
			}
			n := r.matchAtom(i, r.subject[j])
			if n <= 0 {
				return n
			}
			j += n
		}
		i += step
	}

	return j - ss
}

// matchAtom matches the single pattern unit at pat[k] against one subject
// byte. '$' never matches as an atom (it is structural and handled by
// matchSegment); a bare '|' reaching here is a table-construction bug.
func (r *runner) matchAtom(k int, b byte) int {
	pat := r.prog.Pattern

	switch pat[k] {
	case '\\':
		switch pat[k+1] {
		case 'S':
			if syntax.IsSpace(b) {
				return rNoMatch
			}
		case 's':
			if !syntax.IsSpace(b) {
				return rNoMatch
			}
		case 'd':
			if !syntax.IsDigit(b) {
				return rNoMatch
			}
		case 'b':
			if b != '\b' {
				return rNoMatch
			}
		case 'f':
			if b != '\f' {
				return rNoMatch
			}
		case 'n':
			if b != '\n' {
				return rNoMatch
			}
		case 'r':
			if b != '\r' {
				return rNoMatch
			}
		case 't':
			if b != '\t' {
				return rNoMatch
			}
		case 'v':
			if b != '\v' {
				return rNoMatch
			}
		case 'x':
			// exact byte compare, the case flag does not apply
			if k+3 >= len(pat) {
				return rInternal
			}
			if syntax.HexByte(pat[k+2:]) != b {
				return rNoMatch
			}
		default:
			// escaped literal metacharacter
			if pat[k+1] != b {
				return rNoMatch
			}
		}
		return 1

	case '|':
		return rInternal

	case '$':
		return rNoMatch

	case '.':
		return 1

	default:
		if r.ignoreCase {
			if syntax.Fold(pat[k]) != syntax.Fold(b) {
				return rNoMatch
			}
		} else if pat[k] != b {
			return rNoMatch
		}
		return 1
	}
}

// matchSet evaluates the character set content [cs, ce) (between the
// brackets, '^' still included) against one subject byte. x-y is an
// inclusive byte range unless the '-' is escaped or sits next to a bracket;
// everything else goes through matchAtom.
func (r *runner) matchSet(cs, ce int, b byte) int {
	pat := r.prog.Pattern

	invert := cs < ce && pat[cs] == '^'
	if invert {
		cs++
	}

	result := -1
	for k := cs; k < ce && result <= 0; {
		if pat[k] != '-' && k+2 < ce && pat[k+1] == '-' {
			lo, hi, c := pat[k], pat[k+2], b
			if r.ignoreCase {
				lo, hi, c = syntax.Fold(lo), syntax.Fold(hi), syntax.Fold(b)
			}
			if c >= lo && c <= hi {
				result = 1
			} else {
				result = -1
			}
			k += 3
		} else {
			result = r.matchAtom(k, b)
			k += syntax.OpLen(pat, k)
		}
	}

	if (!invert && result > 0) || (invert && result <= 0) {
		return 1
	}
	return -1
}
