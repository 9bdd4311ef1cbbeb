package minre

import (
	"reflect"
	"strings"
	"testing"

	"github.com/minre/minre/syntax"
)

// findOrFail compiles expr and runs it over subject, failing the test on
// compile or match errors. A nil return means no match.
func findOrFail(t *testing.T, expr, subject string, opt RegexOptions) *Match {
	t.Helper()
	re, err := Compile(expr, opt)
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	m, err := re.FindStringMatch(subject)
	if err != nil {
		t.Fatalf("FindStringMatch(%q, %q): %v", expr, subject, err)
	}
	return m
}

func assertMatch(t *testing.T, expr, subject string, opt RegexOptions, index, length int) *Match {
	t.Helper()
	m := findOrFail(t, expr, subject, opt)
	if m == nil {
		t.Fatalf("match(%q, %q): no match, expected index=%d length=%d", expr, subject, index, length)
	}
	if m.Index != index || m.Length != length {
		t.Fatalf("match(%q, %q) = (%d, %d), want (%d, %d)", expr, subject, m.Index, m.Length, index, length)
	}
	return m
}

func assertNoMatch(t *testing.T, expr, subject string, opt RegexOptions) {
	t.Helper()
	if m := findOrFail(t, expr, subject, opt); m != nil {
		t.Fatalf("match(%q, %q) = (%d, %d), expected no match", expr, subject, m.Index, m.Length)
	}
}

func TestLiteralSubstring(t *testing.T) {
	assertMatch(t, "abc", "abc", 0, 0, 3)
	assertMatch(t, "abc", "xxabcyy", 0, 2, 3)
	assertMatch(t, "abc", "ababc", 0, 2, 3)
	assertNoMatch(t, "abc", "abd", 0)
	assertNoMatch(t, "abc", "", 0)
}

func TestEmptyPatternMatchesEmpty(t *testing.T) {
	assertMatch(t, "", "abc", 0, 0, 0)
}

func TestIgnoreCase(t *testing.T) {
	assertMatch(t, "abc", "ABC", IgnoreCase, 0, 3)
	assertNoMatch(t, "abc", "ABC", 0)
	assertMatch(t, "AbC", "xabc", IgnoreCase, 1, 3)
}

func TestAnchors(t *testing.T) {
	assertNoMatch(t, "^abc", "xabc", 0)
	assertMatch(t, "^abc", "abcx", 0, 0, 3)
	assertMatch(t, "abc$", "xabc", 0, 1, 3)
	assertNoMatch(t, "abc$", "abcx", 0)
	assertMatch(t, "^abc$", "abc", 0, 0, 3)
	assertNoMatch(t, "^abc$", "abcd", 0)
}

func TestQuantifiers(t *testing.T) {
	assertMatch(t, "a+", "aaab", 0, 0, 3)
	assertMatch(t, "a+?", "aaab", 0, 0, 1)
	assertMatch(t, "a*b", "b", 0, 0, 1)
	assertMatch(t, "a*b", "aaab", 0, 0, 4)
	assertNoMatch(t, "a+b", "b", 0)
	assertMatch(t, "a?b", "b", 0, 0, 1)
	assertMatch(t, "a?b", "ab", 0, 0, 2)
	assertMatch(t, "a*", "bbb", 0, 0, 0)
	assertMatch(t, ".*c", "abcabc", 0, 0, 6)
	assertMatch(t, ".*?c", "abcabc", 0, 0, 3)
}

func TestQuantifiedGroups(t *testing.T) {
	m := assertMatch(t, "(ab)+", "ababx", 0, 0, 4)
	// capture reflects the last repetition
	if want, got := (Capture{Index: 2, Length: 2}), m.Captures[0]; want != got {
		t.Fatalf("capture = %+v, want %+v", got, want)
	}

	assertMatch(t, "(ab)?c", "c", 0, 0, 1)
	assertMatch(t, "(ab)?c", "abc", 0, 0, 3)
}

func TestCharacterSets(t *testing.T) {
	assertMatch(t, "[a-c]+", "abcx", 0, 0, 3)
	assertMatch(t, "[^a-c]+", "abcx", 0, 3, 1)
	assertMatch(t, "[abc]", "zb", 0, 1, 1)
	assertNoMatch(t, "[abc]", "xyz", 0)
	assertMatch(t, "[-a]+", "a-b", 0, 0, 2)
	assertMatch(t, "[a-]+", "a-b", 0, 0, 2)
	assertMatch(t, `[\d]+`, "a12", 0, 1, 2)
	assertMatch(t, `[^\d]+`, "12ab", 0, 2, 2)
	assertMatch(t, "[a-c]", "B", IgnoreCase, 0, 1)
	assertNoMatch(t, "[a-c]", "B", 0)
	assertMatch(t, `[\x41\x42]+`, "ABC", 0, 0, 2)
}

func TestCapturingGroups(t *testing.T) {
	m := assertMatch(t, "(a)(b)", "ab", 0, 0, 2)
	want := []Capture{{Index: 0, Length: 1}, {Index: 1, Length: 1}}
	if !reflect.DeepEqual(want, m.Captures) {
		t.Fatalf("captures = %+v, want %+v", m.Captures, want)
	}

	if got := m.CaptureString(1); got != "a" {
		t.Fatalf("capture 1 = %q, want \"a\"", got)
	}
	if got := m.CaptureString(2); got != "b" {
		t.Fatalf("capture 2 = %q, want \"b\"", got)
	}
}

func TestNestedGroups(t *testing.T) {
	m := assertMatch(t, "((a)b)", "ab", 0, 0, 2)
	want := []Capture{{Index: 0, Length: 2}, {Index: 0, Length: 1}}
	if !reflect.DeepEqual(want, m.Captures) {
		t.Fatalf("captures = %+v, want %+v", m.Captures, want)
	}
}

func TestSiblingGroupAfterNestedGroup(t *testing.T) {
	m := assertMatch(t, "((a)b)(c)", "abc", 0, 0, 3)
	want := []Capture{
		{Index: 0, Length: 2},
		{Index: 0, Length: 1},
		{Index: 2, Length: 1},
	}
	if !reflect.DeepEqual(want, m.Captures) {
		t.Fatalf("captures = %+v, want %+v", m.Captures, want)
	}
}

func TestAlternation(t *testing.T) {
	assertMatch(t, "cat|dog", "I have a dog", 0, 9, 3)
	assertMatch(t, "cat|dog", "catalog", 0, 0, 3)
	assertNoMatch(t, "cat|dog", "bird", 0)

	m := assertMatch(t, "(cat|dog)", "dog", 0, 0, 3)
	if got := m.CaptureString(1); got != "dog" {
		t.Fatalf("capture = %q, want \"dog\"", got)
	}

	// group alternatives are tried in pattern order and the first branch
	// that matches the group wins outright, even if a later branch would
	// have let the remainder succeed
	assertMatch(t, "(ab|a)c", "abc", 0, 0, 3)
	assertNoMatch(t, "(a|ab)c", "abc", 0)
}

func TestEscapedClasses(t *testing.T) {
	assertMatch(t, `\d+`, "abc123", 0, 3, 3)
	assertMatch(t, `\s`, "a b", 0, 1, 1)
	assertMatch(t, `\S+`, "  ab ", 0, 2, 2)
	assertMatch(t, `a\.b`, "a.b", 0, 0, 3)
	assertNoMatch(t, `a\.b`, "axb", 0)
	assertMatch(t, `\\`, `a\b`, 0, 1, 1)
	assertMatch(t, "\\t", "a\tb", 0, 1, 1)
	assertMatch(t, "\\n", "a\nb", 0, 1, 1)
}

func TestHexLiterals(t *testing.T) {
	assertMatch(t, `\x41`, "zA", 0, 1, 1)
	// the case flag does not apply to hex byte literals
	assertNoMatch(t, `\x41`, "a", IgnoreCase)
	assertMatch(t, `\x00`, "a\x00b", 0, 1, 1)
}

func TestDot(t *testing.T) {
	assertMatch(t, "a.c", "abc", 0, 0, 3)
	assertMatch(t, "a.c", "a\nc", 0, 0, 3)
	assertNoMatch(t, "a.c", "ac", 0)
}

func TestDoubledQuantifierFailsAsNoMatch(t *testing.T) {
	// matcher-level dangling quantifiers behave as branch failure
	assertNoMatch(t, "a*+", "aaa", 0)
	assertNoMatch(t, "a**", "aaa", 0)
}

func TestMatchBudget(t *testing.T) {
	re := MustCompile("(a*)*b", 0)
	re.MatchBudget = 500

	_, err := re.FindStringMatch(strings.Repeat("a", 64))
	if err != ErrBudgetExceeded {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}

	// the same pattern within budget still matches
	re.MatchBudget = DefaultMatchBudget
	m, err := re.FindStringMatch("aab")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m == nil || m.Length != 3 {
		t.Fatalf("m = %+v, want length 3", m)
	}
}

func TestDeterminism(t *testing.T) {
	re := MustCompile(`([a-c]+)x|(a+b?)`, 0)
	first, err := re.FindStringMatch("zzaabcx")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 0; i < 5; i++ {
		m, err := re.FindStringMatch("zzaabcx")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !reflect.DeepEqual(first, m) {
			t.Fatalf("run %d: %+v != %+v", i, m, first)
		}
	}
}

func TestBareAtomResults(t *testing.T) {
	// '$' as an atom never matches; a bare '|' is a structural violation
	r := &runner{prog: &syntax.Program{Pattern: []byte("$")}}
	if got := r.matchAtom(0, 'x'); got != rNoMatch {
		t.Fatalf("matchAtom($) = %d, want rNoMatch", got)
	}
	r = &runner{prog: &syntax.Program{Pattern: []byte("|")}}
	if got := r.matchAtom(0, 'x'); got != rInternal {
		t.Fatalf("matchAtom(|) = %d, want rInternal", got)
	}
}
