package syntax

import "fmt"

// ErrorCode identifies the reason a pattern failed analysis.
type ErrorCode string

const (
	// ErrUnbalancedGroups means '(' and ')' do not pair up.
	ErrUnbalancedGroups ErrorCode = "unbalanced groups"
	// ErrTooManyGroups means the pattern exceeds MaxGroups.
	ErrTooManyGroups ErrorCode = "too many groups"
	// ErrTooManyBranches means the pattern exceeds MaxBranches.
	ErrTooManyBranches ErrorCode = "too many alternation branches"
	// ErrInvalidEscape means a backslash is not followed by a recognized
	// metacharacter, or \x is not followed by two hex digits.
	ErrInvalidEscape ErrorCode = "invalid escape sequence"
	// ErrUnexpectedQuantifier means *, + or ? has no preceding unit.
	ErrUnexpectedQuantifier ErrorCode = "unexpected quantifier"
	// ErrInvalidCharSet means a '[' has no closing ']' within the pattern.
	ErrInvalidCharSet ErrorCode = "unterminated character set"
	// ErrEmptyGroup means the pattern contains "()".
	ErrEmptyGroup ErrorCode = "empty group"
	// ErrInternal means a structural invariant was violated while matching.
	ErrInternal ErrorCode = "internal error"
)

// Error is the error type returned by Analyze and surfaced through Compile.
type Error struct {
	Code ErrorCode
	Expr string
	Pos  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("error analyzing pattern: %s at offset %d in `%s`", string(e.Code), e.Pos, e.Expr)
}

func newError(code ErrorCode, expr string, pos int) *Error {
	return &Error{Code: code, Expr: expr, Pos: pos}
}
