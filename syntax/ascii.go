package syntax

// Byte-level ctype helpers. The engine is byte-oriented and ASCII-folding;
// none of this is locale or Unicode aware.

// Fold lowercases an ASCII letter and leaves every other byte alone.
func Fold(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// IsSpace reports whether b is ASCII whitespace (space \t \n \v \f \r).
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsHexDigit reports whether b is an ASCII hexadecimal digit.
func IsHexDigit(b byte) bool {
	return IsDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// HexByte decodes the two bytes at p[0] and p[1] as a hex byte literal.
// Inputs are assumed validated; like the ported code it folds case and
// does plain nibble arithmetic.
func HexByte(p []byte) byte {
	return nibble(Fold(p[0]))<<4 | nibble(Fold(p[1]))
}

func nibble(b byte) byte {
	if IsDigit(b) {
		return b - '0'
	}
	return b - 'W' // 'a' - 'W' == 10
}
