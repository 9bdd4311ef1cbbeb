package minre

// Capture is the subject range matched by one capturing group: a byte
// offset into the subject and a length. A zero Capture means the group
// never matched (group matches of length zero are not recorded).
type Capture struct {
	Index  int
	Length int
}

// Match is the result of a successful find. Index and Length locate the
// overall match in the subject; Captures holds one slot per capturing
// group in pattern order, group 0 (the whole match) excluded.
type Match struct {
	Index    int
	Length   int
	Captures []Capture

	subject []byte
}

// Bytes returns the matched portion of the subject. The slice aliases the
// subject passed to the find call.
func (m *Match) Bytes() []byte {
	return m.subject[m.Index : m.Index+m.Length]
}

// String returns the matched portion of the subject as a string.
func (m *Match) String() string {
	return string(m.Bytes())
}

// CaptureBytes returns the subject bytes captured by group i (1-based, as
// in the pattern). It returns nil for an out-of-range index or a group
// that did not capture.
func (m *Match) CaptureBytes(i int) []byte {
	if i < 1 || i > len(m.Captures) {
		return nil
	}
	c := m.Captures[i-1]
	if c.Length == 0 {
		return nil
	}
	return m.subject[c.Index : c.Index+c.Length]
}

// CaptureString is CaptureBytes as a string; "" when the group did not
// capture.
func (m *Match) CaptureString(i int) string {
	return string(m.CaptureBytes(i))
}
