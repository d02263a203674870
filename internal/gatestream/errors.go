package gatestream

import "fmt"

// ParseError reports a malformed token, unknown gate kind, an out-of-range
// operand, or an inconsistent control flag encountered while tokenizing the
// gate stream.
type ParseError struct {
	Token string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gatestream: parse error at token %d (%q): %s", e.Pos, e.Token, e.Msg)
}

// UnsupportedGate reports a well-formed record that no kernel can execute,
// e.g. a Toffoli whose three operand qubits are not pairwise distinct, or a
// controlled phase gate whose control equals its target.
type UnsupportedGate struct {
	Kind Kind
	Msg  string
}

func (e *UnsupportedGate) Error() string {
	return fmt.Sprintf("gatestream: unsupported %s gate: %s", e.Kind, e.Msg)
}

// StreamError reports a re-seek failure or an unexpected end of stream
// mid-record.
type StreamError struct {
	Msg string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("gatestream: stream error: %s", e.Msg)
}
