package gatestream

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Sequence is a materialized, randomly-addressable view of a parsed gate
// stream: every record, indexed by its position (cursor). The stream is
// logically single-pass, but path-integral and Savitch both need to
// re-enter it at a previously captured position (spec.md §4.2, §9); rather
// than seek a byte offset, they index into this slice.
type Sequence struct {
	records []Record
}

// Parse tokenizes and parses an entire gate stream from r for an n-qubit
// circuit, validating the grammar and operand qubit bounds. Whitespace
// (including trailing blank lines) is insignificant; tokens are read with
// a plain word scanner since the grammar is a flat, uniform token stream
// with no nested or line-oriented structure to disambiguate.
func Parse(r io.Reader, n int) (*Sequence, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)

	var tokens []string
	for sc.Scan() {
		tokens = append(tokens, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, &StreamError{Msg: fmt.Sprintf("reading gate stream: %v", err)}
	}

	p := &parser{tokens: tokens, n: n}
	records, err := p.parseAll()
	if err != nil {
		return nil, err
	}
	return &Sequence{records: records}, nil
}

// Len returns the number of records in the sequence.
func (s *Sequence) Len() int {
	return len(s.records)
}

// At returns the record at the given cursor, and whether it exists.
func (s *Sequence) At(cursor int) (Record, bool) {
	if cursor < 0 || cursor >= len(s.records) {
		return Record{}, false
	}
	return s.records[cursor], true
}

// Records returns the full materialized record slice.
func (s *Sequence) Records() []Record {
	return s.records
}

// Rewind returns the cursor for the start of the stream.
func (s *Sequence) Rewind() int {
	return 0
}

// CountChanges returns the number of Hadamard and Toffoli gates in the
// sequence: the "branching or flipping" gate count that bounds how much a
// path-integral recursion's running state can still move (spec.md §4.4).
func (s *Sequence) CountChanges() int {
	n := 0
	for _, r := range s.records {
		if r.Kind == Hadamard || r.Kind == Toffoli {
			n++
		}
	}
	return n
}

type parser struct {
	tokens []string
	pos    int
	n      int
}

func (p *parser) parseAll() ([]Record, error) {
	var records []Record
	for p.pos < len(p.tokens) {
		cursor := len(records)
		rec, err := p.parseOne(cursor)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (p *parser) take() (tok string, idx int, ok bool) {
	if p.pos >= len(p.tokens) {
		return "", p.pos, false
	}
	tok, idx = p.tokens[p.pos], p.pos
	p.pos++
	return tok, idx, true
}

func (p *parser) parseOne(cursor int) (Record, error) {
	controlTok, controlIdx, ok := p.take()
	if !ok {
		return Record{}, &StreamError{Msg: "unexpected end of stream reading control flag"}
	}
	var controlled bool
	switch controlTok {
	case "0":
		controlled = false
	case "1":
		controlled = true
	default:
		return Record{}, p.errAt(controlIdx, controlTok, "control flag must be 0 or 1")
	}

	kindTok, kindIdx, ok := p.take()
	if !ok {
		return Record{}, &StreamError{Msg: "unexpected end of stream reading gate kind"}
	}

	switch kindTok {
	case "h":
		if controlled {
			return Record{}, p.errAt(kindIdx, kindTok, "hadamard gates require control flag 0")
		}
		q, err := p.takeQubit()
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: Hadamard, Cursor: cursor, Target: q}, nil

	case "t":
		if controlled {
			return Record{}, p.errAt(kindIdx, kindTok, "toffoli gates require control flag 0")
		}
		c1, err := p.takeQubit()
		if err != nil {
			return Record{}, err
		}
		c2, err := p.takeQubit()
		if err != nil {
			return Record{}, err
		}
		tgt, err := p.takeQubit()
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: Toffoli, Cursor: cursor, Control1: c1, Control2: c2, Target: tgt}, nil

	case "U", "u":
		kind := PhasePositive
		if kindTok == "u" {
			kind = PhaseNegative
		}
		k, err := p.takePhasePow()
		if err != nil {
			return Record{}, err
		}
		if controlled {
			ctrl, err := p.takeQubit()
			if err != nil {
				return Record{}, err
			}
			tgt, err := p.takeQubit()
			if err != nil {
				return Record{}, err
			}
			return Record{Kind: kind, Cursor: cursor, Controlled: true, Control1: ctrl, Target: tgt, PhasePow: k}, nil
		}
		tgt, err := p.takeQubit()
		if err != nil {
			return Record{}, err
		}
		return Record{Kind: kind, Cursor: cursor, Target: tgt, PhasePow: k}, nil

	default:
		return Record{}, p.errAt(kindIdx, kindTok, "unknown gate kind")
	}
}

func (p *parser) takeQubit() (int, error) {
	tok, idx, ok := p.take()
	if !ok {
		return 0, &StreamError{Msg: "unexpected end of stream reading qubit operand"}
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.errAt(idx, tok, "expected a qubit index")
	}
	if v < 0 || v >= p.n {
		return 0, p.errAt(idx, tok, fmt.Sprintf("qubit index out of range [0,%d)", p.n))
	}
	return v, nil
}

func (p *parser) takePhasePow() (int, error) {
	tok, idx, ok := p.take()
	if !ok {
		return 0, &StreamError{Msg: "unexpected end of stream reading phase exponent"}
	}
	k, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.errAt(idx, tok, "expected a phase denominator exponent")
	}
	if k < 1 {
		return 0, p.errAt(idx, tok, "phase denominator exponent must be >= 1")
	}
	return k, nil
}

func (p *parser) errAt(idx int, tok, msg string) error {
	return &ParseError{Token: tok, Pos: idx, Msg: msg}
}
