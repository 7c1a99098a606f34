// Package reader implements the recursive-descent tokenizer/parser for
// ajimu's S-expression surface syntax (§4.7 of the expanded spec). It
// produces a neutral Node tree, not the interpreter's own arena-backed
// values: the interpreter package converts Nodes into Refs itself, so this
// package stays free of any dependency on the evaluator's representation
// (and the two packages never need to import one another).
//
// Grounded on the teacher's own line-oriented scanning in interp.go's
// doPrompt/readline loop, generalized here to a full recursive-descent
// reader over an in-memory buffer rather than a single line at a time.
package reader

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a parsed Node.
type Kind int

const (
	Bool Kind = iota
	Int
	Float
	Char
	Symbol
	String
	List
	Quote
)

// Node is one parsed datum. Only the fields relevant to Kind are populated.
type Node struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Char  byte
	Str   string // Symbol name or String contents
	Items []Node // List elements, or Quote's single wrapped element

	// Dotted and Tail represent an improper list's final cdr, e.g. the
	// `c` in `(a b . c)`. Unset for proper lists.
	Dotted bool
	Tail   *Node
}

// Reader scans successive top-level datums out of a source buffer.
type Reader struct {
	src []byte
	pos int
}

// New returns a Reader over src.
func New(src string) *Reader {
	return &Reader{src: []byte(src)}
}

// Next parses and returns the next top-level datum. ok is false (with a nil
// error) once the input is exhausted.
func (r *Reader) Next() (Node, bool, error) {
	r.skipAtmosphere()
	if r.pos >= len(r.src) {
		return Node{}, false, nil
	}
	n, err := r.readDatum()
	if err != nil {
		return Node{}, false, err
	}
	return n, true, nil
}

func (r *Reader) skipAtmosphere() {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		if c == ';' {
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			r.pos++
			continue
		}
		return
	}
}

func (r *Reader) readDatum() (Node, error) {
	r.skipAtmosphere()
	if r.pos >= len(r.src) {
		return Node{}, fmt.Errorf("unexpected end of input")
	}

	c := r.src[r.pos]
	switch {
	case c == '(' || c == '[':
		return r.readList(closing(c))
	case c == ')' || c == ']':
		return Node{}, fmt.Errorf("unexpected %q", c)
	case c == '\'':
		r.pos++
		inner, err := r.readDatum()
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: Quote, Items: []Node{inner}}, nil
	case c == '"':
		return r.readString()
	case c == '#':
		return r.readHash()
	default:
		return r.readAtom()
	}
}

func closing(open byte) byte {
	if open == '[' {
		return ']'
	}
	return ')'
}

func (r *Reader) readList(close byte) (Node, error) {
	r.pos++ // consume opening bracket
	var items []Node
	for {
		r.skipAtmosphere()
		if r.pos >= len(r.src) {
			return Node{}, fmt.Errorf("unterminated list")
		}
		if r.src[r.pos] == close {
			r.pos++
			return Node{Kind: List, Items: items}, nil
		}
		if len(items) > 0 && r.isDotToken() {
			r.pos++ // consume the lone '.'
			tail, err := r.readDatum()
			if err != nil {
				return Node{}, err
			}
			r.skipAtmosphere()
			if r.pos >= len(r.src) || r.src[r.pos] != close {
				return Node{}, fmt.Errorf("malformed dotted list")
			}
			r.pos++
			return Node{Kind: List, Items: items, Dotted: true, Tail: &tail}, nil
		}
		n, err := r.readDatum()
		if err != nil {
			return Node{}, err
		}
		items = append(items, n)
	}
}

// isDotToken reports whether the reader is positioned at a lone "."
// token — the improper-list separator — as opposed to a symbol or number
// that merely starts with a dot (".5", "ajimu.gc.state").
func (r *Reader) isDotToken() bool {
	if r.src[r.pos] != '.' {
		return false
	}
	next := r.pos + 1
	return next >= len(r.src) || isDelimiter(r.src[next])
}

func (r *Reader) readString() (Node, error) {
	r.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if r.pos >= len(r.src) {
			return Node{}, fmt.Errorf("unterminated string")
		}
		c := r.src[r.pos]
		if c == '"' {
			r.pos++
			return Node{Kind: String, Str: sb.String()}, nil
		}
		if c == '\\' && r.pos+1 < len(r.src) {
			r.pos++
			switch r.src[r.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(r.src[r.pos])
			}
			r.pos++
			continue
		}
		sb.WriteByte(c)
		r.pos++
	}
}

func (r *Reader) readHash() (Node, error) {
	r.pos++ // consume '#'
	if r.pos >= len(r.src) {
		return Node{}, fmt.Errorf("unexpected end after #")
	}
	switch r.src[r.pos] {
	case 't':
		r.pos++
		return Node{Kind: Bool, Bool: true}, nil
	case 'f':
		r.pos++
		return Node{Kind: Bool, Bool: false}, nil
	case '\\':
		r.pos++
		return r.readCharacter()
	default:
		return Node{}, fmt.Errorf("unsupported # syntax: #%c", r.src[r.pos])
	}
}

func (r *Reader) readCharacter() (Node, error) {
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	if r.pos == start {
		// A delimiter immediately after #\ names itself (e.g. #\( or #\space
		// handled below as a word).
		r.pos++
	}
	word := string(r.src[start:r.pos])
	switch strings.ToLower(word) {
	case "space":
		return Node{Kind: Char, Char: ' '}, nil
	case "newline":
		return Node{Kind: Char, Char: '\n'}, nil
	case "tab":
		return Node{Kind: Char, Char: '\t'}, nil
	}
	if len(word) == 1 {
		return Node{Kind: Char, Char: word[0]}, nil
	}
	return Node{}, fmt.Errorf("invalid character literal #\\%s", word)
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', '"', ';':
		return true
	default:
		return false
	}
}

func (r *Reader) readAtom() (Node, error) {
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	text := string(r.src[start:r.pos])
	if text == "" {
		return Node{}, fmt.Errorf("empty atom")
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Node{Kind: Int, Int: i}, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && looksNumeric(text) {
		return Node{Kind: Float, Float: f}, nil
	}
	return Node{Kind: Symbol, Str: text}, nil
}

// looksNumeric guards ParseFloat against accepting things like "inf" or
// "nan" as numbers when they are meant as ordinary symbols.
func looksNumeric(text string) bool {
	for _, c := range text {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}
