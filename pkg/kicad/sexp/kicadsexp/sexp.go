// Package kicadsexp provides a lightweight S-expression parser for KiCad
// files. It knows nothing about KiCad semantics: it produces a generic tree of
// atoms, quoted strings and lists that the sexp package navigates.
package kicadsexp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Sexp represents an S-expression node.
// It is one of Atom, Str or *List.
type Sexp interface {
	// IsLeaf returns true if this is an atom or string (not a list)
	IsLeaf() bool

	// String returns the serialized form, suitable for re-parsing
	String() string
}

// Atom is a bare token such as a node tag, a number or an unquoted name
type Atom string

func (a Atom) IsLeaf() bool   { return true }
func (a Atom) String() string { return string(a) }

// Str is a quoted string literal, stored unescaped
type Str string

func (s Str) IsLeaf() bool { return true }

func (s Str) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Position locates a token in its source
type Position struct {
	Filename string
	Offset   int // byte offset, 0-based
	Line     int // 1-based
	Column   int // 1-based
}

func (p Position) String() string {
	name := p.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column)
}

// List represents a parenthesized list of S-expressions
type List struct {
	pos      Position
	elements []Sexp
}

// NewList builds a list from elements. Lists built this way have a zero
// Position.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

// Pos returns the position of the opening parenthesis
func (l *List) Pos() Position {
	return l.pos
}

// Head returns the first element of the list (nil when empty)
func (l *List) Head() Sexp {
	return l.Get(0)
}

// Get returns the element at the given index, or nil when out of range
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Items returns a copy of the list elements
func (l *List) Items() []Sexp {
	items := make([]Sexp, len(l.elements))
	copy(items, l.elements)
	return items
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Text returns the literal text of an Atom or Str. Quoting does not matter:
// Atom("Value") and Str("Value") both yield "Value". Lists yield false.
func Text(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Atom:
		return string(v), true
	case Str:
		return string(v), true
	default:
		return "", false
	}
}

// Equal reports whether two trees have the same shape and leaves.
// Source positions are ignored.
func Equal(a, b Sexp) bool {
	switch av := a.(type) {
	case Atom:
		bv, ok := b.(Atom)
		return ok && av == bv
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case *List:
		bv, ok := b.(*List)
		if !ok || av == nil || bv == nil {
			return ok && av == bv
		}
		if av.Len() != bv.Len() {
			return false
		}
		for i := range av.elements {
			if !Equal(av.elements[i], bv.elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// Parse parses all top-level S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	return ParseNamed("", r)
}

// ParseNamed is like Parse but records filename in positions and errors.
func ParseNamed(filename string, r io.Reader) ([]Sexp, error) {
	parser, err := NewParser(filename, r)
	if err != nil {
		return nil, err
	}
	return parser.ParseAll()
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile reads and parses the file at path
func ParseFile(path string) ([]Sexp, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseNamed(path, file)
}
