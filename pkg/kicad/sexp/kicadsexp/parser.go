package kicadsexp

import (
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2/lexer"
)

// ParseError reports malformed S-expression input
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser parses S-expressions from a token stream
type Parser struct {
	lexer    lexer.Lexer
	filename string
	current  lexer.Token
}

// NewParser creates a new parser reading from r. filename is only used in
// positions and error messages.
func NewParser(filename string, r io.Reader) (*Parser, error) {
	lex, err := SexpLexer.Lex(filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return &Parser{lexer: lex, filename: filename}, nil
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp

	if err := p.advance(); err != nil {
		return nil, err
	}

	for !p.current.EOF() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// advance moves to the next significant token, skipping whitespace
func (p *Parser) advance() error {
	for {
		tok, err := p.lexer.Next()
		if err != nil {
			return p.lexError(err)
		}
		if tok.Type == tokenWhitespace {
			continue
		}
		p.current = tok
		return nil
	}
}

// parseExpr parses a single S-expression starting at the current token
func (p *Parser) parseExpr() (Sexp, error) {
	switch p.current.Type {
	case tokenLParen:
		return p.parseList()

	case tokenAtom:
		return Atom(p.current.Value), nil

	case tokenString:
		return Str(unquote(p.current.Value)), nil

	case tokenRParen:
		return nil, p.errorf("unexpected ')'")

	case lexer.EOF:
		return nil, p.errorf("unexpected EOF")

	default:
		return nil, p.errorf("unexpected token %q", p.current.Value)
	}
}

// parseList parses a list: ( ... )
func (p *Parser) parseList() (Sexp, error) {
	if p.current.Type != tokenLParen {
		return nil, p.errorf("expected '(', got %q", p.current.Value)
	}

	list := &List{pos: toPosition(p.current.Pos)}

	for {
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.current.Type == tokenRParen {
			break
		}

		if p.current.EOF() {
			return nil, p.errorf("unexpected EOF in list opened at line %d, column %d",
				list.pos.Line, list.pos.Column)
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.elements = append(list.elements, elem)
	}

	return list, nil
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Pos: toPosition(p.current.Pos),
		Msg: fmt.Sprintf(format, args...),
	}
}

// lexError converts a tokenizer failure into a ParseError. Input the lexer
// cannot match is almost always an unterminated string literal.
func (p *Parser) lexError(err error) error {
	var located interface {
		Position() lexer.Position
		Message() string
	}
	if errors.As(err, &located) {
		pos := toPosition(located.Position())
		if pos.Filename == "" {
			pos.Filename = p.filename
		}
		return &ParseError{Pos: pos, Msg: "invalid input (unterminated string?): " + located.Message()}
	}
	return &ParseError{Pos: toPosition(p.current.Pos), Msg: "invalid input (unterminated string?): " + err.Error()}
}
