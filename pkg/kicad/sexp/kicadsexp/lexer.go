package kicadsexp

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// SexpLexer defines the lexical structure of KiCad S-expression files.
// Strings may span lines and use backslash escapes; atoms are any run of
// characters that are not whitespace, parentheses or quotes.
var SexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\[\s\S])*"`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
})

var (
	tokenWhitespace = SexpLexer.Symbols()["Whitespace"]
	tokenLParen     = SexpLexer.Symbols()["LParen"]
	tokenRParen     = SexpLexer.Symbols()["RParen"]
	tokenString     = SexpLexer.Symbols()["String"]
	tokenAtom       = SexpLexer.Symbols()["Atom"]
)

func toPosition(p lexer.Position) Position {
	return Position{
		Filename: p.Filename,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}
}

// unquote strips the surrounding quotes of a String token and resolves
// escape sequences. Unknown escapes keep the escaped character.
func unquote(raw string) string {
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	escaped := false
	for _, ch := range body {
		if !escaped {
			if ch == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(ch)
			continue
		}
		escaped = false
		switch ch {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
