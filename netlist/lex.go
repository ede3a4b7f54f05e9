package netlist

import (
	"strings"
)

// tokenKind identifies the lexical category of a token. This mirrors the
// token-kind switch the teacher's internal/hdl parser drives its pin-spec
// parser with (Ident/Comma/BracketOpen/BracketClose/Int/EOF); netlist adds
// the punctuation a gate-level Verilog subset needs instead of a bus spec.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokComma
	tokSemi
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset, for error messages
	line int
}

// lexer tokenizes netlist source one token at a time. Comments ("// ..." to
// end of line) are skipped transparently.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
				l.pos += i
			} else {
				l.pos = len(l.src)
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9') || c == '[' || c == ']'
}

// next returns the next token in the stream. Net names that use bus syntax
// (e.g. "bus[3]") are returned as a single identifier; this netlist subset
// has no bus expansion of its own (unlike the teacher's pin-spec lexer), so
// bracketed suffixes are just part of the name.
func (l *lexer) next() token {
	l.skipTrivia()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos, line: l.line}
	}
	start, line := l.pos, l.line
	c := l.src[l.pos]
	switch {
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start, line: line}
	case c == ';':
		l.pos++
		return token{kind: tokSemi, text: ";", pos: start, line: line}
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start, line: line}
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start, line: line}
	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
		}
		return token{kind: tokInt, text: l.src[start:l.pos], pos: start, line: line}
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start, line: line}
	default:
		l.pos++
		return token{kind: tokIdent, text: string(c), pos: start, line: line}
	}
}
