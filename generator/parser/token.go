// Package parser extracts binding declarations from annotated GLSL sources.
//
// It is a textual scanner over a small token stream, not a GLSL front end:
// only the declaration shapes the generator emits code for are recognised,
// everything else is skipped.
package parser

import "fmt"

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenPunct
	TokenLineComment
	TokenBlockComment
	TokenDirective
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenPunct:
		return "punctuation"
	case TokenLineComment:
		return "line comment"
	case TokenBlockComment:
		return "block comment"
	case TokenDirective:
		return "directive"
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// Token is a lexical unit. Text holds the raw source slice; comments keep their
// delimiters and directives span the whole line.
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) isComment() bool {
	return t.Kind == TokenLineComment || t.Kind == TokenBlockComment
}
