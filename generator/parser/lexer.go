package parser

import (
	"fmt"
	"strings"
)

// Lexer tokenizes GLSL-like source text.
type Lexer struct {
	source string
	pos    int
	line   int
	start  int
	// startLine is the line the current token began on.
	startLine int
	tokens    []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	estTokens := len(source) / 6
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		line:   1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source, terminated by TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.isAtEnd() {
			break
		}
		l.start = l.pos
		l.startLine = l.line
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Line: l.line})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	c := l.advance()
	switch {
	case c == '#':
		l.directive()
	case c == '/' && l.peek() == '/':
		for l.peek() != '\n' && !l.isAtEnd() {
			l.advance()
		}
		l.addToken(TokenLineComment)
	case c == '/' && l.peek() == '*':
		l.advance()
		for !(l.peek() == '*' && l.peekNext() == '/') {
			if l.isAtEnd() {
				return fmt.Errorf("line %d: unterminated block comment", l.startLine)
			}
			l.advance()
		}
		l.advance()
		l.advance()
		l.addToken(TokenBlockComment)
	case isIdentStart(c):
		for isIdentPart(l.peek()) {
			l.advance()
		}
		l.addToken(TokenIdent)
	case isDigit(c):
		for isIdentPart(l.peek()) || l.peek() == '.' {
			l.advance()
		}
		l.addToken(TokenNumber)
	default:
		l.addToken(TokenPunct)
	}
	return nil
}

// directive consumes a preprocessor line, honouring backslash continuations.
func (l *Lexer) directive() {
	for !l.isAtEnd() {
		if l.peek() == '\\' && l.peekNext() == '\n' {
			l.advance()
			l.advance()
			continue
		}
		if l.peek() == '\n' {
			break
		}
		l.advance()
	}
	l.addToken(TokenDirective)
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) addToken(kind TokenKind) {
	text := l.source[l.start:l.pos]
	if kind == TokenDirective || kind == TokenLineComment {
		text = strings.TrimRight(text, " \t\r")
	}
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Line: l.startLine})
}

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
