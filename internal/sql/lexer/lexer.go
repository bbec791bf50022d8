// Package lexer implements the lexical analyzer (tokenizer) for the SQL
// subset accepted by minisql.
//
// EDUCATIONAL NOTES:
// ------------------
// A lexer (also called tokenizer or scanner) is the first phase of a
// compiler front end. It reads the raw input string and converts it into a
// stream of tokens.
//
// For example, the input:
//   SELECT name FROM users WHERE id == 1;
//
// Becomes these tokens:
//   [SELECT] [IDENTIFIER:name] [FROM] [IDENTIFIER:users] [WHERE]
//   [IDENTIFIER:id] [EQUAL:==] [NUMBER:1] [SEMICOLON] [EOF]
//
// Unlike a lexer that stops at the first problem, this one keeps going:
// a bad character is reported and skipped, so a single run reports every
// lexical error in the input. Alongside the tokens it builds a table of
// the identifiers it has seen, in order of first appearance.

package lexer

import (
	"fmt"
)

// Result is the complete output of one lexer run.
type Result struct {
	Tokens      []Token
	Identifiers []Identifier
	Errors      []Error
}

// Lexer tokenizes SQL input.
type Lexer struct {
	input  []rune
	pos    int // index of the next unread character
	line   int
	column int

	identifiers []Identifier
	seen        map[string]struct{}
	errors      []Error
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{
		input:  []rune(input),
		line:   1,
		column: 1,
		seen:   make(map[string]struct{}),
	}
}

// Tokenize is a convenience wrapper around New(input).Tokenize().
func Tokenize(input string) Result {
	return New(input).Tokenize()
}

// atEnd reports whether every character has been consumed.
func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// peekChar looks offset characters ahead without advancing.
// It returns 0 past the end of input.
func (l *Lexer) peekChar(offset int) rune {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0
	}
	return l.input[p]
}

// readChar consumes one character and advances the position.
func (l *Lexer) readChar() rune {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// errorf records a lexical error at the given position.
func (l *Lexer) errorf(line, column int, format string, args ...any) {
	l.errors = append(l.errors, Error{
		Msg:    fmt.Sprintf(format, args...),
		Line:   line,
		Column: column,
	})
}

// NextToken returns the next token from the input.
//
// EDUCATIONAL NOTE:
// -----------------
// This is the main lexer function. It examines the current character and
// decides what kind of token it starts. Comments and malformed input do not
// produce tokens, so we loop until something does (or the input runs out).
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		if l.atEnd() {
			return Token{Type: TokenEOF, Line: l.line, Column: l.column}
		}

		line, column := l.line, l.column
		ch := l.peekChar(0)

		switch {
		case ch == '-' && l.peekChar(1) == '-':
			l.skipLineComment()
			continue
		case ch == '#' && l.peekChar(1) == '#':
			l.skipBlockComment()
			continue
		case ch == '\'':
			if tok, ok := l.readString(); ok {
				return tok
			}
			continue
		case isDigit(ch):
			return l.readNumber()
		case isLetter(ch):
			return l.readIdentifier()
		}

		if tok, ok := l.readOperator(); ok {
			return tok
		}

		l.errorf(line, column, "invalid character '%c'", ch)
		l.readChar()
	}
}

// Tokenize returns all tokens, the identifier table and the lexical errors.
// The token slice always ends with an EOF token.
func (l *Lexer) Tokenize() Result {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return Result{
		Tokens:      tokens,
		Identifiers: l.identifiers,
		Errors:      l.errors,
	}
}

// skipWhitespace skips spaces, tabs, and newlines.
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.peekChar(0)) {
		l.readChar()
	}
}

// skipLineComment skips a "--" comment up to (not including) the newline.
func (l *Lexer) skipLineComment() {
	l.readChar()
	l.readChar()
	for !l.atEnd() && l.peekChar(0) != '\n' {
		l.readChar()
	}
}

// skipBlockComment skips a "## ... ##" comment. An unterminated comment
// swallows the rest of the input and is reported at its opening "##".
func (l *Lexer) skipBlockComment() {
	line, column := l.line, l.column
	l.readChar()
	l.readChar()

	for !l.atEnd() {
		if l.peekChar(0) == '#' && l.peekChar(1) == '#' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}

	l.errorf(line, column, "unclosed comment")
}

// readString reads a string literal enclosed in single quotes.
//
// EDUCATIONAL NOTE:
// -----------------
// There are no escape sequences: the first quote after the opening one
// always closes the literal. The token keeps both quotes so that later
// phases can tell 'text' apart from a number by looking at the lexeme.
func (l *Lexer) readString() (Token, bool) {
	line, column := l.line, l.column
	start := l.pos

	l.readChar() // opening quote
	for !l.atEnd() && l.peekChar(0) != '\'' {
		l.readChar()
	}

	if l.atEnd() {
		l.errorf(line, column, "unclosed string")
		return Token{}, false
	}

	l.readChar() // closing quote
	return Token{
		Type:    TokenString,
		Literal: string(l.input[start:l.pos]),
		Line:    line,
		Column:  column,
	}, true
}

// readNumber reads a numeric literal. At most one '.' is consumed; a second
// one ends the number and is scanned again as a DOT token.
func (l *Lexer) readNumber() Token {
	line, column := l.line, l.column
	start := l.pos
	isFloat := false

	for !l.atEnd() {
		ch := l.peekChar(0)
		if ch == '.' {
			if isFloat {
				break
			}
			isFloat = true
		} else if !isDigit(ch) {
			break
		}
		l.readChar()
	}

	tokenType := TokenNumber
	if isFloat {
		tokenType = TokenFloat
	}

	return Token{
		Type:    tokenType,
		Literal: string(l.input[start:l.pos]),
		Line:    line,
		Column:  column,
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() Token {
	line, column := l.line, l.column
	start := l.pos

	for !l.atEnd() {
		ch := l.peekChar(0)
		if !isLetter(ch) && !isDigit(ch) && ch != '_' {
			break
		}
		l.readChar()
	}

	literal := string(l.input[start:l.pos])

	if tokenType, ok := keywords[literal]; ok {
		return Token{Type: tokenType, Literal: literal, Line: line, Column: column}
	}

	if _, ok := l.seen[literal]; !ok {
		l.seen[literal] = struct{}{}
		l.identifiers = append(l.identifiers, Identifier{Name: literal, Line: line, Column: column})
	}

	return Token{Type: TokenIdent, Literal: literal, Line: line, Column: column}
}

// twoCharOperators are matched before single characters.
var twoCharOperators = map[string]TokenType{
	"==": TokenEqual,
	"!=": TokenNotEqual,
	"<=": TokenLessEqual,
	">=": TokenGreaterEqual,
}

var singleCharOperators = map[rune]TokenType{
	'=': TokenEqual,
	'<': TokenLess,
	'>': TokenGreater,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMultiply,
	'/': TokenDivide,
	'(': TokenLeftParen,
	')': TokenRightParen,
	',': TokenComma,
	';': TokenSemicolon,
	'.': TokenDot,
}

// readOperator reads an operator or punctuation token.
func (l *Lexer) readOperator() (Token, bool) {
	line, column := l.line, l.column

	if l.peekChar(1) != 0 {
		pair := string([]rune{l.peekChar(0), l.peekChar(1)})
		if tokenType, ok := twoCharOperators[pair]; ok {
			l.readChar()
			l.readChar()
			return Token{Type: tokenType, Literal: pair, Line: line, Column: column}, true
		}
	}

	if tokenType, ok := singleCharOperators[l.peekChar(0)]; ok {
		ch := l.readChar()
		return Token{Type: tokenType, Literal: string(ch), Line: line, Column: column}, true
	}

	return Token{}, false
}

// isLetter checks if the character can start an identifier.
func isLetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// isDigit checks if the character is a digit.
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
