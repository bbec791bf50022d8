package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Literals
	TokenIdent  // column names, table names
	TokenNumber // 123
	TokenFloat  // 45.67
	TokenString // 'hello'

	// Keywords
	TokenSelect
	TokenFrom
	TokenWhere
	TokenInsert
	TokenInto
	TokenValues
	TokenUpdate
	TokenSet
	TokenDelete
	TokenCreate
	TokenTable
	TokenAnd
	TokenOr
	TokenNot

	// Data types
	TokenInt
	TokenFloatType
	TokenText

	// Operators
	TokenEqual        // = or ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenPlus         // +
	TokenMinus        // -
	TokenMultiply     // *
	TokenDivide       // /

	// Punctuation
	TokenLeftParen  // (
	TokenRightParen // )
	TokenComma      // ,
	TokenSemicolon  // ;
	TokenDot        // .
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenIdent:        "IDENTIFIER",
	TokenNumber:       "NUMBER",
	TokenFloat:        "FLOAT",
	TokenString:       "STRING",
	TokenSelect:       "SELECT",
	TokenFrom:         "FROM",
	TokenWhere:        "WHERE",
	TokenInsert:       "INSERT",
	TokenInto:         "INTO",
	TokenValues:       "VALUES",
	TokenUpdate:       "UPDATE",
	TokenSet:          "SET",
	TokenDelete:       "DELETE",
	TokenCreate:       "CREATE",
	TokenTable:        "TABLE",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenInt:          "INT",
	TokenFloatType:    "FLOAT",
	TokenText:         "TEXT",
	TokenEqual:        "EQUAL",
	TokenNotEqual:     "NOT_EQUAL",
	TokenLess:         "LESS",
	TokenGreater:      "GREATER",
	TokenLessEqual:    "LESS_EQUAL",
	TokenGreaterEqual: "GREATER_EQUAL",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenMultiply:     "MULTIPLY",
	TokenDivide:       "DIVIDE",
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenComma:        "COMMA",
	TokenSemicolon:    "SEMICOLON",
	TokenDot:          "DOT",
}

// String returns the kind name used in diagnostics and token listings.
// The FLOAT literal and the FLOAT type keyword share the name "FLOAT".
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// IsKeyword reports whether t is one of the reserved words.
func (t TokenType) IsKeyword() bool {
	return t >= TokenSelect && t <= TokenText
}

// IsStatementStart reports whether t can begin a statement.
func (t TokenType) IsStatementStart() bool {
	switch t {
	case TokenCreate, TokenInsert, TokenSelect, TokenUpdate, TokenDelete:
		return true
	}
	return false
}

// keywords maps the reserved words to their token types.
// Matching is case-sensitive: only the uppercase spelling is reserved.
var keywords = map[string]TokenType{
	"SELECT": TokenSelect,
	"FROM":   TokenFrom,
	"WHERE":  TokenWhere,
	"INSERT": TokenInsert,
	"INTO":   TokenInto,
	"VALUES": TokenValues,
	"UPDATE": TokenUpdate,
	"SET":    TokenSet,
	"DELETE": TokenDelete,
	"CREATE": TokenCreate,
	"TABLE":  TokenTable,
	"INT":    TokenInt,
	"FLOAT":  TokenFloatType,
	"TEXT":   TokenText,
	"AND":    TokenAnd,
	"OR":     TokenOr,
	"NOT":    TokenNot,
}

// LookupKeyword returns the token type for a reserved word.
func LookupKeyword(word string) (TokenType, bool) {
	t, ok := keywords[word]
	return t, ok
}

// ReservedWords returns the reserved words in no particular order.
func ReservedWords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	return words
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, line:%d, col:%d}",
		t.Type, t.Literal, t.Line, t.Column)
}

// Identifier records the first occurrence of an identifier in the source.
type Identifier struct {
	Name   string
	Line   int
	Column int
}

// Error is a lexical error with the position where it was detected.
type Error struct {
	Msg    string
	Line   int
	Column int
}

func (e Error) Error() string {
	return fmt.Sprintf("Lexical Error: %s at line %d, position %d.", e.Msg, e.Line, e.Column)
}
