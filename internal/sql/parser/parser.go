// Package parser - SQL Parser implementation
//
// EDUCATIONAL NOTES:
// ------------------
// A parser reads tokens from the lexer and builds an Abstract Syntax Tree (AST).
// This is the second phase of compilation, after lexing.
//
// We use a "recursive descent" parser, one of the simplest and most
// intuitive parsing techniques. Each grammar rule becomes a function:
//
//   Query      := Statement (';' Statement)* ';'?
//   Condition  := Disjunction
//   Disjunction:= Conjunction (OR Conjunction)*
//   Conjunction:= Negation (AND Negation)*
//   Negation   := NOT Comparison | Comparison
//   Comparison := Expression ((==|!=|<|>|<=|>=) Expression)?
//   Expression := Term ((+|-) Term)*
//   Term       := Factor ((*|/) Factor)*
//   Factor     := '(' Condition ')' | ident | NUMBER | FLOAT | STRING
//
// Error recovery uses "panic mode": on the first unexpected token inside a
// statement we record one syntax error, abandon the statement, and skip
// tokens until something that can safely start over (a ';', a statement
// keyword or the end of input). That way one typo produces one error and
// the rest of the input is still checked.

package parser

import (
	"fmt"

	"github.com/cabewaldrop/minisql/internal/sql/lexer"
)

// SyntaxError describes an expected-token mismatch.
type SyntaxError struct {
	Expected string // the construct the parser was looking for
	Found    string // lexeme of the offending token, or its kind when empty
	Line     int
	Column   int
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error: Expected %s at line %d, position %d; found '%s'",
		e.Expected, e.Line, e.Column, e.Found)
}

// Parser parses a token sequence into an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []SyntaxError
}

// New creates a new Parser over an already lexed token sequence.
// The sequence does not need to end with EOF; one is implied.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse is a convenience wrapper around New(tokens).Parse().
func Parse(tokens []lexer.Token) (*Query, []SyntaxError) {
	return New(tokens).Parse()
}

// Parse parses every statement and returns the tree with all syntax errors.
//
// Statements that contain an error are left out of the tree.
func (p *Parser) Parse() (*Query, []SyntaxError) {
	q := &Query{}

	for !p.curTokenIs(lexer.TokenEOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			// Already reported and synchronized.
			if p.curTokenIs(lexer.TokenSemicolon) {
				p.nextToken()
			}
			continue
		}
		q.Statements = append(q.Statements, stmt)

		switch {
		case p.curTokenIs(lexer.TokenSemicolon):
			p.nextToken()
		case p.curTokenIs(lexer.TokenEOF):
		default:
			p.errorAt("';'")
			if p.curTokenIs(lexer.TokenSemicolon) {
				p.nextToken()
			}
		}
	}

	return q, p.errors
}

// Errors returns any parsing errors encountered.
func (p *Parser) Errors() []SyntaxError {
	return p.errors
}

// curToken returns the token under the cursor, or a synthetic EOF past the end.
func (p *Parser) curToken() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	eof := lexer.Token{Type: lexer.TokenEOF}
	if n := len(p.tokens); n > 0 {
		eof.Line, eof.Column = p.tokens[n-1].Line, p.tokens[n-1].Column
	}
	return eof
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// curTokenIs checks if the current token is of the given type.
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken().Type == t
}

// accept consumes the current token if it has the given type.
func (p *Parser) accept(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes and returns the current token if it has the given type.
// Otherwise it reports an error and synchronizes.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	tok := p.curToken()
	if tok.Type == t {
		p.nextToken()
		return tok, true
	}
	p.errorAt(fmt.Sprintf("'%s'", t))
	return tok, false
}

// errorAt records a syntax error at the current token and skips ahead to
// the next synchronization point.
func (p *Parser) errorAt(expected string) {
	tok := p.curToken()
	found := tok.Literal
	if found == "" {
		found = tok.Type.String()
	}
	p.errors = append(p.errors, SyntaxError{
		Expected: expected,
		Found:    found,
		Line:     tok.Line,
		Column:   tok.Column,
	})
	p.synchronize()
}

// synchronize discards tokens until one that can restart parsing.
func (p *Parser) synchronize() {
	for {
		t := p.curToken().Type
		if t == lexer.TokenSemicolon || t == lexer.TokenEOF || t.IsStatementStart() {
			return
		}
		p.nextToken()
	}
}

func posOf(tok lexer.Token) Pos {
	return Pos{Line: tok.Line, Column: tok.Column}
}

// parseStatement parses a SQL statement.
//
// EDUCATIONAL NOTE:
// -----------------
// This is the entry point for parsing a single statement. We look at the
// first token to determine what kind of statement we're parsing. Every
// parse function returns nil once it has reported an error.
func (p *Parser) parseStatement() Statement {
	var stmt Statement
	switch p.curToken().Type {
	case lexer.TokenCreate:
		if s := p.parseCreateTableStatement(); s != nil {
			stmt = s
		}
	case lexer.TokenInsert:
		if s := p.parseInsertStatement(); s != nil {
			stmt = s
		}
	case lexer.TokenSelect:
		if s := p.parseSelectStatement(); s != nil {
			stmt = s
		}
	case lexer.TokenUpdate:
		if s := p.parseUpdateStatement(); s != nil {
			stmt = s
		}
	case lexer.TokenDelete:
		if s := p.parseDeleteStatement(); s != nil {
			stmt = s
		}
	default:
		p.errorAt("statement (CREATE/INSERT/SELECT/UPDATE/DELETE)")
	}
	return stmt
}

// parseCreateTableStatement parses: CREATE TABLE name (column_definitions)
func (p *Parser) parseCreateTableStatement() *CreateTableStatement {
	start := p.curToken()
	p.nextToken() // move past CREATE

	if _, ok := p.expect(lexer.TokenTable); !ok {
		return nil
	}

	name, ok := p.expect(lexer.TokenIdent)
	if !ok {
		return nil
	}

	if _, ok := p.expect(lexer.TokenLeftParen); !ok {
		return nil
	}

	columns, ok := p.parseColumnDefinitions()
	if !ok {
		return nil
	}

	if _, ok := p.expect(lexer.TokenRightParen); !ok {
		return nil
	}

	return &CreateTableStatement{
		Pos:     posOf(start),
		Table:   name.Literal,
		Columns: columns,
	}
}

// parseColumnDefinitions parses one or more "name TYPE" pairs.
//
// The type may also be a plain identifier (e.g. BOOL): it is kept as
// written so that the semantic analyzer can report it as an invalid type.
func (p *Parser) parseColumnDefinitions() ([]ColumnDefinition, bool) {
	var columns []ColumnDefinition

	for {
		name, ok := p.expect(lexer.TokenIdent)
		if !ok {
			return nil, false
		}

		typ := p.curToken()
		switch typ.Type {
		case lexer.TokenInt, lexer.TokenFloatType, lexer.TokenText, lexer.TokenIdent:
			p.nextToken()
		default:
			p.errorAt("column type (INT/FLOAT/TEXT)")
			return nil, false
		}

		columns = append(columns, ColumnDefinition{
			Pos:  posOf(name),
			Name: name.Literal,
			Type: typ.Literal,
		})

		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	return columns, true
}

// parseInsertStatement parses: INSERT INTO table VALUES (values)
func (p *Parser) parseInsertStatement() *InsertStatement {
	start := p.curToken()
	p.nextToken() // move past INSERT

	if _, ok := p.expect(lexer.TokenInto); !ok {
		return nil
	}

	name, ok := p.expect(lexer.TokenIdent)
	if !ok {
		return nil
	}

	if _, ok := p.expect(lexer.TokenValues); !ok {
		return nil
	}

	if _, ok := p.expect(lexer.TokenLeftParen); !ok {
		return nil
	}

	var values []*Literal
	for {
		v := p.parseValue()
		if v == nil {
			return nil
		}
		values = append(values, v)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	if _, ok := p.expect(lexer.TokenRightParen); !ok {
		return nil
	}

	return &InsertStatement{
		Pos:    posOf(start),
		Table:  name.Literal,
		Values: values,
	}
}

// parseValue parses a NUMBER, FLOAT or STRING literal.
func (p *Parser) parseValue() *Literal {
	tok := p.curToken()
	switch tok.Type {
	case lexer.TokenNumber, lexer.TokenFloat, lexer.TokenString:
		p.nextToken()
		return &Literal{Pos: posOf(tok), Raw: tok.Literal}
	default:
		p.errorAt("value (NUMBER, FLOAT or STRING)")
		return nil
	}
}

// parseSelectStatement parses: SELECT columns FROM table [WHERE condition]
func (p *Parser) parseSelectStatement() *SelectStatement {
	start := p.curToken()
	p.nextToken() // move past SELECT

	stmt := &SelectStatement{Pos: posOf(start)}

	if p.accept(lexer.TokenMultiply) {
		stmt.Star = true
	} else {
		for {
			col, ok := p.expect(lexer.TokenIdent)
			if !ok {
				return nil
			}
			stmt.Columns = append(stmt.Columns, col.Literal)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
	}

	if _, ok := p.expect(lexer.TokenFrom); !ok {
		return nil
	}

	name, ok := p.expect(lexer.TokenIdent)
	if !ok {
		return nil
	}
	stmt.From = name.Literal

	where, ok := p.parseOptionalWhere()
	if !ok {
		return nil
	}
	stmt.Where = where

	return stmt
}

// parseUpdateStatement parses: UPDATE table SET column = value, ... [WHERE condition]
func (p *Parser) parseUpdateStatement() *UpdateStatement {
	start := p.curToken()
	p.nextToken() // move past UPDATE

	name, ok := p.expect(lexer.TokenIdent)
	if !ok {
		return nil
	}

	if _, ok := p.expect(lexer.TokenSet); !ok {
		return nil
	}

	stmt := &UpdateStatement{Pos: posOf(start), Table: name.Literal}

	for {
		col, ok := p.expect(lexer.TokenIdent)
		if !ok {
			return nil
		}
		if _, ok := p.expect(lexer.TokenEqual); !ok {
			return nil
		}
		value := p.parseValue()
		if value == nil {
			return nil
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{
			Pos:    posOf(col),
			Column: col.Literal,
			Value:  value,
		})
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	where, ok := p.parseOptionalWhere()
	if !ok {
		return nil
	}
	stmt.Where = where

	return stmt
}

// parseDeleteStatement parses: DELETE FROM table [WHERE condition]
func (p *Parser) parseDeleteStatement() *DeleteStatement {
	start := p.curToken()
	p.nextToken() // move past DELETE

	if _, ok := p.expect(lexer.TokenFrom); !ok {
		return nil
	}

	name, ok := p.expect(lexer.TokenIdent)
	if !ok {
		return nil
	}

	where, ok := p.parseOptionalWhere()
	if !ok {
		return nil
	}

	return &DeleteStatement{Pos: posOf(start), Table: name.Literal, Where: where}
}

// parseOptionalWhere parses "WHERE condition" if present. A missing WHERE
// clause is not an error; the bool is false only when parsing failed.
func (p *Parser) parseOptionalWhere() (Expression, bool) {
	if !p.accept(lexer.TokenWhere) {
		return nil, true
	}
	cond := p.parseCondition()
	return cond, cond != nil
}

// ============================================================================
// Condition and expression parsing
// ============================================================================

// EDUCATIONAL NOTE:
// -----------------
// Precedence is encoded in the call chain: each level only calls the next
// tighter-binding level for its operands, so in "a OR b AND c" the AND is
// grouped first. All binary levels loop, which makes them left-associative.
// Comparison does not loop: "a == b == c" stops after "a == b".

var comparisonOps = map[lexer.TokenType]BinaryOp{
	lexer.TokenEqual:        OpEquals,
	lexer.TokenNotEqual:     OpNotEquals,
	lexer.TokenLess:         OpLessThan,
	lexer.TokenGreater:      OpGreaterThan,
	lexer.TokenLessEqual:    OpLessOrEqual,
	lexer.TokenGreaterEqual: OpGreaterOrEqual,
}

func (p *Parser) parseCondition() Expression {
	return p.parseDisjunction()
}

func (p *Parser) parseDisjunction() Expression {
	return p.parseBinaryLevel(p.parseConjunction, map[lexer.TokenType]BinaryOp{
		lexer.TokenOr: OpOr,
	})
}

func (p *Parser) parseConjunction() Expression {
	return p.parseBinaryLevel(p.parseNegation, map[lexer.TokenType]BinaryOp{
		lexer.TokenAnd: OpAnd,
	})
}

func (p *Parser) parseNegation() Expression {
	if !p.curTokenIs(lexer.TokenNot) {
		return p.parseComparison()
	}
	tok := p.curToken()
	p.nextToken()

	operand := p.parseComparison()
	if operand == nil {
		return nil
	}
	return &NotExpression{Pos: posOf(tok), Operand: operand}
}

func (p *Parser) parseComparison() Expression {
	left := p.parseExpression()
	if left == nil {
		return nil
	}

	tok := p.curToken()
	op, ok := comparisonOps[tok.Type]
	if !ok {
		return left
	}
	p.nextToken()

	right := p.parseExpression()
	if right == nil {
		return nil
	}
	return &BinaryExpression{Pos: posOf(tok), Left: left, Operator: op, Lexeme: tok.Literal, Right: right}
}

func (p *Parser) parseExpression() Expression {
	return p.parseBinaryLevel(p.parseTerm, map[lexer.TokenType]BinaryOp{
		lexer.TokenPlus:  OpAdd,
		lexer.TokenMinus: OpSubtract,
	})
}

func (p *Parser) parseTerm() Expression {
	return p.parseBinaryLevel(p.parseFactor, map[lexer.TokenType]BinaryOp{
		lexer.TokenMultiply: OpMultiply,
		lexer.TokenDivide:   OpDivide,
	})
}

// parseBinaryLevel parses operand (op operand)* and folds to the left.
func (p *Parser) parseBinaryLevel(operand func() Expression, ops map[lexer.TokenType]BinaryOp) Expression {
	left := operand()
	if left == nil {
		return nil
	}

	for {
		tok := p.curToken()
		op, ok := ops[tok.Type]
		if !ok {
			return left
		}
		p.nextToken()

		right := operand()
		if right == nil {
			return nil
		}
		left = &BinaryExpression{Pos: posOf(tok), Left: left, Operator: op, Lexeme: tok.Literal, Right: right}
	}
}

// parseFactor parses a parenthesized condition, a column name or a literal.
func (p *Parser) parseFactor() Expression {
	tok := p.curToken()

	switch tok.Type {
	case lexer.TokenLeftParen:
		p.nextToken()
		cond := p.parseCondition()
		if cond == nil {
			return nil
		}
		if _, ok := p.expect(lexer.TokenRightParen); !ok {
			return nil
		}
		return cond

	case lexer.TokenIdent:
		p.nextToken()
		return &ColumnRef{Pos: posOf(tok), Name: tok.Literal}

	case lexer.TokenNumber, lexer.TokenFloat, lexer.TokenString:
		p.nextToken()
		return &Literal{Pos: posOf(tok), Raw: tok.Literal}

	default:
		p.errorAt("identifier, number, string or '('")
		return nil
	}
}
