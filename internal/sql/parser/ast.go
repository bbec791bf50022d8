// Package parser implements a SQL parser that builds an Abstract Syntax Tree (AST).
//
// EDUCATIONAL NOTES:
// ------------------
// An Abstract Syntax Tree (AST) is a tree representation of the structure
// of source code. Each node in the tree represents a construct in the code.
//
// For example, the SQL:
//   SELECT name FROM users WHERE age > 18
//
// Becomes an AST like:
//   SelectStatement
//   ├── Columns: [name]
//   ├── From: users
//   └── Where: BinaryExpression(age > 18)
//
// Every node remembers where it came from in the source (line and column)
// so that later phases can point at the offending text. The semantic
// analyzer also writes the inferred type back into expression nodes.

package parser

import (
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes.
type Node interface {
	node()
	String() string
}

// Statement represents a SQL statement.
type Statement interface {
	Node
	statement()
	Position() Pos
}

// Expression represents a condition or arithmetic expression.
type Expression interface {
	Node
	expression()
	Position() Pos
}

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Position returns p itself; embedding Pos gives nodes a Position method.
func (p Pos) Position() Pos { return p }

// ============================================================================
// Data types
// ============================================================================

// DataType is a column type or the type inferred for an expression.
type DataType int

const (
	// TypeNone means no type has been assigned (yet).
	TypeNone DataType = iota
	TypeInt
	TypeFloat
	TypeText
	TypeUnknown
)

func (d DataType) String() string {
	switch d {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeUnknown:
		return "UNKNOWN"
	default:
		return ""
	}
}

// ParseDataType maps a declared column type name to its DataType.
// Only INT, FLOAT and TEXT are valid column types.
func ParseDataType(name string) (DataType, bool) {
	switch name {
	case "INT":
		return TypeInt, true
	case "FLOAT":
		return TypeFloat, true
	case "TEXT":
		return TypeText, true
	default:
		return TypeNone, false
	}
}

// ============================================================================
// Statements
// ============================================================================

// Query is the root of the tree: the statements of one source text, in order.
type Query struct {
	Statements []Statement
}

func (q *Query) node() {}
func (q *Query) String() string {
	parts := make([]string, len(q.Statements))
	for i, s := range q.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, ";\n")
}

// CreateTableStatement represents a CREATE TABLE statement.
//
// Example: CREATE TABLE users (id INT, name TEXT)
type CreateTableStatement struct {
	Pos
	Table   string
	Columns []ColumnDefinition
}

func (s *CreateTableStatement) node()      {}
func (s *CreateTableStatement) statement() {}
func (s *CreateTableStatement) String() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.String()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", s.Table, strings.Join(cols, ", "))
}

// ColumnDefinition represents a column definition in CREATE TABLE.
// Type holds the type name as written; validating it is the semantic
// analyzer's job.
type ColumnDefinition struct {
	Pos
	Name string
	Type string
}

func (c ColumnDefinition) String() string {
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}

// InsertStatement represents an INSERT statement. Values are matched to the
// table's columns by position.
//
// Example: INSERT INTO users VALUES (1, 'Alice')
type InsertStatement struct {
	Pos
	Table  string
	Values []*Literal
}

func (s *InsertStatement) node()      {}
func (s *InsertStatement) statement() {}
func (s *InsertStatement) String() string {
	vals := make([]string, len(s.Values))
	for i, v := range s.Values {
		vals[i] = v.String()
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", s.Table, strings.Join(vals, ", "))
}

// SelectStatement represents a SELECT query.
//
// Example: SELECT name, age FROM users WHERE age > 18
type SelectStatement struct {
	Pos
	Star    bool     // SELECT *
	Columns []string // empty when Star is set
	From    string
	Where   Expression // optional
}

func (s *SelectStatement) node()      {}
func (s *SelectStatement) statement() {}
func (s *SelectStatement) String() string {
	cols := "*"
	if !s.Star {
		cols = strings.Join(s.Columns, ", ")
	}
	out := fmt.Sprintf("SELECT %s FROM %s", cols, s.From)
	if s.Where != nil {
		out += " WHERE " + s.Where.String()
	}
	return out
}

// UpdateStatement represents an UPDATE statement.
//
// Example: UPDATE users SET age = 31 WHERE name == 'Alice'
type UpdateStatement struct {
	Pos
	Table       string
	Assignments []Assignment
	Where       Expression
}

func (s *UpdateStatement) node()      {}
func (s *UpdateStatement) statement() {}
func (s *UpdateStatement) String() string {
	sets := make([]string, len(s.Assignments))
	for i, a := range s.Assignments {
		sets[i] = a.String()
	}
	out := fmt.Sprintf("UPDATE %s SET %s", s.Table, strings.Join(sets, ", "))
	if s.Where != nil {
		out += " WHERE " + s.Where.String()
	}
	return out
}

// Assignment represents a column = value assignment in UPDATE.
type Assignment struct {
	Pos
	Column string
	Value  *Literal
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s = %s", a.Column, a.Value)
}

// DeleteStatement represents a DELETE statement.
//
// Example: DELETE FROM users WHERE age < 18
type DeleteStatement struct {
	Pos
	Table string
	Where Expression
}

func (s *DeleteStatement) node()      {}
func (s *DeleteStatement) statement() {}
func (s *DeleteStatement) String() string {
	out := fmt.Sprintf("DELETE FROM %s", s.Table)
	if s.Where != nil {
		out += " WHERE " + s.Where.String()
	}
	return out
}

// ============================================================================
// Expressions
// ============================================================================

// ColumnRef is a bare column name inside a condition.
type ColumnRef struct {
	Pos
	Name string
	Type DataType // set by semantic analysis
}

func (e *ColumnRef) node()          {}
func (e *ColumnRef) expression()    {}
func (e *ColumnRef) String() string { return e.Name }

// Literal is a number, float or string constant. Raw is the lexeme exactly
// as written, quotes included for strings.
type Literal struct {
	Pos
	Raw  string
	Type DataType // set by semantic analysis
}

func (e *Literal) node()          {}
func (e *Literal) expression()    {}
func (e *Literal) String() string { return e.Raw }

// BinaryExpression represents a binary operation (e.g., a == b, a + b).
//
// EDUCATIONAL NOTE:
// -----------------
// The same node is used for three families of operators:
// - Comparison: ==, !=, <, >, <=, >=
// - Logical: AND, OR
// - Arithmetic: +, -, *, /
//
// "=" and "==" share OpEquals. Lexeme keeps the spelling from the source
// so printed trees show the operator as written.
type BinaryExpression struct {
	Pos
	Left     Expression
	Operator BinaryOp
	Lexeme   string
	Right    Expression
	Type     DataType // set by semantic analysis
}

func (e *BinaryExpression) node()       {}
func (e *BinaryExpression) expression() {}
func (e *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Symbol(), e.Right)
}

// Symbol returns the operator as written, falling back to its canonical form.
func (e *BinaryExpression) Symbol() string {
	if e.Lexeme != "" {
		return e.Lexeme
	}
	return e.Operator.String()
}

// NotExpression represents NOT applied to a comparison.
type NotExpression struct {
	Pos
	Operand Expression
	Type    DataType // set by semantic analysis
}

func (e *NotExpression) node()       {}
func (e *NotExpression) expression() {}
func (e *NotExpression) String() string {
	return fmt.Sprintf("(NOT %s)", e.Operand)
}

// BinaryOp represents a binary operator.
type BinaryOp int

const (
	OpUnknown BinaryOp = iota
	// Comparison operators
	OpEquals
	OpNotEquals
	OpLessThan
	OpGreaterThan
	OpLessOrEqual
	OpGreaterOrEqual
	// Logical operators
	OpAnd
	OpOr
	// Arithmetic operators
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

func (op BinaryOp) String() string {
	switch op {
	case OpEquals:
		return "=="
	case OpNotEquals:
		return "!="
	case OpLessThan:
		return "<"
	case OpGreaterThan:
		return ">"
	case OpLessOrEqual:
		return "<="
	case OpGreaterOrEqual:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	default:
		return "?"
	}
}
