// Package semantic implements semantic analysis: it walks the AST produced
// by the parser, builds the schema catalog from CREATE TABLE statements and
// checks every other statement against it.
//
// EDUCATIONAL NOTES:
// ------------------
// A parser only knows whether the input is shaped correctly. It happily
// accepts "SELECT ghost FROM nowhere" because that is valid grammar.
// Semantic analysis answers the next questions:
// - Does the table exist? Does the column?
// - Does an INSERT supply one value per column, of a suitable type?
// - Are both sides of a comparison of the same type?
//
// Statements are processed in order, so a table can only be used after the
// CREATE TABLE that defines it. A failure in one statement is recorded and
// analysis moves on to the next statement; it never aborts the whole run.

package semantic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cabewaldrop/minisql/internal/catalog"
	"github.com/cabewaldrop/minisql/internal/sql/parser"
)

// Error is a semantic error with the position of the construct at fault.
type Error struct {
	Msg    string
	Line   int
	Column int
}

func (e Error) Error() string {
	return fmt.Sprintf("Semantic Error: %s at line %d, position %d.", e.Msg, e.Line, e.Column)
}

// errorAt builds an Error positioned at pos.
func errorAt(pos parser.Pos, format string, args ...any) error {
	return Error{Msg: fmt.Sprintf(format, args...), Line: pos.Line, Column: pos.Column}
}

// positioned attaches pos to err unless err already is an Error.
// Catalog errors carry their final wording but no position.
func positioned(pos parser.Pos, err error) Error {
	var semErr Error
	if errors.As(err, &semErr) {
		return semErr
	}
	return Error{Msg: err.Error(), Line: pos.Line, Column: pos.Column}
}

// Analyzer checks statements against a catalog it builds as it goes.
// An Analyzer is meant for a single run; create a new one per query.
type Analyzer struct {
	catalog *catalog.Catalog
	errors  []Error

	// current is the table bare column names resolve against, if any.
	current *catalog.TableInfo
}

// New creates an Analyzer with an empty catalog.
func New() *Analyzer {
	return &Analyzer{catalog: catalog.NewCatalog()}
}

// Analyze is a convenience wrapper around New().Analyze(q).
func Analyze(q *parser.Query) (*catalog.Catalog, []Error) {
	return New().Analyze(q)
}

// Analyze checks every statement of q in order. It returns the catalog
// built from the successful CREATE TABLE statements and every error found.
func (a *Analyzer) Analyze(q *parser.Query) (*catalog.Catalog, []Error) {
	for _, stmt := range q.Statements {
		if err := a.analyzeStatement(stmt); err != nil {
			a.errors = append(a.errors, positioned(stmt.Position(), err))
		}
		a.current = nil
	}
	return a.catalog, a.errors
}

// Catalog returns the catalog built so far.
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.catalog
}

// Errors returns the errors collected so far.
func (a *Analyzer) Errors() []Error {
	return a.errors
}

// analyzeStatement dispatches on the statement kind.
func (a *Analyzer) analyzeStatement(stmt parser.Statement) error {
	switch s := stmt.(type) {
	case *parser.CreateTableStatement:
		return a.analyzeCreate(s)
	case *parser.InsertStatement:
		return a.analyzeInsert(s)
	case *parser.SelectStatement:
		return a.analyzeSelect(s)
	case *parser.UpdateStatement:
		return a.analyzeUpdate(s)
	case *parser.DeleteStatement:
		return a.analyzeDelete(s)
	default:
		panic(fmt.Sprintf("semantic: unhandled statement type %T", stmt))
	}
}

func (a *Analyzer) analyzeCreate(s *parser.CreateTableStatement) error {
	columns := make([]catalog.ColumnInfo, len(s.Columns))
	for i, col := range s.Columns {
		typ, ok := parser.ParseDataType(col.Type)
		if !ok {
			return errorAt(s.Pos, "Invalid column type '%s'. Allowed: INT, FLOAT, TEXT", col.Type)
		}
		columns[i] = catalog.ColumnInfo{Name: col.Name, Type: typ}
	}

	if err := a.catalog.AddTable(s.Table, columns); err != nil {
		return positioned(s.Pos, err)
	}
	return nil
}

func (a *Analyzer) analyzeInsert(s *parser.InsertStatement) error {
	table, err := a.catalog.LookupTable(s.Table)
	if err != nil {
		return positioned(s.Pos, err)
	}

	if len(s.Values) != len(table.Columns) {
		return errorAt(s.Pos,
			"Column count mismatch. Table '%s' has %d columns, but %d values were provided.",
			s.Table, len(table.Columns), len(s.Values))
	}

	for i, val := range s.Values {
		col := table.Columns[i]
		valType := InferType(val.Raw)
		if !Compatible(col.Type, valType) {
			return errorAt(s.Pos, "Type mismatch for column '%s'. Expected %s, got %s ('%s')",
				col.Name, col.Type, valType, strings.Trim(val.Raw, "'"))
		}
		val.Type = valType
	}
	return nil
}

func (a *Analyzer) analyzeSelect(s *parser.SelectStatement) error {
	table, err := a.catalog.LookupTable(s.From)
	if err != nil {
		return positioned(s.Pos, err)
	}
	a.current = table

	if !s.Star {
		for _, name := range s.Columns {
			if _, err := a.catalog.ColumnType(s.From, name); err != nil {
				return positioned(s.Pos, err)
			}
		}
	}

	return a.analyzeWhere(s.Where)
}

func (a *Analyzer) analyzeUpdate(s *parser.UpdateStatement) error {
	table, err := a.catalog.LookupTable(s.Table)
	if err != nil {
		return positioned(s.Pos, err)
	}
	a.current = table

	for _, asg := range s.Assignments {
		colType, err := a.catalog.ColumnType(s.Table, asg.Column)
		if err != nil {
			return positioned(s.Pos, err)
		}
		valType := InferType(asg.Value.Raw)
		if !Compatible(colType, valType) {
			return errorAt(s.Pos, "Type mismatch in assignment for '%s'. Expected %s, got %s ('%s')",
				asg.Column, colType, valType, strings.Trim(asg.Value.Raw, "'"))
		}
		asg.Value.Type = valType
	}

	return a.analyzeWhere(s.Where)
}

func (a *Analyzer) analyzeDelete(s *parser.DeleteStatement) error {
	table, err := a.catalog.LookupTable(s.Table)
	if err != nil {
		return positioned(s.Pos, err)
	}
	a.current = table

	return a.analyzeWhere(s.Where)
}

func (a *Analyzer) analyzeWhere(where parser.Expression) error {
	if where == nil {
		return nil
	}
	_, err := a.checkExpression(where)
	return err
}

// checkExpression type-checks e and returns its type. Types are written
// back into the nodes as they are resolved.
//
// EDUCATIONAL NOTE:
// -----------------
// Arithmetic, comparison and logical operators are all treated alike: both
// operands must have the same type (unless one is untyped) and the result
// takes the type of the left operand. So "a AND b" over two INT columns is
// accepted and typed INT.
func (a *Analyzer) checkExpression(e parser.Expression) (parser.DataType, error) {
	switch n := e.(type) {
	case *parser.BinaryExpression:
		left, err := a.checkExpression(n.Left)
		if err != nil {
			return parser.TypeNone, err
		}
		right, err := a.checkExpression(n.Right)
		if err != nil {
			return parser.TypeNone, err
		}
		if left != right && left != parser.TypeNone && right != parser.TypeNone {
			return parser.TypeNone, errorAt(n.Pos,
				"Type mismatch in comparison/operation. Cannot compare %s with %s.", left, right)
		}
		n.Type = left
		return left, nil

	case *parser.NotExpression:
		typ, err := a.checkExpression(n.Operand)
		if err != nil {
			return parser.TypeNone, err
		}
		n.Type = typ
		return typ, nil

	case *parser.ColumnRef:
		if a.current == nil {
			return parser.TypeNone, errorAt(n.Pos,
				"Column '%s' used out of context (no table specified).", n.Name)
		}
		typ, err := a.catalog.ColumnType(a.current.Name, n.Name)
		if err != nil {
			return parser.TypeNone, positioned(n.Pos, err)
		}
		n.Type = typ
		return typ, nil

	case *parser.Literal:
		if n.Raw == "" {
			return parser.TypeNone, nil
		}
		n.Type = InferType(n.Raw)
		return n.Type, nil

	default:
		panic(fmt.Sprintf("semantic: unhandled expression type %T", e))
	}
}
