// Package render formats analysis results for terminals: token and
// identifier tables, phase error lists, the symbol table and the annotated
// parse tree.
//
// EDUCATIONAL NOTES:
// ------------------
// All output goes through a Printer that owns an io.Writer and a set of
// colors. Tests and the web layer pass a bytes.Buffer and turn colors off;
// the CLI passes os.Stdout. Nothing in this package writes to a global
// stream directly.

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cabewaldrop/minisql/internal/catalog"
	"github.com/cabewaldrop/minisql/internal/compiler"
	"github.com/cabewaldrop/minisql/internal/sql/lexer"
)

const (
	wideRule   = 80
	narrowRule = 60
)

// Printer writes formatted results to an io.Writer.
type Printer struct {
	w io.Writer

	header  *color.Color
	success *color.Color
	failure *color.Color
	dim     *color.Color
}

// New creates a Printer writing to w. With useColor false every color
// is disabled, whatever the terminal supports.
func New(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:       w,
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.header, p.success, p.failure, p.dim} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) rule(width int) {
	fmt.Fprintln(p.w, strings.Repeat("=", width))
}

func (p *Printer) section(title string, width int, c *color.Color) {
	fmt.Fprintln(p.w)
	p.rule(width)
	c.Fprintln(p.w, title)
	p.rule(width)
}

// Tokens prints the token table.
func (p *Printer) Tokens(tokens []lexer.Token) {
	p.section("TOKENS", wideRule, p.header)
	fmt.Fprintf(p.w, "%-20s %-25s %-10s %-10s\n", "TYPE", "LEXEME", "LINE", "COLUMN")
	fmt.Fprintln(p.w, strings.Repeat("-", wideRule))
	for _, tok := range tokens {
		fmt.Fprintf(p.w, "%-20s %-25s %-10d %-10d\n", tok.Type, tok.Literal, tok.Line, tok.Column)
	}
	p.rule(wideRule)
}

// Identifiers prints the identifier table. Nothing is printed when ids
// is empty.
func (p *Printer) Identifiers(ids []lexer.Identifier) {
	if len(ids) == 0 {
		return
	}
	p.section("IDENTIFIERS", wideRule, p.header)
	fmt.Fprintf(p.w, "%-25s %-20s %-10s %-10s\n", "NAME", "TYPE", "LINE", "COLUMN")
	fmt.Fprintln(p.w, strings.Repeat("-", wideRule))
	for _, id := range ids {
		fmt.Fprintf(p.w, "%-25s %-20s %-10d %-10d\n", id.Name, lexer.TokenIdent, id.Line, id.Column)
	}
	p.rule(wideRule)
}

// Errors prints a numbered error list under title. Nothing is printed
// when errs is empty.
func (p *Printer) Errors(title string, errs []error) {
	if len(errs) == 0 {
		return
	}
	p.section(title, wideRule, p.failure)
	for i, err := range errs {
		fmt.Fprintf(p.w, "%d. %s\n", i+1, err)
	}
	p.rule(wideRule)
}

// SymbolTable prints every column of every table in creation order.
func (p *Printer) SymbolTable(cat *catalog.Catalog) {
	p.section("FINAL SYMBOL TABLE", narrowRule, p.header)
	fmt.Fprintf(p.w, "%-20s %-20s %-10s\n", "TABLE", "COLUMN", "TYPE")
	fmt.Fprintln(p.w, strings.Repeat("-", narrowRule))
	for _, t := range cat.Tables() {
		for _, col := range t.Columns {
			fmt.Fprintf(p.w, "%-20s %-20s %-10s\n", t.Name, col.Name, col.Type)
		}
	}
	p.rule(narrowRule)
}

// TableDDL prints one table as a CREATE TABLE statement.
func (p *Printer) TableDDL(t *catalog.TableInfo) {
	fmt.Fprintf(p.w, "CREATE TABLE %s (\n", t.Name)
	for i, col := range t.Columns {
		comma := ","
		if i == len(t.Columns)-1 {
			comma = ""
		}
		fmt.Fprintf(p.w, "  %s %s%s\n", col.Name, col.Type, comma)
	}
	fmt.Fprintln(p.w, ");")
}

// phaseTitles names the error section of each failing phase.
var phaseTitles = map[compiler.Phase]string{
	compiler.PhaseLexical:  "LEXICAL ERRORS",
	compiler.PhaseSyntax:   "SYNTAX ERRORS",
	compiler.PhaseSemantic: "SEMANTIC ERRORS",
}

// Result prints a full analysis report. With verbose set the token and
// identifier tables come first.
func (p *Printer) Result(res *compiler.Result, verbose bool) {
	if verbose {
		p.Tokens(res.Tokens)
		p.Identifiers(res.Identifiers)
	}

	if !res.OK() {
		p.Errors(phaseTitles[res.Phase], res.Errors())
		return
	}

	p.success.Fprintln(p.w, "Semantic Analysis Successful. Query is valid.")
	p.SymbolTable(res.Schema)

	p.section("ANNOTATED PARSE TREE", narrowRule, p.header)
	p.Tree(res.AST)
	p.rule(narrowRule)
}
