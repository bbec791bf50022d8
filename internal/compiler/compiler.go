// Package compiler runs the three analysis phases over a piece of SQL and
// collects everything they produce into a single Result.
//
// EDUCATIONAL NOTES:
// ------------------
// The phases form a pipeline:
//
//	source --lexer--> tokens --parser--> AST --semantic--> schema + types
//
// Each phase only runs when the one before it produced no errors. Running
// the parser over a token stream with holes in it, or type-checking an AST
// with abandoned statements, would only produce follow-on noise.
//
// Every call to Compile builds its own lexer, parser and analyzer, so
// concurrent calls never share state.

package compiler

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cabewaldrop/minisql/internal/catalog"
	"github.com/cabewaldrop/minisql/internal/sql/lexer"
	"github.com/cabewaldrop/minisql/internal/sql/parser"
	"github.com/cabewaldrop/minisql/internal/sql/semantic"
)

// Phase identifies where a run stopped.
type Phase int

const (
	PhaseLexical Phase = iota
	PhaseSyntax
	PhaseSemantic
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseLexical:
		return "lexical"
	case PhaseSyntax:
		return "syntax"
	case PhaseSemantic:
		return "semantic"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result holds the output of every phase that ran.
type Result struct {
	RunID string
	// Phase is the phase that failed, or PhaseDone.
	Phase Phase

	Tokens      []lexer.Token
	Identifiers []lexer.Identifier

	LexErrors      []lexer.Error
	SyntaxErrors   []parser.SyntaxError
	SemanticErrors []semantic.Error

	AST    *parser.Query
	Schema *catalog.Catalog
}

// OK reports whether all phases completed without errors.
func (r *Result) OK() bool {
	return r.Phase == PhaseDone
}

// Errors returns the diagnostics of the phase that failed, in source order.
func (r *Result) Errors() []error {
	var errs []error
	switch r.Phase {
	case PhaseLexical:
		for _, e := range r.LexErrors {
			errs = append(errs, e)
		}
	case PhaseSyntax:
		for _, e := range r.SyntaxErrors {
			errs = append(errs, e)
		}
	case PhaseSemantic:
		for _, e := range r.SemanticErrors {
			errs = append(errs, e)
		}
	}
	return errs
}

type options struct {
	logger  *zap.Logger
	runID   string
	prelude []parser.Statement
}

// Option configures a Compile call.
type Option func(*options)

// WithLogger logs one debug record per phase to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRunID overrides the generated run ID, e.g. with an HTTP request ID.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithPrelude analyzes statements before the parsed source, so tables they
// create are visible to it. The REPL passes the statements accepted so
// far. Prelude statements do not appear in Result.AST.
func WithPrelude(statements ...parser.Statement) Option {
	return func(o *options) {
		o.prelude = append(o.prelude, statements...)
	}
}

// Compile runs the lexer, the parser and the semantic analyzer over src,
// stopping after the first phase that reports errors.
func Compile(src string, opts ...Option) *Result {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	log := o.logger.With(zap.String("run_id", o.runID))
	res := &Result{RunID: o.runID}

	start := time.Now()
	lexed := lexer.Tokenize(src)
	res.Tokens = lexed.Tokens
	res.Identifiers = lexed.Identifiers
	res.LexErrors = lexed.Errors
	log.Debug("lexical phase finished",
		zap.Int("tokens", len(lexed.Tokens)),
		zap.Int("errors", len(lexed.Errors)),
		zap.Duration("elapsed", time.Since(start)))
	if len(res.LexErrors) > 0 {
		res.Phase = PhaseLexical
		return res
	}

	start = time.Now()
	query, syntaxErrs := parser.Parse(res.Tokens)
	res.AST = query
	res.SyntaxErrors = syntaxErrs
	log.Debug("syntax phase finished",
		zap.Int("statements", len(query.Statements)),
		zap.Int("errors", len(syntaxErrs)),
		zap.Duration("elapsed", time.Since(start)))
	if len(syntaxErrs) > 0 {
		res.Phase = PhaseSyntax
		return res
	}

	start = time.Now()
	analyzed := query
	if len(o.prelude) > 0 {
		analyzed = &parser.Query{Statements: append(append([]parser.Statement{}, o.prelude...), query.Statements...)}
	}
	schema, semErrs := semantic.Analyze(analyzed)
	res.Schema = schema
	res.SemanticErrors = semErrs
	log.Debug("semantic phase finished",
		zap.Int("tables", schema.Len()),
		zap.Int("errors", len(semErrs)),
		zap.Duration("elapsed", time.Since(start)))
	if len(semErrs) > 0 {
		res.Phase = PhaseSemantic
		return res
	}

	res.Phase = PhaseDone
	return res
}

// Tokenize runs the lexical phase only.
func Tokenize(src string) *Result {
	lexed := lexer.Tokenize(src)
	res := &Result{
		RunID:       uuid.NewString(),
		Phase:       PhaseDone,
		Tokens:      lexed.Tokens,
		Identifiers: lexed.Identifiers,
		LexErrors:   lexed.Errors,
	}
	if len(lexed.Errors) > 0 {
		res.Phase = PhaseLexical
	}
	return res
}
