// Package web provides the HTTP API for analyzing SQL.
//
// This file contains the JSON API endpoints for programmatic access.

package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/cabewaldrop/minisql/internal/catalog"
	"github.com/cabewaldrop/minisql/internal/compiler"
	"github.com/cabewaldrop/minisql/internal/sql/lexer"
)

// ============================================================================
// API Response Types
// ============================================================================

// APIResponse wraps all API responses with success/error info.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SQLRequest is the body of every POST endpoint.
type SQLRequest struct {
	SQL string `json:"sql"`
}

// Diagnostic is one error reported by an analysis phase.
type Diagnostic struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Hint    string `json:"hint,omitempty"`
}

// DiagnosticsByPhase groups diagnostics by the phase that reported them.
// Only the phase the run stopped in can be non-empty.
type DiagnosticsByPhase struct {
	Lexical  []Diagnostic `json:"lexical"`
	Syntax   []Diagnostic `json:"syntax"`
	Semantic []Diagnostic `json:"semantic"`
}

// AnalyzeResponse is the result of POST /api/analyze.
type AnalyzeResponse struct {
	RunID      string             `json:"run_id"`
	Phase      string             `json:"phase"`
	Valid      bool               `json:"valid"`
	Errors     DiagnosticsByPhase `json:"errors"`
	Statements []string           `json:"statements,omitempty"`
	Schema     *catalog.Document  `json:"schema,omitempty"`
}

// TokenInfo describes a single token.
type TokenInfo struct {
	Type   string `json:"type"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// IdentifierInfo describes the first occurrence of an identifier.
type IdentifierInfo struct {
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// TokensResponse is the result of POST /api/tokens.
type TokensResponse struct {
	Tokens      []TokenInfo      `json:"tokens"`
	Identifiers []IdentifierInfo `json:"identifiers"`
	Errors      []Diagnostic     `json:"errors"`
}

// ============================================================================
// Helper Functions
// ============================================================================

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful API response.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error API response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   message,
	})
}

func newDiagnostic(err error, line, column int) Diagnostic {
	msg := err.Error()
	return Diagnostic{Message: msg, Line: line, Column: column, Hint: GetErrorHint(msg)}
}

// diagnostics converts every error of res into its JSON form.
func diagnostics(res *compiler.Result) DiagnosticsByPhase {
	d := DiagnosticsByPhase{
		Lexical:  []Diagnostic{},
		Syntax:   []Diagnostic{},
		Semantic: []Diagnostic{},
	}
	for _, e := range res.LexErrors {
		d.Lexical = append(d.Lexical, newDiagnostic(e, e.Line, e.Column))
	}
	for _, e := range res.SyntaxErrors {
		d.Syntax = append(d.Syntax, newDiagnostic(e, e.Line, e.Column))
	}
	for _, e := range res.SemanticErrors {
		d.Semantic = append(d.Semantic, newDiagnostic(e, e.Line, e.Column))
	}
	return d
}

func tokenInfos(tokens []lexer.Token) []TokenInfo {
	infos := make([]TokenInfo, len(tokens))
	for i, tok := range tokens {
		infos[i] = TokenInfo{Type: tok.Type.String(), Lexeme: tok.Literal, Line: tok.Line, Column: tok.Column}
	}
	return infos
}

// ============================================================================
// API Handlers
// ============================================================================

// handleAPIAnalyze runs the full pipeline over the request's SQL.
// POST /api/analyze
func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	src, reqErr := decodeSQLRequest(w, r, s.maxSourceBytes)
	if reqErr != nil {
		writeError(w, reqErr.status, reqErr.msg)
		return
	}

	logger := GetLogger(r)
	res := compiler.Compile(src, compiler.WithLogger(logger))
	logger.Info("analysis finished",
		zap.String("run_id", res.RunID),
		zap.Stringer("phase", res.Phase),
		zap.Int("errors", len(res.Errors())))

	resp := AnalyzeResponse{
		RunID:  res.RunID,
		Phase:  res.Phase.String(),
		Valid:  res.OK(),
		Errors: diagnostics(res),
	}
	if res.OK() {
		for _, stmt := range res.AST.Statements {
			resp.Statements = append(resp.Statements, stmt.String())
		}
		doc := res.Schema.Document()
		resp.Schema = &doc
	}

	writeSuccess(w, resp)
}

// handleAPITokens runs the lexer only.
// POST /api/tokens
func (s *Server) handleAPITokens(w http.ResponseWriter, r *http.Request) {
	src, reqErr := decodeSQLRequest(w, r, s.maxSourceBytes)
	if reqErr != nil {
		writeError(w, reqErr.status, reqErr.msg)
		return
	}

	res := compiler.Tokenize(src)

	resp := TokensResponse{
		Tokens:      tokenInfos(res.Tokens),
		Identifiers: make([]IdentifierInfo, len(res.Identifiers)),
		Errors:      diagnostics(res).Lexical,
	}
	for i, id := range res.Identifiers {
		resp.Identifiers[i] = IdentifierInfo{Name: id.Name, Line: id.Line, Column: id.Column}
	}

	writeSuccess(w, resp)
}

// handleAPISchema returns the symbol table built from the request's SQL
// in the format named by ?format= (json, yaml or toml).
// POST /api/schema?format=yaml
func (s *Server) handleAPISchema(w http.ResponseWriter, r *http.Request) {
	format, ok := parseExportFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", r.URL.Query().Get("format")))
		return
	}

	src, reqErr := decodeSQLRequest(w, r, s.maxSourceBytes)
	if reqErr != nil {
		writeError(w, reqErr.status, reqErr.msg)
		return
	}

	res := compiler.Compile(src, compiler.WithLogger(GetLogger(r)))
	if !res.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Data:    diagnostics(res),
			Error:   fmt.Sprintf("analysis failed in the %s phase", res.Phase),
		})
		return
	}

	var buf bytes.Buffer
	if err := res.Schema.Export(&buf, format); err != nil {
		GetLogger(r).Error("schema export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "schema export failed")
		return
	}

	w.Header().Set("Content-Type", exportFormats[format])
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
