// Package web - Input validation for web handlers
//
// EDUCATIONAL NOTES:
// ------------------
// Input validation happens at the HTTP layer before any analysis runs:
//
// 1. Size limits: the body is read through http.MaxBytesReader so an
//    oversized upload is cut off instead of being buffered in full.
//
// 2. Required fields: an empty "sql" field is a client mistake (400), not
//    an empty program to analyze.
//
// 3. Enumerations: query parameters such as ?format= are checked against
//    the known values so handlers never see anything else.

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cabewaldrop/minisql/internal/catalog"
)

// requestError is a client error with the status code to report.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// bodyOverhead leaves room for the JSON envelope and string escaping
// around the SQL text itself.
const bodyOverhead = 4096

// decodeSQLRequest reads and validates a {"sql": "..."} request body.
func decodeSQLRequest(w http.ResponseWriter, r *http.Request, maxSourceBytes int64) (string, *requestError) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSourceBytes+bodyOverhead)

	var req SQLRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		return "", bodyError(err, "invalid JSON body")
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return "", bodyError(err, "request body must contain a single JSON object")
	}

	if strings.TrimSpace(req.SQL) == "" {
		return "", &requestError{http.StatusBadRequest, "sql field is required"}
	}
	if int64(len(req.SQL)) > maxSourceBytes {
		return "", &requestError{
			http.StatusRequestEntityTooLarge,
			fmt.Sprintf("sql exceeds %d bytes", maxSourceBytes),
		}
	}
	return req.SQL, nil
}

// bodyError maps a body read failure to 413 or 400.
func bodyError(err error, msg string) *requestError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &requestError{http.StatusRequestEntityTooLarge, "request body too large"}
	}
	return &requestError{http.StatusBadRequest, msg}
}

// exportFormats lists the accepted ?format= values and their content types.
var exportFormats = map[catalog.Format]string{
	catalog.FormatJSON: "application/json",
	catalog.FormatYAML: "application/yaml",
	catalog.FormatTOML: "application/toml",
}

// parseExportFormat validates a ?format= value. Empty means JSON.
func parseExportFormat(s string) (catalog.Format, bool) {
	if s == "" {
		return catalog.FormatJSON, true
	}
	f := catalog.Format(strings.ToLower(s))
	_, ok := exportFormats[f]
	return f, ok
}
