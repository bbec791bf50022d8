package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cabewaldrop/minisql/internal/catalog"
)

// postSQL posts {"sql": sql} to path and returns the response.
func postSQL(t *testing.T, url, sql string) *http.Response {
	t.Helper()

	body, err := json.Marshal(SQLRequest{SQL: sql})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to POST %s: %v", url, err)
	}
	return resp
}

// decodeAPI decodes an APIResponse whose data is decoded into data.
func decodeAPI(t *testing.T, resp *http.Response, data interface{}) APIResponse {
	t.Helper()

	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("Failed to decode data: %v", err)
		}
	}
	return APIResponse{Success: raw.Success, Error: raw.Error}
}

func TestAPIAnalyzeValid(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postSQL(t, ts.URL+"/api/analyze", "CREATE TABLE t (id INT, name TEXT); SELECT name FROM t WHERE id == 1;")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var data AnalyzeResponse
	apiResp := decodeAPI(t, resp, &data)
	if !apiResp.Success {
		t.Fatalf("Expected success, got error %q", apiResp.Error)
	}
	if !data.Valid || data.Phase != "done" {
		t.Errorf("Expected a valid run, got phase %q", data.Phase)
	}
	if data.RunID == "" {
		t.Error("Expected a run ID")
	}
	if len(data.Statements) != 2 {
		t.Errorf("Expected 2 statements, got %v", data.Statements)
	}
	if data.Schema == nil || len(data.Schema.Tables) != 1 {
		t.Fatalf("Expected one table in schema, got %+v", data.Schema)
	}
	if col := data.Schema.Tables[0].Columns[1]; col.Name != "name" || col.Type != "TEXT" {
		t.Errorf("Unexpected column: %+v", col)
	}
}

func TestAPIAnalyzeReportsPhaseErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		phase   string
		pick    func(DiagnosticsByPhase) []Diagnostic
		line    int
		column  int
		hasHint bool
	}{
		{
			name:    "lexical",
			sql:     "SELECT * FROM t WHERE name == 'bob",
			phase:   "lexical",
			pick:    func(d DiagnosticsByPhase) []Diagnostic { return d.Lexical },
			line:    1,
			column:  31,
			hasHint: true,
		},
		{
			name:    "syntax",
			sql:     "SELECT * FROM t WHERE id == 1 SELECT * FROM u;",
			phase:   "syntax",
			pick:    func(d DiagnosticsByPhase) []Diagnostic { return d.Syntax },
			line:    1,
			column:  31,
			hasHint: true,
		},
		{
			name:    "syntax after valid statement",
			sql:     "CREATE TABLE t (id INT);\nSELECT * FROM t WHERE id == 1 SELECT * FROM u;",
			phase:   "syntax",
			pick:    func(d DiagnosticsByPhase) []Diagnostic { return d.Syntax },
			line:    2,
			column:  31,
			hasHint: true,
		},
		{
			name:    "semantic",
			sql:     "CREATE TABLE t (id INT);\nINSERT INTO t VALUES ('x');",
			phase:   "semantic",
			pick:    func(d DiagnosticsByPhase) []Diagnostic { return d.Semantic },
			line:    2,
			column:  1,
			hasHint: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t)

			resp := postSQL(t, ts.URL+"/api/analyze", tt.sql)
			defer resp.Body.Close()

			var data AnalyzeResponse
			decodeAPI(t, resp, &data)

			if data.Valid || data.Phase != tt.phase {
				t.Fatalf("Expected invalid run stopping in %s, got %q", tt.phase, data.Phase)
			}
			diags := tt.pick(data.Errors)
			if len(diags) != 1 {
				t.Fatalf("Expected 1 diagnostic, got %+v", data.Errors)
			}
			if diags[0].Line != tt.line || diags[0].Column != tt.column {
				t.Errorf("Expected position %d:%d, got %d:%d", tt.line, tt.column, diags[0].Line, diags[0].Column)
			}
			if tt.hasHint && diags[0].Hint == "" {
				t.Errorf("Expected a hint for %q", diags[0].Message)
			}
			if len(data.Statements) != 0 || data.Schema != nil {
				t.Errorf("Expected no statements or schema for failed run, got %v and %+v", data.Statements, data.Schema)
			}
		})
	}
}

func TestAPIAnalyzeBadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name        string
		body        string
		contentType string
		status      int
	}{
		{"invalid json", "{not json", "application/json", http.StatusBadRequest},
		{"missing sql", `{}`, "application/json", http.StatusBadRequest},
		{"blank sql", `{"sql": "   "}`, "application/json", http.StatusBadRequest},
		{"source too large", `{"sql": "` + strings.Repeat("a", 2000) + `"}`, "application/json", http.StatusRequestEntityTooLarge},
		{"body too large", `{"sql": "a", "pad": "` + strings.Repeat("x", 10000) + `"}`, "application/json", http.StatusRequestEntityTooLarge},
		{"wrong content type", `{"sql": "SELECT * FROM t;"}`, "text/plain", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/analyze", tt.contentType, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, resp.StatusCode)
			}
			apiResp := decodeAPI(t, resp, nil)
			if apiResp.Success || apiResp.Error == "" {
				t.Errorf("Expected an error response, got %+v", apiResp)
			}
		})
	}
}

func TestAPITokens(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postSQL(t, ts.URL+"/api/tokens", "SELECT name FROM users WHERE x # 1;")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var data TokensResponse
	decodeAPI(t, resp, &data)

	if data.Tokens[0].Type != "SELECT" || data.Tokens[len(data.Tokens)-1].Type != "EOF" {
		t.Errorf("Unexpected token stream: %+v", data.Tokens)
	}
	if len(data.Identifiers) != 3 || data.Identifiers[1].Name != "users" {
		t.Errorf("Unexpected identifiers: %+v", data.Identifiers)
	}
	if len(data.Errors) != 1 || data.Errors[0].Column != 32 {
		t.Errorf("Expected one lexical error at column 32, got %+v", data.Errors)
	}
}

func TestAPISchema(t *testing.T) {
	_, ts := newTestServer(t)
	const src = "CREATE TABLE users (id INT, score FLOAT); CREATE TABLE tags (label TEXT);"

	t.Run("json by default", func(t *testing.T) {
		resp := postSQL(t, ts.URL+"/api/schema", src)
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Unexpected content type %q", ct)
		}
		var doc catalog.Document
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			t.Fatal(err)
		}
		if len(doc.Tables) != 2 || doc.Tables[1].Name != "tags" {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		resp := postSQL(t, ts.URL+"/api/schema?format=yaml", src)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var doc catalog.Document
		if err := yaml.Unmarshal(body, &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Tables[0].Columns[1].Type != "FLOAT" {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})

	t.Run("toml", func(t *testing.T) {
		resp := postSQL(t, ts.URL+"/api/schema?format=TOML", src)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var doc catalog.Document
		if _, err := toml.Decode(string(body), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Tables[1].Columns[0].Name != "label" {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		resp := postSQL(t, ts.URL+"/api/schema?format=xml", src)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
	})

	t.Run("analysis failure", func(t *testing.T) {
		resp := postSQL(t, ts.URL+"/api/schema", "CREATE TABLE t (a INT, a INT);")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("Expected status 422, got %d", resp.StatusCode)
		}
		var data DiagnosticsByPhase
		apiResp := decodeAPI(t, resp, &data)
		if apiResp.Success || len(data.Semantic) != 1 {
			t.Errorf("Unexpected response: %+v %+v", apiResp, data)
		}
	})
}
