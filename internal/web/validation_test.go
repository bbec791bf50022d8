package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cabewaldrop/minisql/internal/catalog"
)

func TestDecodeSQLRequest(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		status int
	}{
		{"valid", `{"sql": "SELECT * FROM t;"}`, "SELECT * FROM t;", 0},
		{"invalid json", `{"sql":`, "", http.StatusBadRequest},
		{"wrong type", `{"sql": 42}`, "", http.StatusBadRequest},
		{"empty", `{"sql": ""}`, "", http.StatusBadRequest},
		{"trailing garbage", `{"sql": "SELECT * FROM t;"} xyz`, "", http.StatusBadRequest},
		{"second object", `{"sql": "SELECT * FROM t;"}{"sql": "x"}`, "", http.StatusBadRequest},
		{"trailing whitespace", "{\"sql\": \"SELECT * FROM t;\"}\n", "SELECT * FROM t;", 0},
		{"at limit", `{"sql": "` + strings.Repeat("a", 64) + `"}`, strings.Repeat("a", 64), 0},
		{"over limit", `{"sql": "` + strings.Repeat("a", 65) + `"}`, "", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			got, reqErr := decodeSQLRequest(rec, req, 64)
			if tt.status == 0 {
				if reqErr != nil {
					t.Fatalf("unexpected error: %v", reqErr)
				}
				if got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
				return
			}
			if reqErr == nil || reqErr.status != tt.status {
				t.Errorf("expected status %d, got %v", tt.status, reqErr)
			}
		})
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		input string
		want  catalog.Format
		valid bool
	}{
		{"", catalog.FormatJSON, true},
		{"json", catalog.FormatJSON, true},
		{"YAML", catalog.FormatYAML, true},
		{"toml", catalog.FormatTOML, true},
		{"xml", "", false},
		{"csv", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseExportFormat(tt.input)
			if ok != tt.valid {
				t.Fatalf("parseExportFormat(%q) valid = %v, want %v", tt.input, ok, tt.valid)
			}
			if ok && got != tt.want {
				t.Errorf("parseExportFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
