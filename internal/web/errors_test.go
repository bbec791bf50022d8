package web

import "testing"

func TestGetErrorHint(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Semantic Error: Table 'ghost' does not exist. at line 1, position 1.", "Create the table with CREATE TABLE before using it."},
		{"Semantic Error: Column 'x' does not exist in table 't'. at line 1, position 1.", "Check the column name against the table's CREATE TABLE statement."},
		{"Semantic Error: Table 't' already exists. at line 1, position 1.", "Tables cannot be redefined; choose another name."},
		{"Semantic Error: Duplicate column 'a' in table 't'. at line 1, position 1.", "Column names must be unique within a table."},
		{"Lexical Error: unclosed string at line 3, position 7.", "Close the string with a single quote."},
		{"Syntax Error: Expected ';' at line 1, position 25; found 'SELECT'", "Separate statements with a semicolon."},
		{"Syntax Error: Expected 'FROM' at line 1, position 8; found 'WHERE'", "Check the statement syntax near the indicated position."},
		{"something else entirely", ""},
	}

	for _, tt := range tests {
		if got := GetErrorHint(tt.msg); got != tt.want {
			t.Errorf("GetErrorHint(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
