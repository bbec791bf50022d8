package web

import "strings"

// hints maps a fragment of a diagnostic message to advice for fixing it.
// More specific fragments come first.
var hints = []struct {
	fragment string
	hint     string
}{
	{"does not exist in table", "Check the column name against the table's CREATE TABLE statement."},
	{"does not exist", "Create the table with CREATE TABLE before using it."},
	{"already exists", "Tables cannot be redefined; choose another name."},
	{"duplicate column", "Column names must be unique within a table."},
	{"invalid column type", "Use one of INT, FLOAT or TEXT."},
	{"column count mismatch", "Supply exactly one value per column, in declaration order."},
	{"type mismatch", "Quote TEXT values. INT values fit FLOAT columns, but not the reverse."},
	{"out of context", "Column references need a table from FROM, UPDATE or DELETE."},
	{"unclosed string", "Close the string with a single quote."},
	{"unclosed comment", "Close the comment with ##."},
	{"invalid character", "Remove the character; it is not part of the language."},
	{"expected ';'", "Separate statements with a semicolon."},
	{"syntax error", "Check the statement syntax near the indicated position."},
}

// GetErrorHint returns a helpful hint for a diagnostic message.
// Returns empty string if no hint is available.
func GetErrorHint(msg string) string {
	msgLower := strings.ToLower(msg)

	for _, h := range hints {
		if strings.Contains(msgLower, h.fragment) {
			return h.hint
		}
	}
	return ""
}
