package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cabewaldrop/minisql/internal/sql/parser"
)

func usersColumns() []ColumnInfo {
	return []ColumnInfo{
		{Name: "id", Type: parser.TypeInt},
		{Name: "name", Type: parser.TypeText},
		{Name: "score", Type: parser.TypeFloat},
	}
}

func TestCatalogNew(t *testing.T) {
	cat := NewCatalog()

	if tables := cat.ListTables(); len(tables) != 0 {
		t.Errorf("New catalog should have no tables, got %d", len(tables))
	}
	if cat.Len() != 0 {
		t.Errorf("Expected Len 0, got %d", cat.Len())
	}
}

func TestCatalogAddTable(t *testing.T) {
	cat := NewCatalog()

	if err := cat.AddTable("users", usersColumns()); err != nil {
		t.Fatalf("Failed to add table: %v", err)
	}

	info, ok := cat.GetTableInfo("users")
	if !ok {
		t.Fatal("Table 'users' not found")
	}

	if len(info.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(info.Columns))
	}

	for i, want := range []string{"id", "name", "score"} {
		if info.Columns[i].Name != want {
			t.Errorf("Column %d: expected %s, got %s", i, want, info.Columns[i].Name)
		}
	}

	typ, err := cat.ColumnType("users", "score")
	if err != nil {
		t.Fatalf("ColumnType: %v", err)
	}
	if typ != parser.TypeFloat {
		t.Errorf("Expected FLOAT, got %s", typ)
	}
}

func TestCatalogTableExists(t *testing.T) {
	cat := NewCatalog()

	if err := cat.AddTable("t", []ColumnInfo{{Name: "id", Type: parser.TypeInt}}); err != nil {
		t.Fatalf("Failed to add table: %v", err)
	}

	err := cat.AddTable("t", []ColumnInfo{{Name: "x", Type: parser.TypeInt}})
	var exists *TableExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("Expected TableExistsError, got %v", err)
	}
	if err.Error() != "Table 't' already exists." {
		t.Errorf("Unexpected message: %s", err)
	}

	// The original definition is untouched.
	info, _ := cat.GetTableInfo("t")
	if info.Columns[0].Name != "id" {
		t.Errorf("Table was overwritten: %+v", info)
	}
}

func TestCatalogDuplicateColumnIsAllOrNothing(t *testing.T) {
	cat := NewCatalog()

	err := cat.AddTable("t", []ColumnInfo{
		{Name: "a", Type: parser.TypeInt},
		{Name: "a", Type: parser.TypeText},
	})
	var dup *DuplicateColumnError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected DuplicateColumnError, got %v", err)
	}
	if err.Error() != "Duplicate column 'a' in table 't'." {
		t.Errorf("Unexpected message: %s", err)
	}

	if _, ok := cat.GetTableInfo("t"); ok {
		t.Error("Failed CREATE must not register the table")
	}
	if cat.Len() != 0 {
		t.Errorf("Expected empty catalog, got %d tables", cat.Len())
	}
}

func TestCatalogLookupErrors(t *testing.T) {
	cat := NewCatalog()
	if err := cat.AddTable("users", usersColumns()); err != nil {
		t.Fatal(err)
	}

	_, err := cat.LookupTable("ghost")
	if err == nil || err.Error() != "Table 'ghost' does not exist." {
		t.Errorf("Unexpected error: %v", err)
	}

	_, err = cat.ColumnType("users", "email")
	var notFound *ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected ColumnNotFoundError, got %v", err)
	}
	if err.Error() != "Column 'email' does not exist in table 'users'." {
		t.Errorf("Unexpected message: %s", err)
	}
}

func TestCatalogListTablesKeepsCreationOrder(t *testing.T) {
	cat := NewCatalog()
	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		if err := cat.AddTable(name, []ColumnInfo{{Name: "id", Type: parser.TypeInt}}); err != nil {
			t.Fatal(err)
		}
	}

	got := cat.ListTables()
	for i := range names {
		if got[i] != names[i] {
			t.Errorf("Position %d: expected %s, got %s", i, names[i], got[i])
		}
	}
}

func TestCatalogExport(t *testing.T) {
	cat := NewCatalog()
	if err := cat.AddTable("users", usersColumns()); err != nil {
		t.Fatal(err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := cat.Export(&buf, FormatJSON); err != nil {
			t.Fatal(err)
		}
		var doc Document
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Tables[0].Columns[2].Type != "FLOAT" {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := cat.Export(&buf, FormatYAML); err != nil {
			t.Fatal(err)
		}
		var doc Document
		if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Tables[0].Name != "users" || len(doc.Tables[0].Columns) != 3 {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})

	t.Run("toml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := cat.Export(&buf, FormatTOML); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "[[tables]]") {
			t.Errorf("Expected a tables array, got:\n%s", buf.String())
		}
		var doc Document
		if _, err := toml.Decode(buf.String(), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Tables[0].Columns[1].Name != "name" {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := cat.Export(&bytes.Buffer{}, Format("xml")); err == nil {
			t.Error("Expected an error for an unknown format")
		}
	})
}
