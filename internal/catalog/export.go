package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document is the serializable form of a catalog. Field order follows
// creation order for tables and declaration order for columns.
type Document struct {
	Tables []TableDocument `json:"tables" yaml:"tables" toml:"tables"`
}

// TableDocument is one table in a Document.
type TableDocument struct {
	Name    string           `json:"name" yaml:"name" toml:"name"`
	Columns []ColumnDocument `json:"columns" yaml:"columns" toml:"columns"`
}

// ColumnDocument is one column in a TableDocument.
type ColumnDocument struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
}

// Document converts the catalog into its serializable form.
func (c *Catalog) Document() Document {
	doc := Document{Tables: make([]TableDocument, 0, c.Len())}
	for _, t := range c.Tables() {
		td := TableDocument{Name: t.Name, Columns: make([]ColumnDocument, len(t.Columns))}
		for i, col := range t.Columns {
			td.Columns[i] = ColumnDocument{Name: col.Name, Type: col.Type.String()}
		}
		doc.Tables = append(doc.Tables, td)
	}
	return doc
}

// MarshalJSON implements json.Marshaler.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Document())
}

// MarshalYAML implements yaml.Marshaler.
func (c *Catalog) MarshalYAML() (interface{}, error) {
	return c.Document(), nil
}

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Export writes the catalog to w in the given format.
func (c *Catalog) Export(w io.Writer, format Format) error {
	doc := c.Document()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
