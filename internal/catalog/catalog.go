// Package catalog manages the schema symbol table (metadata about tables).
//
// EDUCATIONAL NOTES:
// ------------------
// Every database has a "catalog" that stores metadata:
// - What tables exist
// - What columns each table has
// - Column types
//
// In production databases like PostgreSQL, this is stored in special
// system tables (pg_class, pg_attribute, etc.). SQLite stores it in
// sqlite_master.
//
// Our catalog lives only in memory for the duration of one analysis run.
// It is filled by CREATE TABLE statements, in the order they appear, and
// never shrinks: there is no DROP or ALTER. Both tables and columns keep
// their declaration order, because INSERT matches values to columns by
// position.

package catalog

import (
	"fmt"

	"github.com/cabewaldrop/minisql/internal/sql/parser"
)

// TableInfo stores metadata about a table.
type TableInfo struct {
	Name    string
	Columns []ColumnInfo
}

// ColumnInfo stores column metadata.
type ColumnInfo struct {
	Name string
	Type parser.DataType
}

// Column returns the named column.
func (t *TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnInfo{}, false
}

// TableExistsError is returned when a table name is registered twice.
type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("Table '%s' already exists.", e.Table)
}

// DuplicateColumnError is returned when a table declares a column twice.
type DuplicateColumnError struct {
	Table  string
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("Duplicate column '%s' in table '%s'.", e.Column, e.Table)
}

// TableNotFoundError is returned when a lookup names an unknown table.
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("Table '%s' does not exist.", e.Table)
}

// ColumnNotFoundError is returned when a lookup names an unknown column.
type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Column '%s' does not exist in table '%s'.", e.Column, e.Table)
}

// Catalog manages schema metadata. The zero value is not usable; call
// NewCatalog.
type Catalog struct {
	tables map[string]*TableInfo
	order  []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[string]*TableInfo),
	}
}

// AddTable registers a new table. Registration is all-or-nothing: if the
// name is taken or a column name repeats, the catalog is left unchanged.
func (c *Catalog) AddTable(name string, columns []ColumnInfo) error {
	if _, exists := c.tables[name]; exists {
		return &TableExistsError{Table: name}
	}

	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, dup := seen[col.Name]; dup {
			return &DuplicateColumnError{Table: name, Column: col.Name}
		}
		seen[col.Name] = struct{}{}
	}

	info := &TableInfo{
		Name:    name,
		Columns: make([]ColumnInfo, len(columns)),
	}
	copy(info.Columns, columns)

	c.tables[name] = info
	c.order = append(c.order, name)
	return nil
}

// GetTableInfo returns info about a table.
func (c *Catalog) GetTableInfo(name string) (*TableInfo, bool) {
	info, ok := c.tables[name]
	return info, ok
}

// LookupTable is GetTableInfo with a descriptive error.
func (c *Catalog) LookupTable(name string) (*TableInfo, error) {
	info, ok := c.tables[name]
	if !ok {
		return nil, &TableNotFoundError{Table: name}
	}
	return info, nil
}

// ColumnType returns the declared type of table.column.
func (c *Catalog) ColumnType(table, column string) (parser.DataType, error) {
	info, err := c.LookupTable(table)
	if err != nil {
		return parser.TypeNone, err
	}
	col, ok := info.Column(column)
	if !ok {
		return parser.TypeNone, &ColumnNotFoundError{Table: table, Column: column}
	}
	return col.Type, nil
}

// ListTables returns all table names in creation order.
func (c *Catalog) ListTables() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Tables returns all tables in creation order.
func (c *Catalog) Tables() []*TableInfo {
	tables := make([]*TableInfo, len(c.order))
	for i, name := range c.order {
		tables[i] = c.tables[name]
	}
	return tables
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	return len(c.order)
}
