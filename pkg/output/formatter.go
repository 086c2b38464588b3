// Package output renders handler results and diagnostics as text, JSON,
// YAML or tables.
package output

import (
	"io"
)

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format formats the given data according to the formatter's rules
	// and writes the output to the provided writer.
	Format(w io.Writer, data interface{}, config *FormatConfig) error

	// Name returns the name of the formatter (e.g., "json", "yaml", "table").
	Name() string

	// Supports returns true if the formatter can handle the given data type.
	Supports(data interface{}) bool
}

// Column selects and labels one table column.
type Column struct {
	// Field is the json tag or Go field name (map key for maps).
	Field string
	// Header defaults to the upper-cased field.
	Header string
	// Width truncates longer cells when positive.
	Width int
}

// FormatConfig contains configuration options for formatting output.
type FormatConfig struct {
	// Pretty enables pretty-printing (for JSON)
	Pretty bool

	// Colors enables colored output
	Colors bool

	// Compact reduces whitespace in output
	Compact bool

	// ShowHeaders controls header display (for tables)
	ShowHeaders bool

	// Columns restricts and orders table columns
	Columns []Column

	// SortBy specifies the header to sort by (for tables)
	SortBy string

	// SortAsc controls sort direction
	SortAsc bool
}

// NewFormatConfig creates a new FormatConfig with sensible defaults.
func NewFormatConfig() *FormatConfig {
	return &FormatConfig{
		Pretty:      true,
		Colors:      true,
		ShowHeaders: true,
		SortAsc:     true,
	}
}

// WithPretty sets the pretty-printing option.
func (c *FormatConfig) WithPretty(pretty bool) *FormatConfig {
	c.Pretty = pretty
	return c
}

// WithColors sets the colors option.
func (c *FormatConfig) WithColors(colors bool) *FormatConfig {
	c.Colors = colors
	return c
}

// WithCompact sets the compact option.
func (c *FormatConfig) WithCompact(compact bool) *FormatConfig {
	c.Compact = compact
	return c
}

// WithColumns sets the table columns.
func (c *FormatConfig) WithColumns(columns ...Column) *FormatConfig {
	c.Columns = columns
	return c
}

// WithSorting sets the sorting options.
func (c *FormatConfig) WithSorting(field string, asc bool) *FormatConfig {
	c.SortBy = field
	c.SortAsc = asc
	return c
}
