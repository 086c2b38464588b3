package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/CliForge/argspec/pkg/argspec"
)

// Manager manages output formatting and provides high-level formatting methods.
type Manager struct {
	formatters    map[string]Formatter
	defaultFormat string
	config        *FormatConfig
}

// NewManager creates a new output manager with the text, JSON, YAML and
// table formatters registered.
func NewManager() *Manager {
	m := &Manager{
		formatters:    make(map[string]Formatter),
		defaultFormat: "text",
		config:        NewFormatConfig(),
	}

	m.RegisterFormatter(NewTextFormatter())
	m.RegisterFormatter(NewJSONFormatter())
	m.RegisterFormatter(NewYAMLFormatter())
	m.RegisterFormatter(NewTableFormatter())

	return m
}

// RegisterFormatter registers a new formatter.
func (m *Manager) RegisterFormatter(formatter Formatter) {
	m.formatters[formatter.Name()] = formatter
}

// GetFormatter returns a formatter by name.
func (m *Manager) GetFormatter(name string) (Formatter, error) {
	formatter, ok := m.formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("formatter '%s' not found", name)
	}
	return formatter, nil
}

// SetDefaultFormat sets the default output format.
func (m *Manager) SetDefaultFormat(format string) {
	m.defaultFormat = format
}

// SetConfig sets the format configuration.
func (m *Manager) SetConfig(config *FormatConfig) {
	m.config = config
}

// GetConfig returns the current format configuration.
func (m *Manager) GetConfig() *FormatConfig {
	return m.config
}

// GetSupportedFormats returns the registered format names in sorted order.
func (m *Manager) GetSupportedFormats() []string {
	formats := make([]string, 0, len(m.formatters))
	for name := range m.formatters {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// Format formats data using the specified format.
func (m *Manager) Format(w io.Writer, data interface{}, format string) error {
	return m.FormatWithConfig(w, data, format, m.config)
}

// FormatWithConfig formats data using the specified format and config.
func (m *Manager) FormatWithConfig(w io.Writer, data interface{}, format string, config *FormatConfig) error {
	if format == "" {
		format = m.defaultFormat
	}

	formatter, err := m.GetFormatter(format)
	if err != nil {
		return err
	}

	if !formatter.Supports(data) {
		return fmt.Errorf("formatter '%s' does not support data type %T", format, data)
	}

	return formatter.Format(w, data, config)
}

// FormatDiagnostics renders diagnostics. The text format produces one
// "error: ..." line per diagnostic; other formats render the structured
// list.
func (m *Manager) FormatDiagnostics(w io.Writer, diags argspec.Diagnostics, format string) error {
	if format == "" {
		format = m.defaultFormat
	}
	if format != "text" {
		return m.Format(w, []argspec.Diagnostic(diags), format)
	}
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "error: %s\n", d.Error()); err != nil {
			return err
		}
	}
	return nil
}
