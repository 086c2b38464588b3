package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// encodeFunc serializes data to w. config is never nil.
type encodeFunc func(w io.Writer, data interface{}, config *FormatConfig) error

// encodingFormatter renders any value through a serialization encoder.
// Items, invocations and diagnostics all carry json and yaml tags, so no
// per-type handling is needed.
type encodingFormatter struct {
	name   string
	encode encodeFunc
}

// NewJSONFormatter returns the "json" formatter. Pretty output is indented
// by two spaces unless Compact is set. HTML characters are left alone.
func NewJSONFormatter() Formatter {
	return &encodingFormatter{name: "json", encode: encodeJSON}
}

// NewYAMLFormatter returns the "yaml" formatter. Compact output switches
// every collection to flow style.
func NewYAMLFormatter() Formatter {
	return &encodingFormatter{name: "yaml", encode: encodeYAML}
}

func (f *encodingFormatter) Name() string { return f.name }

func (f *encodingFormatter) Supports(interface{}) bool { return true }

func (f *encodingFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}
	if err := f.encode(w, data, config); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.name, err)
	}
	return nil
}

func encodeJSON(w io.Writer, data interface{}, config *FormatConfig) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if config.Pretty && !config.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}

func encodeYAML(w io.Writer, data interface{}, config *FormatConfig) error {
	if data == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}

	var node yaml.Node
	if err := node.Encode(data); err != nil {
		return err
	}
	if config.Compact {
		flow(&node)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// flow switches every mapping and sequence below node to flow style.
func flow(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style = yaml.FlowStyle
	}
	for _, child := range node.Content {
		flow(child)
	}
}
