package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// TextFormatter renders data as plain lines: one per slice element, and
// "key: value" lines for maps and structs. Values implementing
// fmt.Stringer render through String.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the formatter name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Supports returns true if the formatter can handle the given data type.
func (f *TextFormatter) Supports(data interface{}) bool {
	return true
}

// Format writes data as text.
func (f *TextFormatter) Format(w io.Writer, data interface{}, _ *FormatConfig) error {
	var b strings.Builder
	writeText(&b, data)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, data interface{}) {
	if data == nil {
		return
	}
	if s, ok := data.(fmt.Stringer); ok {
		b.WriteString(s.String() + "\n")
		return
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			b.WriteString(textLine(v.Index(i)) + "\n")
		}
	case reflect.Map:
		for _, p := range mapPairs(v) {
			fmt.Fprintf(b, "%s: %s\n", p[0], p[1])
		}
	case reflect.Struct:
		for _, p := range structPairs(v) {
			fmt.Fprintf(b, "%s: %s\n", p[0], p[1])
		}
	default:
		b.WriteString(formatValue(v.Interface()) + "\n")
	}
}

// textLine renders one slice element on a single line.
func textLine(v reflect.Value) string {
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	var pairs [][2]string
	switch v.Kind() {
	case reflect.Struct:
		pairs = structPairs(v)
	case reflect.Map:
		pairs = mapPairs(v)
	default:
		return formatValue(v.Interface())
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p[0] + "=" + p[1]
	}
	return strings.Join(parts, " ")
}
