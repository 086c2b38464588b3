package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

// TableFormatter formats output as a table using pterm.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Supports returns true if the formatter can handle the given data type.
// Table formatter supports slices, arrays, maps and structs.
func (f *TableFormatter) Supports(data interface{}) bool {
	if data == nil {
		return false
	}

	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return true
	case reflect.Ptr:
		return !v.IsNil() && f.Supports(v.Elem().Interface())
	}
	return false
}

// Format formats the data as a table and writes it to the writer. An empty
// slice renders the header only.
func (f *TableFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}

	if data == nil {
		return fmt.Errorf("cannot format nil data as table")
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("cannot format nil pointer as table")
		}
		v = v.Elem()
	}

	var tableData [][]string
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		tableData = f.formatSlice(v, config)
	case reflect.Map:
		tableData = f.formatPairs(mapPairs(v), "KEY", config)
	case reflect.Struct:
		tableData = f.formatPairs(structPairs(v), "FIELD", config)
	default:
		return fmt.Errorf("unsupported data type for table formatting: %s", v.Kind())
	}

	if config.SortBy != "" && len(tableData) > 1 {
		tableData = f.sortTableData(tableData, config)
	}
	if len(tableData) == 0 {
		return nil
	}

	table := pterm.DefaultTable.WithHasHeader(config.ShowHeaders).WithData(tableData)
	if config.Colors {
		table = table.WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold))
	} else {
		table = table.WithHeaderStyle(pterm.NewStyle()).WithStyle(pterm.NewStyle())
	}

	rendered, err := table.Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	if !config.Colors {
		rendered = pterm.RemoveColorFromString(rendered)
	}

	_, err = io.WriteString(w, strings.TrimRight(rendered, "\n")+"\n")
	return err
}

// formatSlice formats a slice or array with one row per element.
func (f *TableFormatter) formatSlice(v reflect.Value, config *FormatConfig) [][]string {
	columns := config.Columns
	if len(columns) == 0 {
		columns = detectColumns(elemType(v))
	}
	if len(columns) == 0 {
		columns = []Column{{Header: "VALUE"}}
	}

	tableData := make([][]string, 0, v.Len()+1)
	if config.ShowHeaders {
		headers := make([]string, len(columns))
		for i, col := range columns {
			headers[i] = col.Header
			if headers[i] == "" {
				headers[i] = strings.ToUpper(col.Field)
			}
		}
		tableData = append(tableData, headers)
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		row := make([]string, len(columns))
		for j, col := range columns {
			var value interface{}
			if col.Field == "" {
				value = elem.Interface()
			} else {
				value = extractField(elem, col.Field)
			}
			row[j] = formatValue(value)
			if col.Width > 3 && len(row[j]) > col.Width {
				row[j] = row[j][:col.Width-3] + "..."
			}
		}
		tableData = append(tableData, row)
	}
	return tableData
}

// formatPairs formats key-value pairs as a two-column table.
func (f *TableFormatter) formatPairs(pairs [][2]string, keyHeader string, config *FormatConfig) [][]string {
	tableData := make([][]string, 0, len(pairs)+1)
	if config.ShowHeaders {
		tableData = append(tableData, []string{keyHeader, "VALUE"})
	}
	for _, p := range pairs {
		tableData = append(tableData, []string{p[0], p[1]})
	}
	return tableData
}

func mapPairs(v reflect.Value) [][2]string {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	pairs := make([][2]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, [2]string{fmt.Sprint(key.Interface()), formatValue(v.MapIndex(key).Interface())})
	}
	return pairs
}

func structPairs(v reflect.Value) [][2]string {
	var pairs [][2]string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := fieldName(field)
		if !ok {
			continue
		}
		pairs = append(pairs, [2]string{name, formatValue(v.Field(i).Interface())})
	}
	return pairs
}

// elemType returns the struct type behind a slice's elements, if any.
func elemType(v reflect.Value) reflect.Type {
	t := v.Type().Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// detectColumns derives columns from the exported fields of a struct type.
func detectColumns(t reflect.Type) []Column {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var columns []Column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := fieldName(field)
		if !ok {
			continue
		}
		columns = append(columns, Column{Field: name, Header: strings.ToUpper(name)})
	}
	return columns
}

// fieldName returns the json name of a field; ok is false for json:"-".
func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, true
	}
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return "", false
	case "":
		return field.Name, true
	}
	return name, true
}

// extractField extracts a field value by json name, Go name or map key.
func extractField(v reflect.Value, field string) interface{} {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		for _, key := range v.MapKeys() {
			if fmt.Sprint(key.Interface()) == field {
				return v.MapIndex(key).Interface()
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if name, ok := fieldName(t.Field(i)); ok && name == field {
				return v.Field(i).Interface()
			}
		}
		if fv := v.FieldByName(field); fv.IsValid() && fv.CanInterface() {
			return fv.Interface()
		}
	}
	return nil
}

// formatValue formats a value as a cell.
func formatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		value = v.Elem().Interface()
	}

	switch val := value.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// sortTableData sorts rows by the column whose header matches SortBy.
func (f *TableFormatter) sortTableData(data [][]string, config *FormatConfig) [][]string {
	if !config.ShowHeaders {
		return data
	}

	colIndex := -1
	for i, header := range data[0] {
		if strings.EqualFold(header, config.SortBy) {
			colIndex = i
			break
		}
	}
	if colIndex == -1 {
		return data
	}

	rows := data[1:]
	sort.SliceStable(rows, func(i, j int) bool {
		if config.SortAsc {
			return rows[i][colIndex] < rows[j][colIndex]
		}
		return rows[i][colIndex] > rows[j][colIndex]
	})
	return data
}
