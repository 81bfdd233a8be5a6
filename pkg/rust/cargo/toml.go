package cargo

import (
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// Arrays longer than this, or whose items take more characters than maxInlineChars, are written one item per line.
const (
	maxInlineItems = 4
	maxInlineChars = 50
)

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Table is a TOML table that keeps the insertion order of its entries.
type Table struct {
	keys   []string
	values map[string]any
	// Inline writes the table as `{ key = value }`.
	Inline bool
	// Implicit omits the header of a standard table that only holds other tables.
	Implicit bool
}

// Array is an array value. Its layout follows the inline limits.
type Array []any

// ArrayOfTables is written as repeated `[[key]]` sections.
type ArrayOfTables []*Table

// NewTable returns an empty standard table.
func NewTable() *Table {
	return &Table{}
}

// NewInlineTable returns an empty inline table.
func NewInlineTable() *Table {
	return &Table{Inline: true}
}

// Set adds or replaces an entry. Nil values are ignored.
func (t *Table) Set(key string, value any) *Table {
	if value == nil {
		return t
	}
	if t.values == nil {
		t.values = make(map[string]any)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
	return t
}

func (t *Table) Get(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

func (t *Table) Len() int {
	return len(t.keys)
}

// FromValue converts a decoded free-form value into a TOML value.
// Maps that look like dependencies, or hold at most three entries and no nested maps, become
// inline tables. Other maps become standard tables. A list made only of maps becomes an array of tables.
func FromValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *orderedmap.Map[any]:
		return mapToTable(val)
	case map[string]any:
		m := orderedmap.New[any]()
		for _, k := range slices.Sorted(maps.Keys(val)) {
			m.Set(k, val[k])
		}
		return mapToTable(m)
	case []any:
		return listToValue(val)
	case []string:
		arr := make(Array, len(val))
		for i, s := range val {
			arr[i] = s
		}
		return arr
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}

func mapToTable(m *orderedmap.Map[any]) *Table {
	dependencyLike := m.Has("version") || m.Has("git") || m.Has("path")
	nested := false
	for _, v := range m.All() {
		if isMap(v) {
			nested = true
			break
		}
	}

	t := &Table{Inline: dependencyLike || (m.Len() <= 3 && !nested), Implicit: true}
	for k, v := range m.All() {
		t.Set(k, FromValue(v))
	}
	return t
}

func listToValue(list []any) any {
	if len(list) == 0 {
		return Array{}
	}
	allMaps := true
	for _, v := range list {
		if !isMap(v) {
			allMaps = false
			break
		}
	}
	if allMaps {
		tables := make(ArrayOfTables, 0, len(list))
		for _, v := range list {
			t, _ := FromValue(v).(*Table)
			if t == nil {
				continue
			}
			t.Inline = false
			tables = append(tables, t)
		}
		return tables
	}
	arr := make(Array, 0, len(list))
	for _, v := range list {
		if item := FromValue(v); item != nil {
			arr = append(arr, item)
		}
	}
	return arr
}

func isMap(v any) bool {
	switch v.(type) {
	case *orderedmap.Map[any], map[string]any:
		return true
	default:
		return false
	}
}

// Encode renders t as a TOML document.
func Encode(t *Table) string {
	var b strings.Builder
	writeTable(&b, nil, t, true)
	return b.String()
}

// writeTable writes the entries of t, then its sub tables. Items of an array of tables
// are written without a header of their own since `[[key]]` already opens them.
func writeTable(b *strings.Builder, path []string, t *Table, header bool) {
	var body, children []string
	for _, k := range t.keys {
		switch v := t.values[k].(type) {
		case *Table:
			if !v.Inline {
				children = append(children, k)
				continue
			}
		case ArrayOfTables:
			children = append(children, k)
			continue
		}
		body = append(body, k)
	}

	if header && len(path) > 0 && (!t.Implicit || len(body) > 0 || len(children) == 0) {
		writeHeader(b, "["+joinKeys(path)+"]")
	}
	for _, k := range body {
		b.WriteString(formatKey(k) + " = " + formatValue(t.values[k]) + "\n")
	}

	for _, k := range children {
		childPath := append(append([]string(nil), path...), k)
		switch v := t.values[k].(type) {
		case *Table:
			writeTable(b, childPath, v, true)
		case ArrayOfTables:
			for _, item := range v {
				writeHeader(b, "[["+joinKeys(childPath)+"]]")
				writeTable(b, childPath, item, false)
			}
		}
	}
}

func writeHeader(b *strings.Builder, header string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(header + "\n")
}

func joinKeys(path []string) string {
	keys := make([]string, len(path))
	for i, k := range path {
		keys[i] = formatKey(k)
	}
	return strings.Join(keys, ".")
}

func formatKey(k string) string {
	if bareKey.MatchString(k) {
		return k
	}
	return formatString(k)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return formatString(val)
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatFloat(val)
	case Array:
		return formatArray(val)
	case []string:
		return formatArray(FromValue(val).(Array))
	case ArrayOfTables:
		arr := make(Array, len(val))
		for i, t := range val {
			arr[i] = t
		}
		return formatArray(arr)
	case *Table:
		return formatInlineTable(val)
	default:
		return formatString(toString(val))
	}
}

func formatArray(arr Array) string {
	if len(arr) == 0 {
		return "[]"
	}
	items := make([]string, len(arr))
	total := 0
	hasTables := false
	for i, v := range arr {
		items[i] = formatValue(v)
		total += len(items[i])
		if _, ok := v.(*Table); ok {
			hasTables = true
		}
	}

	if len(arr) > maxInlineItems || total > maxInlineChars || hasTables {
		var b strings.Builder
		b.WriteString("[")
		for _, item := range items {
			b.WriteString("\n\t" + item + ",")
		}
		b.WriteString("\n]")
		return b.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func formatInlineTable(t *Table) string {
	if t.Len() == 0 {
		return "{}"
	}
	entries := make([]string, 0, t.Len())
	for _, k := range t.keys {
		entries = append(entries, formatKey(k)+" = "+formatValue(t.values[k]))
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// formatString writes a literal string when that avoids escapes, and a basic string otherwise.
func formatString(s string) string {
	if strings.ContainsAny(s, `"\`) && !strings.ContainsAny(s, "'\n\r\t") && !hasControl(s) {
		return "'" + s + "'"
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u` + leftPad(strconv.FormatInt(int64(r), 16), 4))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func hasControl(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

func leftPad(s string, n int) string {
	return strings.Repeat("0", max(0, n-len(s))) + s
}

func toString(v any) string {
	return fmt.Sprint(v)
}
