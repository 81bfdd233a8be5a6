package cargo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudposse/sketch/pkg/orderedmap"
)

func TestFormatArray(t *testing.T) {
	tests := []struct {
		name     string
		input    Array
		expected string
	}{
		{
			name:     "empty",
			input:    Array{},
			expected: "[]",
		},
		{
			name:     "few short items stay inline",
			input:    Array{"a", "b", "c", "d"},
			expected: `["a", "b", "c", "d"]`,
		},
		{
			name:     "more than four items",
			input:    Array{"a", "b", "c", "d", "e"},
			expected: "[\n\t\"a\",\n\t\"b\",\n\t\"c\",\n\t\"d\",\n\t\"e\",\n]",
		},
		{
			name:     "long items",
			input:    Array{"crates/some-long-crate-name", "crates/another-long-crate-name"},
			expected: "[\n\t\"crates/some-long-crate-name\",\n\t\"crates/another-long-crate-name\",\n]",
		},
		{
			name:     "numbers and booleans",
			input:    Array{int64(1), true, 1.5},
			expected: "[1, true, 1.5]",
		},
		{
			name:     "inline tables",
			input:    Array{NewInlineTable().Set("a", int64(1))},
			expected: "[\n\t{ a = 1 },\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatArray(tt.input))
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", `"plain"`},
		{`C:\path`, `'C:\path'`},
		{`say "hi"`, `'say "hi"'`},
		{"it's \"quoted\"", `"it's \"quoted\""`},
		{"line\nbreak", `"line\nbreak"`},
		{"\x01", `"\u0001"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatString(tt.input))
		})
	}
}

func TestFormatKeyAndFloat(t *testing.T) {
	assert.Equal(t, "codegen-units", formatKey("codegen-units"))
	assert.Equal(t, `"cfg(unix)"`, formatKey("cfg(unix)"))
	assert.Equal(t, "2.0", formatFloat(2))
	assert.Equal(t, "0.25", formatFloat(0.25))
}

func TestFromValue(t *testing.T) {
	small := orderedmap.FromPairs[any](orderedmap.P[any]("opt-level", 3))
	assert.Equal(t, "{ opt-level = 3 }", formatValue(FromValue(small)))

	dep := orderedmap.FromPairs[any](
		orderedmap.P[any]("version", "1"),
		orderedmap.P[any]("features", []any{"derive"}),
		orderedmap.P[any]("optional", true),
		orderedmap.P[any]("default-features", false),
	)
	table := FromValue(dep).(*Table)
	assert.True(t, table.Inline)

	big := orderedmap.FromPairs[any](
		orderedmap.P[any]("a", 1),
		orderedmap.P[any]("b", 2),
		orderedmap.P[any]("c", 3),
		orderedmap.P[any]("d", 4),
	)
	assert.False(t, FromValue(big).(*Table).Inline)

	tables, ok := FromValue([]any{map[string]any{"name": "x"}, map[string]any{"name": "y"}}).(ArrayOfTables)
	assert.True(t, ok)
	assert.Len(t, tables, 2)

	assert.Equal(t, Array{"a", int64(1)}, FromValue([]any{"a", 1}))
}

func TestEncode(t *testing.T) {
	doc := NewTable().
		Set("title", "demo").
		Set("owner", NewTable().Set("name", "me")).
		Set("servers", &Table{Implicit: true, keys: []string{"alpha"}, values: map[string]any{
			"alpha": NewTable().Set("ip", "10.0.0.1"),
		}}).
		Set("items", ArrayOfTables{NewTable().Set("id", int64(1)), NewTable().Set("id", int64(2))})

	expected := `title = "demo"

[owner]
name = "me"

[servers.alpha]
ip = "10.0.0.1"

[[items]]
id = 1

[[items]]
id = 2
`
	assert.Equal(t, expected, Encode(doc))
}

func TestTable_SetIgnoresNil(t *testing.T) {
	table := NewTable().Set("a", nil).Set("b", "x").Set("b", "y")
	assert.Equal(t, 1, table.Len())
	v, ok := table.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}
