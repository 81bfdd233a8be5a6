package cargo

import (
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filetype"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/utils"
)

// ReadManifest decodes an existing Cargo.toml file.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	err := filetype.DecodeFile(path, &m)
	return m, err
}

// JoinWorkspace adds member to the workspace declared by the manifest at workspacePath and marks the
// fields that m can inherit from it. It returns false, and changes nothing, when that manifest has no
// [workspace] table.
func JoinWorkspace(workspacePath, member string, m *Manifest) (bool, error) {
	data, err := os.ReadFile(workspacePath)
	if err != nil {
		return false, errUtils.NewReadError(workspacePath, err)
	}
	root, err := ReadManifest(workspacePath)
	if err != nil {
		return false, err
	}
	if root.Workspace == nil {
		return false, nil
	}

	updated, err := AddMember(data, member)
	if err != nil {
		return false, errUtils.NewDeserializationError(workspacePath, err.Error())
	}
	log.Debug("Adding crate to the workspace", "manifest", workspacePath, "member", member)
	if err := utils.WriteFile(workspacePath, updated, true); err != nil {
		return false, err
	}

	m.InheritFrom(*root.Workspace)
	return true, nil
}

// InheritFrom marks lints and package fields defined by the workspace, and left unset in m, as inherited.
func (m *Manifest) InheritFrom(ws Workspace) {
	if ws.Lints != nil && m.Lints == nil {
		m.Lints = Inherited[Lints]()
	}
	if ws.Package == nil {
		return
	}
	if m.Package == nil {
		m.Package = &Package{}
	}
	m.Package.InheritFrom(*ws.Package)
}

// AddMember appends member to workspace.members in the text of a manifest and keeps everything else
// as it is. A members array that spans lines gets the new member on its own tab-indented line; an
// inline array is rewritten in that layout. Members already listed are not added twice.
func AddMember(doc []byte, member string) ([]byte, error) {
	var parsed struct {
		Workspace struct {
			Members []string `toml:"members"`
		} `toml:"workspace"`
	}
	if err := toml.Unmarshal(doc, &parsed); err != nil {
		return nil, err
	}
	members := parsed.Workspace.Members
	if slices.Contains(members, member) {
		return doc, nil
	}

	src := string(doc)
	items := scanDocument(src)
	var out string

	section := slices.IndexFunc(items, func(it tomlItem) bool { return it.header && it.name == "workspace" })
	switch {
	case section < 0:
		out = strings.TrimRight(src, "\n") + "\n\n[workspace]\nmembers = " + expandedArray([]string{member}) + "\n"
		if strings.TrimSpace(src) == "" {
			out = strings.TrimLeft(out, "\n")
		}
	default:
		key := -1
		for i := section + 1; i < len(items) && !items[i].header; i++ {
			if items[i].name == "members" {
				key = i
				break
			}
		}
		if key < 0 {
			at := items[section].end
			sep := ""
			if !strings.HasSuffix(src[:at], "\n") {
				sep = "\n"
			}
			out = src[:at] + sep + "members = " + expandedArray([]string{member}) + "\n" + src[at:]
			break
		}

		open := strings.IndexByte(src[items[key].end:], '[') + items[key].end
		closing := matchBracket(src, open)
		if open < items[key].end || closing < 0 {
			return nil, errUtils.Errorf(errUtils.ErrUnsupportedValue, "workspace.members is not an array")
		}
		inner := src[open+1 : closing]
		var array string
		if strings.Contains(inner, "\n") {
			body := strings.TrimRight(inner, " \t\r\n")
			if body != "" && !strings.HasSuffix(body, ",") {
				body += ","
			}
			array = "[" + body + "\n\t" + formatString(member) + ",\n]"
		} else {
			array = expandedArray(append(slices.Clone(members), member))
		}
		out = src[:open] + array + src[closing+1:]
	}

	if err := toml.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func expandedArray(items []string) string {
	var b strings.Builder
	b.WriteString("[")
	for _, item := range items {
		b.WriteString("\n\t" + formatString(item) + ",")
	}
	b.WriteString("\n]")
	return b.String()
}

// tomlItem is a table header or a key of a TOML document.
// For headers end is the offset after the header line; for keys it is the offset after the `=`.
type tomlItem struct {
	header bool
	name   string
	end    int
}

// scanDocument lists the headers and top-level keys of each table in src, skipping strings,
// comments and the insides of arrays and inline tables.
func scanDocument(src string) []tomlItem {
	var items []tomlItem
	depth := 0
	lineStart := true
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			lineStart = true
			i++
			continue
		case c == ' ' || c == '\t' || c == '\r':
			i++
			continue
		case c == '#':
			i = skipComment(src, i)
			continue
		case c == '"' || c == '\'':
			i = skipString(src, i)
		case c == '[' && depth == 0 && lineStart:
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src)
			} else {
				end += i + 1
			}
			line := stripComment(src[i:end])
			name := strings.TrimSpace(line)
			name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
			items = append(items, tomlItem{header: true, name: strings.ReplaceAll(name, " ", ""), end: end})
			i = end
			continue
		case c == '[' || c == '{':
			depth++
			i++
		case c == ']' || c == '}':
			depth--
			i++
		case depth == 0 && lineStart:
			eq := strings.IndexByte(src[i:], '=')
			nl := strings.IndexByte(src[i:], '\n')
			if eq < 0 || (nl >= 0 && nl < eq) {
				i++
				break
			}
			key := strings.Trim(strings.TrimSpace(src[i:i+eq]), `"'`)
			items = append(items, tomlItem{name: key, end: i + eq + 1})
			i += eq + 1
		default:
			i++
		}
		lineStart = false
	}
	return items
}

// matchBracket returns the offset of the bracket that closes the one at open, or -1.
func matchBracket(src string, open int) int {
	depth := 0
	for i := open; i < len(src); {
		switch src[i] {
		case '"', '\'':
			i = skipString(src, i)
			continue
		case '#':
			i = skipComment(src, i)
			continue
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

func skipComment(src string, i int) int {
	if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(src)
}

// skipString returns the offset after the string starting at i, including multi-line strings.
func skipString(src string, i int) int {
	quote := src[i]
	if strings.HasPrefix(src[i:], strings.Repeat(string(quote), 3)) {
		delim := strings.Repeat(string(quote), 3)
		end := strings.Index(src[i+3:], delim)
		if end < 0 {
			return len(src)
		}
		return i + 3 + end + 3
	}
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			if quote == '"' {
				j++
			}
		case quote, '\n':
			return j + 1
		}
	}
	return len(src)
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}
