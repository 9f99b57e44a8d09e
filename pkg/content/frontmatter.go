package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var fmFence = []byte("---")

// extractFrontmatter splits a document into its YAML front-matter and body.
// Front-matter is a block fenced by "---" lines at the very top of the
// file. The returned map is nil when no fence is present. A fenced block
// that fails to parse is an error so the scanner can record a warning and
// fall back to derived defaults; the body (everything after the closing
// fence) is still returned.
func extractFrontmatter(data []byte) (map[string]any, []byte, error) {
	trimmed := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(trimmed, fmFence) {
		return nil, data, nil
	}
	rest := trimmed[len(fmFence):]
	// The opening fence must be a line of its own. Consume exactly one
	// line terminator; a closing fence may follow immediately (empty
	// block).
	switch {
	case bytes.HasPrefix(rest, []byte("\r\n")):
		rest = rest[2:]
	case bytes.HasPrefix(rest, []byte("\n")):
		rest = rest[1:]
	default:
		return nil, data, nil
	}

	end := -1
	markerLen := 0
	switch {
	case bytes.HasPrefix(rest, []byte("---\r\n")):
		end, markerLen = 0, len("---\r\n")
	case bytes.HasPrefix(rest, []byte("---\n")):
		end, markerLen = 0, len("---\n")
	case bytes.Equal(rest, fmFence):
		end, markerLen = 0, len(fmFence)
	default:
		for _, marker := range [][]byte{[]byte("\n---\r\n"), []byte("\n---\n"), []byte("\n---")} {
			if i := bytes.Index(rest, marker); i >= 0 {
				end = i
				markerLen = len(marker)
				break
			}
		}
	}
	if end < 0 {
		return nil, data, fmt.Errorf("front-matter fence never closed")
	}

	block := rest[:end]
	body := bytes.TrimLeft(rest[end+markerLen:], "\r\n")

	var fm map[string]any
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return nil, body, fmt.Errorf("front-matter: %w", err)
	}
	return fm, body, nil
}

// fmString reads a string field from front-matter.
func fmString(fm map[string]any, key string) string {
	if fm == nil {
		return ""
	}
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// fmBool reads a boolean field from front-matter.
func fmBool(fm map[string]any, key string) bool {
	if fm == nil {
		return false
	}
	if v, ok := fm[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// fmTags reads a tag list: either a YAML sequence or a comma-separated
// string. Tags keep their case; counting is case-sensitive downstream.
func fmTags(fm map[string]any, key string) []string {
	if fm == nil {
		return nil
	}
	v, ok := fm[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// dateLayouts are accepted front-matter date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// fmDate parses a date field. YAML may already have produced a time.Time
// for unquoted dates; strings are tried against the known layouts.
func fmDate(fm map[string]any, key string) (*time.Time, error) {
	if fm == nil {
		return nil, nil
	}
	v, ok := fm[key]
	if !ok {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		return &t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return &parsed, nil
			}
		}
		return nil, fmt.Errorf("unparseable date %q", s)
	}
	return nil, fmt.Errorf("unexpected date value %v", v)
}
