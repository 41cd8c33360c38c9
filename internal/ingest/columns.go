// internal/ingest/columns.go
package ingest

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// RawRow is one spreadsheet or manual-entry row before normalization:
// arbitrary header text mapped to whatever the cell held.
type RawRow map[string]any

var (
	separatorRe = regexp.MustCompile(`[\s\-_]+`)
	nonWordRe   = regexp.MustCompile(`[^0-9A-Za-z_]`)
)

// SnakeCase converts arbitrary header text to a canonical snake_case key:
// a lowercase-then-uppercase boundary gets an underscore, runs of
// whitespace/hyphens/underscores collapse to one underscore, remaining
// non-word characters are stripped, and the result is lowercased with
// leading/trailing underscores trimmed.
func SnakeCase(header string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(header))
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune('_')
		}
		b.WriteRune(r)
	}

	key := separatorRe.ReplaceAllString(b.String(), "_")
	key = nonWordRe.ReplaceAllString(key, "")
	key = strings.ToLower(key)
	return strings.Trim(key, "_")
}

// NormalizeRow rewrites every header of a raw row to its snake_case key.
// Cell values pass through untouched. When two headers collapse to the
// same key, the first non-empty value wins.
func NormalizeRow(row RawRow) RawRow {
	out := make(RawRow, len(row))
	for header, value := range row {
		key := SnakeCase(header)
		if key == "" {
			continue
		}
		if existing, ok := out[key]; ok && !isBlank(existing) {
			continue
		}
		out[key] = value
	}
	return out
}

// Resolve looks a canonical field up in a normalized row. Exact synonym
// candidates are probed in order first; only if all of them are absent or
// blank does the keyword fallback scan every header. Exact-before-fuzzy is
// load-bearing: a fuzzy hit must never shadow an exact column.
func (v Vocabulary) Resolve(row RawRow, field string) (any, bool) {
	for _, key := range v.Synonyms[field] {
		if val, ok := row[key]; ok && !isBlank(val) {
			return val, true
		}
	}

	rule, ok := v.Keywords[field]
	if !ok {
		return nil, false
	}

	// Sorted scan keeps the fallback deterministic when several headers match.
	keySet := make([]string, 0, len(row))
	for key := range row {
		keySet = append(keySet, key)
	}
	sort.Strings(keySet)

keys:
	for _, key := range keySet {
		val := row[key]
		if isBlank(val) {
			continue
		}
		for _, ex := range rule.Exclude {
			if strings.Contains(key, ex) {
				continue keys
			}
		}
		for _, in := range rule.Include {
			if strings.Contains(key, in) {
				return val, true
			}
		}
	}
	return nil, false
}

// ResolveString resolves a field and stringifies it, trimming whitespace.
func (v Vocabulary) ResolveString(row RawRow, field string) string {
	val, ok := v.Resolve(row, field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringify(val))
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func isBlank(v any) bool {
	return strings.TrimSpace(stringify(v)) == ""
}
