// internal/ingest/group.go
package ingest

import (
	"fmt"
	"strings"
)

// GroupResult is the outcome of extracting a campaign group from one name.
type GroupResult struct {
	Group     string
	HasMarker bool
	Warning   string
}

// Group markers in precedence order: [..] beats (..) beats {..}.
var groupMarkers = []struct {
	kind  string
	open  string
	close string
}{
	{"brackets", "[", "]"},
	{"parentheses", "(", ")"},
	{"braces", "{", "}"},
}

func findMarker(name, open, close string) (string, bool) {
	start := strings.Index(name, open)
	if start < 0 {
		return "", false
	}
	rest := name[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// ExtractGroup derives a campaign group from a free-text campaign name.
//
// Each marker type is searched independently. More than one marker type in
// a single name is suspicious but not fatal: the highest-precedence marker
// wins and a warning names everything that was found, so operators can
// catch accidental double-marking without blocking the upload.
//
// Unmarked names fall back to the batch's previously seen single-word base
// names: the first base name the campaign name contains (case-insensitive)
// becomes the group. A matchless multi-word name is ambiguous and rejected;
// a matchless single-word name is its own group.
func ExtractGroup(name string, baseNames []string) (GroupResult, error) {
	type hit struct {
		kind  string
		value string
	}
	var hits []hit
	for _, m := range groupMarkers {
		if val, ok := findMarker(name, m.open, m.close); ok && val != "" {
			hits = append(hits, hit{m.kind, val})
		}
	}

	if len(hits) > 0 {
		res := GroupResult{Group: hits[0].value, HasMarker: true}
		if len(hits) > 1 {
			var parts []string
			for _, h := range hits {
				parts = append(parts, fmt.Sprintf("%s %q", h.kind, h.value))
			}
			res.Warning = fmt.Sprintf(
				"campaign %q has multiple group markers (%s); %s take precedence, using group %q",
				name, strings.Join(parts, ", "), hits[0].kind, hits[0].value)
		}
		return res, nil
	}

	lower := strings.ToLower(name)
	for _, base := range baseNames {
		if base == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(base)) {
			return GroupResult{Group: base}, nil
		}
	}

	if strings.ContainsAny(name, " \t") {
		return GroupResult{}, fmt.Errorf(
			"campaign %q has no group marker and matches no known base name", name)
	}

	return GroupResult{Group: name}, nil
}
