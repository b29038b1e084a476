package format

import (
	"strings"

	"github.com/taigrr/obsidian-cli/internal/apperr"
)

// Style selects how query results are rendered.
type Style int

const (
	// Path prints one matching path per line.
	Path Style = iota
	// Title prints "path: title" lines.
	Title
	// Full prints every frontmatter field of each match.
	Full
	// Table prints a Path/Property/Value table.
	Table
	// Count prints the number of matches.
	Count
	// JSON prints the matches as a JSON array.
	JSON
)

var styleNames = []string{"path", "title", "full", "table", "count", "json"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "unknown"
	}
	return styleNames[s]
}

// Structured reports whether the style prints output even when nothing
// matched.
func (s Style) Structured() bool {
	return s == Count || s == JSON
}

// StyleNames returns the valid style names.
func StyleNames() []string {
	return append([]string(nil), styleNames...)
}

// ParseStyle parses a style name, ignoring case.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return Path, apperr.Usage("invalid output style %q (valid: %s)", name, strings.Join(styleNames, ", "))
}
