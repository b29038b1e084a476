// Package format renders query results, vault information and notices for
// the terminal.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/search"
)

// NoMatches is printed on stderr when a text style has nothing to show.
const NoMatches = "No matching files found"

// Render writes matches to w in the given style. key is the queried
// frontmatter key, reported by the JSON style. Text styles write nothing
// for an empty result; callers report NoMatches.
func Render(w io.Writer, matches []search.Match, style Style, key string) error {
	switch style {
	case Path:
		for _, m := range sorted(matches) {
			if _, err := fmt.Fprintln(w, m.Path); err != nil {
				return err
			}
		}
	case Title:
		for _, m := range sorted(matches) {
			if _, err := fmt.Fprintf(w, "%s: %s\n", m.Path, title(m)); err != nil {
				return err
			}
		}
	case Full:
		return renderFull(w, sorted(matches))
	case Table:
		if len(matches) == 0 {
			return nil
		}
		return renderTable(w, sorted(matches), TermWidth())
	case Count:
		_, err := fmt.Fprintln(w, len(matches))
		return err
	case JSON:
		return renderJSON(w, matches, key)
	default:
		return fmt.Errorf("unknown output style %d", style)
	}
	return nil
}

func sorted(matches []search.Match) []search.Match {
	out := slices.Clone(matches)
	slices.SortFunc(out, func(a, b search.Match) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

func title(m search.Match) string {
	if v, ok := m.Document.Get(frontmatter.TitleKey); ok {
		return frontmatter.Stringify(v)
	}
	return search.Stem(m.Path)
}

func renderFull(w io.Writer, matches []search.Match) error {
	for i, m := range matches {
		var b strings.Builder
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Path)
		b.WriteByte('\n')
		for k, v := range m.Document.Metadata.All() {
			fmt.Fprintf(&b, "  %s: %s\n", k, frontmatter.Stringify(v))
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, matches []search.Match, width int) error {
	var rows [][]string
	for _, m := range matches {
		page := m.Path
		if m.Document.Metadata.Len() == 0 {
			rows = append(rows, []string{page, "", ""})
			continue
		}
		for k, v := range m.Document.Metadata.All() {
			rows = append(rows, []string{page, k, frontmatter.Stringify(v)})
			// Only the first row of a file shows its path.
			page = ""
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Muted).
		Headers("Path", "Property", "Value").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(1).PaddingLeft(1)
			switch {
			case row == table.HeaderRow:
				style = style.Bold(true)
				if col == 0 {
					style = style.Inherit(Accent)
				}
			case col == 0:
				style = style.Inherit(Accent)
			}
			return style
		}).
		Rows(rows...)

	rendered := tbl.Render()
	if width > 0 && lipgloss.Width(rendered) > width {
		rendered = tbl.Width(width).Render()
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", rendered, Muted.Render(fmt.Sprintf("Total matches: %d", len(matches))))
	return err
}

type jsonMatch struct {
	Path        string                `json:"path"`
	Frontmatter *frontmatter.Metadata `json:"frontmatter"`
	Value       json.RawMessage       `json:"value,omitempty"`
}

func renderJSON(w io.Writer, matches []search.Match, key string) error {
	out := make([]jsonMatch, 0, len(matches))
	for _, m := range matches {
		entry := jsonMatch{Path: m.Path, Frontmatter: &m.Document.Metadata}
		if v, ok := m.Document.Get(key); ok {
			raw, err := json.Marshal(frontmatter.JSONValue(v))
			if err != nil {
				return fmt.Errorf("encode value of %s in %s: %w", key, m.Path, err)
			}
			entry.Value = raw
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Notice writes a styled one-line message, typically to stderr.
func Notice(w io.Writer, style lipgloss.Style, msg string) {
	fmt.Fprintln(w, style.Render(msg))
}
