package format

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/taigrr/obsidian-cli/internal/types"
)

// VaultInfo writes the vault summary printed by the info command.
func VaultInfo(w io.Writer, info types.VaultInfo) error {
	var b strings.Builder

	b.WriteString(Accent.Bold(true).Render("Obsidian Vault Information"))
	b.WriteString("\n\n")

	field := func(name, value string) {
		fmt.Fprintf(&b, "%s %s\n", Bold.Render(fmt.Sprintf("%-18s", name+":")), value)
	}
	field("Vault Path", info.VaultPath)
	field("Total Directories", fmt.Sprintf("%d (%s)", info.TotalDirectories, FormatSize(info.UsageDirectories)))
	field("Total Files", fmt.Sprintf("%d (%s)", info.TotalFiles, FormatSize(info.UsageFiles)))
	field("Markdown Files", strconv.Itoa(info.MarkdownFiles))

	if len(info.FileTypes) > 0 {
		b.WriteString("\n")
		b.WriteString(fileTypesTable(info.FileTypes))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(Accent.Bold(true).Render("Configuration"))
	b.WriteString("\n\n")
	field("Blacklist", strings.Join(info.Blacklist, ", "))
	field("Editor", info.Editor)
	field("Ident Key", info.IdentKey)
	field("Journal Template", info.JournalTemplate)
	field("Journal Path", info.JournalPath)
	if info.ConfigFile != "" {
		field("Config File", info.ConfigFile)
	} else {
		field("Config File", Muted.Render("none (defaults)"))
	}
	field("Verbose", strconv.FormatBool(info.Verbose))
	field("Version", info.Version)

	_, err := io.WriteString(w, b.String())
	return err
}

func fileTypesTable(stats map[string]types.ExtStat) string {
	exts := make([]string, 0, len(stats))
	for ext := range stats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)

	rows := make([][]string, 0, len(exts))
	for _, ext := range exts {
		s := stats[ext]
		label := ext
		if ext == "." {
			label = "(none)"
		}
		rows = append(rows, []string{label, strconv.Itoa(s.Count), FormatSize(s.TotalSize)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Muted).
		Headers("Extension", "Files", "Size").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			return style
		}).
		Rows(rows...).
		Render()
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
