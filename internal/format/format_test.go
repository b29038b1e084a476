package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/search"
	"github.com/taigrr/obsidian-cli/internal/types"
)

func testMatches() []search.Match {
	b := frontmatter.New("")
	b.Set("title", "Beta")
	b.Set("status", "published")
	b.Set("tags", []any{"dev", "docs"})

	a := frontmatter.New("")
	a.Set("status", "draft")

	return []search.Match{
		{Path: "notes/b.md", Document: b},
		{Path: "a.md", Document: a},
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		want    Style
		wantErr bool
	}{
		{"path", Path, false},
		{"TITLE", Title, false},
		{" full ", Full, false},
		{"table", Table, false},
		{"count", Count, false},
		{"json", JSON, false},
		{"yaml", Path, true},
		{"", Path, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyle(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				if !apperr.IsKind(err, apperr.KindUsage) {
					t.Errorf("ParseStyle(%q) error kind = %v, want usage", tt.name, err)
				}
				if !strings.Contains(err.Error(), "path, title, full, table, count, json") {
					t.Errorf("error %q does not list valid styles", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.String() != strings.TrimSpace(strings.ToLower(tt.name)) {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}

func TestRender_Path(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testMatches(), Path, "status"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "a.md\nnotes/b.md\n"; buf.String() != want {
		t.Errorf("Render(path) = %q, want %q", buf.String(), want)
	}
}

func TestRender_Title(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testMatches(), Title, "status"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "a.md: a\nnotes/b.md: Beta\n"; buf.String() != want {
		t.Errorf("Render(title) = %q, want %q", buf.String(), want)
	}
}

func TestRender_Full(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testMatches(), Full, "status"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "a.md\n  status: draft\n\nnotes/b.md\n  title: Beta\n  status: published\n  tags: [dev, docs]\n"
	if buf.String() != want {
		t.Errorf("Render(full) = %q, want %q", buf.String(), want)
	}
}

func TestRender_Count(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testMatches(), Count, "status"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != "2\n" {
		t.Errorf("Render(count) = %q, want 2", buf.String())
	}

	buf.Reset()
	if err := Render(&buf, nil, Count, "status"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "0\n" {
		t.Errorf("Render(count, empty) = %q, want 0", buf.String())
	}
}

func TestRender_JSON(t *testing.T) {
	matches := testMatches()
	var buf bytes.Buffer
	if err := Render(&buf, matches, JSON, "title"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got []map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Match order, not sorted.
	if string(got[0]["path"]) != `"notes/b.md"` {
		t.Errorf("first path = %s, want notes/b.md", got[0]["path"])
	}
	if string(got[0]["value"]) != `"Beta"` {
		t.Errorf("value = %s, want \"Beta\"", got[0]["value"])
	}
	if _, ok := got[1]["value"]; ok {
		t.Error("value present for note without the key")
	}
	if !strings.Contains(buf.String(), `"title": "Beta",`+"\n"+`      "status": "published"`) {
		t.Errorf("frontmatter not indented in key order:\n%s", buf.String())
	}
}

func TestRender_JSONNullValue(t *testing.T) {
	doc := frontmatter.New("")
	doc.Set("empty", nil)

	var buf bytes.Buffer
	if err := Render(&buf, []search.Match{{Path: "n.md", Document: doc}}, JSON, "empty"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"value": null`) {
		t.Errorf("Render(json) = %s, want explicit null value", buf.String())
	}
}

func TestRender_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, JSON, "status"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("Render(json, empty) = %q, want []", buf.String())
	}
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := renderTable(&buf, testMatches()[:1], 200); err != nil {
		t.Fatalf("renderTable() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Path", "Property", "Value", "notes/b.md", "status", "published", "[dev, docs]", "Total matches: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "notes/b.md") != 1 {
		t.Errorf("path printed %d times, want once", strings.Count(out, "notes/b.md"))
	}
}

func TestRender_EmptyTextStyles(t *testing.T) {
	for _, style := range []Style{Path, Title, Full, Table} {
		t.Run(style.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, nil, style, "k"); err != nil {
				t.Fatal(err)
			}
			if buf.Len() != 0 {
				t.Errorf("Render(%s, empty) = %q, want no output", style, buf.String())
			}
			if style.Structured() {
				t.Errorf("%s.Structured() = true", style)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestVaultInfo(t *testing.T) {
	info := types.VaultInfo{
		VaultPath:       "/vault",
		Exists:          true,
		MarkdownFiles:   2,
		Blacklist:       []string{"Assets/", ".obsidian/"},
		Editor:          "vi",
		IdentKey:        "uid",
		JournalTemplate: "Calendar/{year}",
		JournalPath:     "Calendar/2025",
		Version:         "dev",
		VaultStats: types.VaultStats{
			FileTypes: map[string]types.ExtStat{
				"md": {Count: 2, TotalSize: 10},
				".":  {Count: 1, TotalSize: 3},
			},
			TotalFiles:       3,
			TotalDirectories: 1,
			UsageFiles:       13,
		},
	}

	var buf bytes.Buffer
	if err := VaultInfo(&buf, info); err != nil {
		t.Fatalf("VaultInfo() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/vault", "Assets/, .obsidian/", "Calendar/2025", "(none)", "md", "13 B"} {
		if !strings.Contains(out, want) {
			t.Errorf("VaultInfo() output missing %q:\n%s", want, out)
		}
	}
}
