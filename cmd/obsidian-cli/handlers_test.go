package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// setupHandlers returns an app whose services are built for the test vault.
func setupHandlers(t *testing.T, files map[string]string) (*testEnv, *app) {
	t.Helper()
	e := newTestEnv(t, files)
	if _, _, err := e.run(t, "", "ls"); err != nil {
		t.Fatalf("setup error = %v", err)
	}
	return e, e.app
}

func TestHandleCreateNote(t *testing.T) {
	e, a := setupHandlers(t, nil)
	ctx := context.Background()

	result, out, err := a.handleCreateNote(ctx, nil, CreateNoteInput{Filename: "Projects/plan", Content: "Step one\n"})
	if err != nil {
		t.Fatalf("handleCreateNote() error = %v", err)
	}
	if result != nil || !out.Success || out.Path != "Projects/plan.md" {
		t.Errorf("handleCreateNote() = %+v, %+v", result, out)
	}
	if content := e.read(t, "Projects/plan.md"); !strings.HasSuffix(content, "---\nStep one\n") {
		t.Errorf("note content = %q", content)
	}

	result, _, err = a.handleCreateNote(ctx, nil, CreateNoteInput{Filename: "Projects/plan.md"})
	if err == nil || result == nil || !result.IsError {
		t.Errorf("duplicate create: result = %+v, err = %v, want tool error", result, err)
	}

	if _, _, err := a.handleCreateNote(ctx, nil, CreateNoteInput{Filename: "Projects/plan", Force: true}); err != nil {
		t.Errorf("forced create error = %v", err)
	}

	if _, _, err := a.handleCreateNote(ctx, nil, CreateNoteInput{Filename: "../escape"}); err == nil {
		t.Error("create outside the vault succeeded")
	}
}

func TestHandleFindNotes(t *testing.T) {
	_, a := setupHandlers(t, map[string]string{
		"Foo.md":         "",
		"notes/other.md": "---\ntitle: About Foo\n---\n",
	})

	_, out, err := a.handleFindNotes(context.Background(), nil, FindNotesInput{Term: "foo"})
	if err != nil {
		t.Fatalf("handleFindNotes() error = %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	if out.Results[0].Path != "Foo.md" || out.Results[0].Title != "Foo" {
		t.Errorf("Results[0] = %+v", out.Results[0])
	}
	if out.Results[1].Title != "About Foo" || !strings.Contains(out.Results[1].URI, "file=notes%2Fother") {
		t.Errorf("Results[1] = %+v", out.Results[1])
	}

	if _, _, err := a.handleFindNotes(context.Background(), nil, FindNotesInput{Term: " "}); err == nil {
		t.Error("blank term succeeded")
	}
}

func TestHandleGetNoteContent(t *testing.T) {
	_, a := setupHandlers(t, map[string]string{
		"note.md": "---\ntitle: Note\n---\nHello\n",
	})
	ctx := context.Background()

	_, out, err := a.handleGetNoteContent(ctx, nil, GetNoteContentInput{Filename: "note"})
	if err != nil {
		t.Fatalf("handleGetNoteContent() error = %v", err)
	}
	if out.Path != "note.md" || out.Content != "Hello\n" || out.Frontmatter["title"] != "Note" {
		t.Errorf("out = %+v", out)
	}

	_, out, err = a.handleGetNoteContent(ctx, nil, GetNoteContentInput{Filename: "note.md", ShowFrontmatter: true})
	if err != nil {
		t.Fatalf("handleGetNoteContent() error = %v", err)
	}
	if !strings.HasPrefix(out.Content, "---\ntitle: Note\n") {
		t.Errorf("Content = %q, want the frontmatter block", out.Content)
	}

	for _, name := range []string{"missing", "../../etc/passwd"} {
		result, _, err := a.handleGetNoteContent(ctx, nil, GetNoteContentInput{Filename: name})
		if err == nil || result == nil || !result.IsError {
			t.Errorf("%s: result = %+v, err = %v, want tool error", name, result, err)
		}
	}
}

func TestHandleGetVaultInfo(t *testing.T) {
	e, a := setupHandlers(t, map[string]string{"a.md": "", "b.txt": ""})

	_, info, err := a.handleGetVaultInfo(context.Background(), nil, GetVaultInfoInput{})
	if err != nil {
		t.Fatalf("handleGetVaultInfo() error = %v", err)
	}
	if info.VaultPath != e.vault || info.MarkdownFiles != 1 || info.TotalFiles != 2 {
		t.Errorf("info = %+v", info)
	}
}

func TestHandleQueryNotes(t *testing.T) {
	_, a := setupHandlers(t, map[string]string{
		"a.md": "---\nstatus: draft\n---\n",
		"b.md": "---\nstatus: published\n---\n",
		"c.md": "",
	})
	ctx := context.Background()
	draft := "draft"

	_, out, err := a.handleQueryNotes(ctx, nil, QueryNotesInput{Key: "status", Value: &draft})
	if err != nil {
		t.Fatalf("handleQueryNotes() error = %v", err)
	}
	if out.Count != 1 || out.Matches[0].Path != "a.md" || out.Matches[0].Value != "draft" {
		t.Errorf("out = %+v", out)
	}

	_, out, err = a.handleQueryNotes(ctx, nil, QueryNotesInput{Key: "status", Missing: true})
	if err != nil {
		t.Fatalf("handleQueryNotes() error = %v", err)
	}
	if out.Count != 1 || out.Matches[0].Path != "c.md" || out.Matches[0].Value != nil || out.Matches[0].HasKey {
		t.Errorf("out = %+v", out)
	}

	result, _, err := a.handleQueryNotes(ctx, nil, QueryNotesInput{Key: "status", Exists: true, Missing: true})
	if err == nil || result == nil || !result.IsError {
		t.Errorf("conflicting filter: result = %+v, err = %v", result, err)
	}
}

func TestNewMCPServer(t *testing.T) {
	_, a := setupHandlers(t, nil)
	if a.newMCPServer() == nil {
		t.Fatal("newMCPServer() = nil")
	}
}

func TestHandleQueryNotes_NullValue(t *testing.T) {
	_, a := setupHandlers(t, map[string]string{"a.md": "---\nstatus:\n---\n"})

	_, out, err := a.handleQueryNotes(context.Background(), nil, QueryNotesInput{Key: "status", Exists: true})
	if err != nil {
		t.Fatalf("handleQueryNotes() error = %v", err)
	}
	if out.Count != 1 || !out.Matches[0].HasKey {
		t.Fatalf("out = %+v, want one match holding the key", out)
	}

	data, err := json.Marshal(out.Matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"value":null`) {
		t.Errorf("match JSON = %s, want an explicit null value", data)
	}
}
