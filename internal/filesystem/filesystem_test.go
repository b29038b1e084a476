package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/pathfilter"
	"github.com/taigrr/obsidian-cli/internal/types"
)

func setupTestVault(t *testing.T, files map[string]string) (string, *Service) {
	t.Helper()
	tmpDir := t.TempDir()
	for rel, content := range files {
		writeTestFile(t, filepath.Join(tmpDir, rel), content)
	}
	svc := New(tmpDir, pathfilter.New(pathfilter.DefaultPatterns), "uid")
	svc.Now = func() time.Time { return time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC) }
	return tmpDir, svc
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestForceMarkdown(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"note", "note.md"},
		{"note.md", "note.md"},
		{"dir/note", "dir/note.md"},
		{"note.txt", "note.txt"},
		{"my.note", "my.note"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := ForceMarkdown(tt.ref); got != tt.want {
				t.Errorf("ForceMarkdown(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestService_Resolve(t *testing.T) {
	tmpDir, svc := setupTestVault(t, map[string]string{
		"foo.md":        "vault foo",
		"sub/bar.md":    "vault bar",
		"only-vault.md": "x",
	})

	t.Run("vault relative", func(t *testing.T) {
		got, err := svc.Resolve("sub/bar")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if want := filepath.Join(tmpDir, "sub", "bar.md"); got != want {
			t.Errorf("Resolve() = %q, want %q", got, want)
		}
	})

	t.Run("absolute path", func(t *testing.T) {
		abs := filepath.Join(tmpDir, "foo.md")
		got, err := svc.Resolve(abs)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != abs {
			t.Errorf("Resolve() = %q, want %q", got, abs)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Resolve("missing")
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Fatalf("Resolve() error = %v, want not found", err)
		}
		if apperr.ExitCode(err) != apperr.ExitUsage {
			t.Errorf("ExitCode() = %d, want %d", apperr.ExitCode(err), apperr.ExitUsage)
		}
	})

	t.Run("empty reference", func(t *testing.T) {
		if _, err := svc.Resolve("  "); !apperr.IsKind(err, apperr.KindUsage) {
			t.Errorf("Resolve(blank) error = %v, want usage", err)
		}
	})

	t.Run("directory is not a note", func(t *testing.T) {
		if err := os.MkdirAll(filepath.Join(tmpDir, "folder.md"), 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Resolve("folder.md"); err == nil {
			t.Error("Resolve(directory) error = nil, want not found")
		}
	})
}

func TestService_ResolvePrefersWorkingDirectory(t *testing.T) {
	_, svc := setupTestVault(t, map[string]string{"foo.md": "vault copy"})

	cwd := t.TempDir()
	writeTestFile(t, filepath.Join(cwd, "foo.md"), "cwd copy")
	t.Chdir(cwd)

	got, err := svc.Resolve("foo")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	content, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "cwd copy" {
		t.Errorf("Resolve() picked %q with content %q, want the working-directory file", got, content)
	}
}

func TestService_VaultPath(t *testing.T) {
	tmpDir, svc := setupTestVault(t, nil)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"simple", "note.md", filepath.Join(tmpDir, "note.md"), false},
		{"leading slash", "/dir/note.md", filepath.Join(tmpDir, "dir", "note.md"), false},
		{"root", "", tmpDir, false},
		{"inner dots", "a/../b.md", filepath.Join(tmpDir, "b.md"), false},
		{"traversal", "../outside.md", "", true},
		{"nested traversal", "a/../../outside.md", "", true},
		{"dotdot prefix name", "..notes.md", filepath.Join(tmpDir, "..notes.md"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.VaultPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VaultPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("VaultPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestService_ReadDocument(t *testing.T) {
	tmpDir, svc := setupTestVault(t, map[string]string{
		"good.md": "---\ntitle: Good\n---\nbody\n",
		"bad.md":  "---\ntitle: [broken\n---\n",
	})

	doc, err := svc.ReadDocument(filepath.Join(tmpDir, "good.md"))
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if title, _ := doc.Title(); title != "Good" {
		t.Errorf("Title() = %q, want Good", title)
	}

	bad := filepath.Join(tmpDir, "bad.md")
	_, err = svc.ReadDocument(bad)
	var pe *frontmatter.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ReadDocument(bad) error = %v, want *frontmatter.ParseError", err)
	}
	if pe.Path != bad {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, bad)
	}

	_, err = svc.ReadDocument(filepath.Join(tmpDir, "nope.md"))
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("ReadDocument(missing) error = %v, want not found", err)
	}
}

func TestService_Update(t *testing.T) {
	tmpDir, svc := setupTestVault(t, map[string]string{
		"note.md": "---\ntitle: Note\nstatus: draft\n---\n# Note\n",
	})
	path := filepath.Join(tmpDir, "note.md")

	err := svc.Update(path, func(doc *frontmatter.Document) error {
		doc.Set("status", "done")
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	doc, err := svc.ReadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := doc.Get("status"); v != "done" {
		t.Errorf("status = %v, want done", v)
	}
	if v, _ := doc.Get("modified"); v != "2025-03-05T09:00:00Z" {
		t.Errorf("modified = %#v, want 2025-03-05T09:00:00Z", v)
	}
	if doc.Body != "# Note\n" {
		t.Errorf("Body = %q, want %q", doc.Body, "# Note\n")
	}

	t.Run("callback error leaves file untouched", func(t *testing.T) {
		before, _ := os.ReadFile(path)
		sentinel := errors.New("stop")
		if err := svc.Update(path, func(*frontmatter.Document) error { return sentinel }); !errors.Is(err, sentinel) {
			t.Fatalf("Update() error = %v, want sentinel", err)
		}
		after, _ := os.ReadFile(path)
		if string(before) != string(after) {
			t.Error("file changed after failed update")
		}
	})
}

func TestService_Create(t *testing.T) {
	tmpDir, svc := setupTestVault(t, nil)

	path, err := svc.Create(types.CreateNoteParams{Name: "Projects/Plan"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := filepath.Join(tmpDir, "Projects", "Plan.md"); path != want {
		t.Errorf("Create() = %q, want %q", path, want)
	}

	doc, err := svc.ReadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Body != "# Plan\n" {
		t.Errorf("Body = %q, want %q", doc.Body, "# Plan\n")
	}
	wantKeys := []string{"created", "modified", "title", "uid"}
	if got := doc.Metadata.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("Keys() = %v, want %v", got, wantKeys)
	}
	if uid, _ := doc.Get("uid"); len(frontmatter.Stringify(uid)) != 36 {
		t.Errorf("uid = %v, want a UUID", uid)
	}

	t.Run("existing without force", func(t *testing.T) {
		_, err := svc.Create(types.CreateNoteParams{Name: "Projects/Plan"})
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("Create() error = %v, want already exists", err)
		}
	})

	t.Run("existing with force and content", func(t *testing.T) {
		_, err := svc.Create(types.CreateNoteParams{Name: "Projects/Plan", Content: "replaced", Force: true})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		doc, _ := svc.ReadDocument(path)
		if doc.Body != "replaced" {
			t.Errorf("Body = %q, want replaced", doc.Body)
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		if _, err := svc.Create(types.CreateNoteParams{Name: "../escape"}); err == nil {
			t.Error("Create(../escape) error = nil, want error")
		}
	})
}

func TestService_Remove(t *testing.T) {
	tmpDir, svc := setupTestVault(t, map[string]string{"gone.md": "x"})
	path := filepath.Join(tmpDir, "gone.md")

	if err := svc.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Remove()")
	}
	if err := svc.Remove(path); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("second Remove() error = %v, want not found", err)
	}
}

func TestWriteFileAtomic_PreservesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := writeFileAtomic(path, []byte("new"), 0); err != nil {
		t.Fatalf("writeFileAtomic() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the target", len(entries))
	}
}
