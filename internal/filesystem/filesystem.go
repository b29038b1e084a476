// Package filesystem provides file system operations for the Obsidian vault.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/pathfilter"
	"github.com/taigrr/obsidian-cli/internal/types"
)

// MarkdownExt is the extension forced onto note references.
const MarkdownExt = ".md"

// Service provides file system operations for the Obsidian vault.
type Service struct {
	vaultPath  string
	pathFilter *pathfilter.PathFilter
	identKey   string

	// Now returns the timestamp recorded in created/modified fields.
	Now func() time.Time
}

// New creates a new Service rooted at vaultPath. identKey names the
// frontmatter field that receives generated identifiers.
func New(vaultPath string, pf *pathfilter.PathFilter, identKey string) *Service {
	absPath, _ := filepath.Abs(vaultPath)
	// WalkDir does not descend into a symlinked root.
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}
	if pf == nil {
		pf = pathfilter.New(nil)
	}
	if identKey == "" {
		identKey = "uid"
	}
	return &Service{
		vaultPath:  absPath,
		pathFilter: pf,
		identKey:   identKey,
		Now:        time.Now,
	}
}

// GetVaultPath returns the vault path.
func (s *Service) GetVaultPath() string {
	return s.vaultPath
}

// PathFilter returns the filter applied to walks.
func (s *Service) PathFilter() *pathfilter.PathFilter {
	return s.pathFilter
}

// IdentKey returns the frontmatter key used for identifiers.
func (s *Service) IdentKey() string {
	return s.identKey
}

// ForceMarkdown appends ".md" to ref when it has no extension.
func ForceMarkdown(ref string) string {
	if filepath.Ext(ref) == "" {
		return ref + MarkdownExt
	}
	return ref
}

// Resolve turns a note reference into an absolute path. The reference is
// first tried as given (absolute or relative to the working directory) and
// then relative to the vault root.
func (s *Service) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", apperr.Usage("a page or file name is required")
	}
	forced := ForceMarkdown(ref)

	if isFile(forced) {
		return filepath.Abs(forced)
	}

	candidate := filepath.Join(s.vaultPath, forced)
	if isFile(candidate) {
		return candidate, nil
	}

	return "", apperr.NotFound(ref, "page or file not found")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// VaultPath resolves a relative path strictly inside the vault.
func (s *Service) VaultPath(relativePath string) (string, error) {
	relativePath = strings.TrimSpace(relativePath)
	normalizedPath := strings.TrimPrefix(filepath.ToSlash(relativePath), "/")

	fullPath := filepath.Join(s.vaultPath, filepath.FromSlash(normalizedPath))
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}

	// Security check: ensure path is within vault
	relPath, err := filepath.Rel(s.vaultPath, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", relativePath)
	}

	return absPath, nil
}

// Rel returns path relative to the vault root, slash-separated. Paths
// outside the vault are returned unchanged.
func (s *Service) Rel(path string) string {
	rel, err := filepath.Rel(s.vaultPath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// ReadFile returns the raw contents of path.
func (s *Service) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound(path, "file not found")
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, apperr.File(path, "permission denied", err)
		}
		return nil, apperr.File(path, "failed to read file", err)
	}
	return content, nil
}

// ReadDocument reads and parses the note at path.
func (s *Service) ReadDocument(path string) (*frontmatter.Document, error) {
	content, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		var pe *frontmatter.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// WriteDocument serializes doc to path, replacing the file atomically.
func (s *Service) WriteDocument(path string, doc *frontmatter.Document) error {
	data, err := frontmatter.Serialize(doc)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, 0); err != nil {
		return apperr.File(path, "failed to write file", err)
	}
	return nil
}

// Update reads the note at path, applies fn, stamps the modified time and
// writes the result back. Nothing is written when fn fails.
func (s *Service) Update(path string, fn func(doc *frontmatter.Document) error) error {
	doc, err := s.ReadDocument(path)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	doc.Touch(s.Now())
	return s.WriteDocument(path, doc)
}

// Touch updates the modified time of the note at path.
func (s *Service) Touch(path string) error {
	return s.Update(path, func(*frontmatter.Document) error { return nil })
}

// NewIdentifier returns a random identifier for the ident key.
func NewIdentifier() string {
	return uuid.NewString()
}

// Create writes a new note inside the vault and returns its absolute path.
// The note receives created, modified, title and identifier metadata.
func (s *Service) Create(params types.CreateNoteParams) (string, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return "", apperr.Usage("a page or file name is required")
	}

	fullPath, err := s.VaultPath(ForceMarkdown(name))
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(fullPath); err == nil && !params.Force {
		return "", fmt.Errorf("file already exists: %s", fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apperr.File(filepath.Dir(fullPath), "failed to create directory", err)
	}

	stem := strings.TrimSuffix(filepath.Base(fullPath), filepath.Ext(fullPath))
	body := params.Content
	if body == "" {
		body = "# " + stem + "\n"
	}

	now := s.Now().Truncate(time.Second)
	doc := frontmatter.New(body)
	doc.Set(frontmatter.CreatedKey, now)
	doc.Set(frontmatter.ModifiedKey, now)
	doc.Set(frontmatter.TitleKey, stem)
	doc.Set(s.identKey, NewIdentifier())

	if err := s.WriteDocument(fullPath, doc); err != nil {
		return "", err
	}
	return fullPath, nil
}

// Remove deletes the file at path.
func (s *Service) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.NotFound(path, "file not found")
		}
		return apperr.File(path, "failed to delete file", err)
	}
	return nil
}

// Exists checks if a path exists in the vault.
func (s *Service) Exists(path string) bool {
	fullPath, err := s.VaultPath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}
