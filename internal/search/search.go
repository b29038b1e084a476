// Package search finds notes by name or title and queries frontmatter
// across the vault.
package search

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/filesystem"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
)

// Service provides search functionality for the Obsidian vault.
type Service struct {
	fs     *filesystem.Service
	logger *slog.Logger
}

// New creates a new search Service over the vault served by fs.
func New(fs *filesystem.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fs: fs, logger: logger}
}

// FilenameMatches reports whether a file stem matches term. An exact match
// requires equality; otherwise term must occur in the stem, ignoring case.
func FilenameMatches(stem, term string, exact bool) bool {
	if exact {
		return stem == term
	}
	return strings.Contains(strings.ToLower(stem), strings.ToLower(term))
}

// TitleMatches reports whether the document's string title contains the
// lower-cased term, ignoring case.
func TitleMatches(doc *frontmatter.Document, term string) bool {
	title, ok := doc.Title()
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(title), term)
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Find returns the sorted vault-relative paths of notes whose file name
// matches term. Fuzzy searches also match the frontmatter title; files whose
// frontmatter cannot be parsed are skipped for the title check.
func (s *Service) Find(term string, exact bool) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperr.Usage("search term cannot be empty")
	}
	lowered := strings.ToLower(term)

	files, err := s.fs.MarkdownFiles()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, rel := range files {
		if FilenameMatches(Stem(rel), term, exact) {
			matches = append(matches, rel)
			continue
		}
		if exact {
			continue
		}

		doc, err := s.fs.ReadDocument(filepath.Join(s.fs.GetVaultPath(), filepath.FromSlash(rel)))
		if err != nil {
			s.logger.Debug("skipping title check", "path", rel, "error", err)
			continue
		}
		if TitleMatches(doc, lowered) {
			matches = append(matches, rel)
		}
	}

	slices.Sort(matches)
	return slices.Compact(matches), nil
}

// Title returns the frontmatter title of the note at rel, falling back to
// its stem when the note has no string title or cannot be parsed.
func (s *Service) Title(rel string) string {
	doc, err := s.fs.ReadDocument(filepath.Join(s.fs.GetVaultPath(), filepath.FromSlash(rel)))
	if err == nil {
		if title, ok := doc.Title(); ok {
			return title
		}
	}
	return Stem(rel)
}
