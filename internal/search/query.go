package search

import (
	"path/filepath"
	"strings"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/filesystem"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/types"
)

// Filter selects notes by a single frontmatter key.
type Filter struct {
	Key string
	// Value requires the stringified value to equal it.
	Value *string
	// Contains requires the stringified value to contain it.
	Contains *string
	Exists   bool
	Missing  bool
}

// FilterFromParams builds a Filter from protocol parameters.
func FilterFromParams(p types.QueryParams) Filter {
	return Filter{
		Key:      p.Key,
		Value:    p.Value,
		Contains: p.Contains,
		Exists:   p.Exists,
		Missing:  p.Missing,
	}
}

// Validate rejects conflicting filter combinations.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.Key) == "" {
		return apperr.Usage("a frontmatter key is required")
	}
	if f.Value != nil && f.Contains != nil {
		return apperr.Usage("cannot specify both --value and --contains")
	}
	if f.Exists && f.Missing {
		return apperr.Usage("cannot specify both --exists and --missing")
	}
	return nil
}

// Matches reports whether doc satisfies the filter. A note without the key
// only matches a Missing filter.
func (f Filter) Matches(doc *frontmatter.Document) bool {
	v, present := doc.Get(f.Key)
	if f.Missing {
		return !present
	}
	if !present {
		return false
	}
	switch {
	case f.Value != nil:
		return frontmatter.Stringify(v) == *f.Value
	case f.Contains != nil:
		return strings.Contains(frontmatter.Stringify(v), *f.Contains)
	}
	return true
}

// Match is a note selected by a query.
type Match struct {
	// Path is relative to the vault root.
	Path     string
	Document *frontmatter.Document
}

// Query scans every non-ignored Markdown note in walk order and returns the
// ones matching f. The filter is validated before any file is read. Notes
// whose frontmatter cannot be parsed are logged and skipped.
func (s *Service) Query(f Filter) ([]Match, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("searching frontmatter", "key", f.Key)

	var matches []Match
	for entry, err := range s.fs.Walk() {
		if err != nil {
			if entry.RelPath == "" {
				return nil, err
			}
			s.logger.Warn("skipping unreadable path", "path", entry.RelPath, "error", err)
			continue
		}
		if entry.IsDir || !filesystem.IsMarkdown(entry.RelPath) {
			continue
		}

		doc, err := s.fs.ReadDocument(filepath.Join(s.fs.GetVaultPath(), filepath.FromSlash(entry.RelPath)))
		if err != nil {
			s.logger.Warn("could not parse frontmatter", "path", entry.RelPath, "error", err)
			continue
		}

		if f.Matches(doc) {
			matches = append(matches, Match{Path: entry.RelPath, Document: doc})
		}
	}
	return matches, nil
}
