package filesystem

import (
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/obsidian-cli/internal/types"
)

// Entry is a path yielded by Walk.
type Entry struct {
	// RelPath is relative to the vault root and slash-separated.
	RelPath string
	IsDir   bool

	dirEntry fs.DirEntry
}

// Info returns the entry's file info without following symlinks.
func (e Entry) Info() (fs.FileInfo, error) {
	if e.dirEntry == nil {
		return nil, fs.ErrInvalid
	}
	return e.dirEntry.Info()
}

// Walk lazily enumerates the vault depth-first in lexical order, excluding
// the root and everything matched by the ignore patterns. Ignored
// directories are not descended into. Read errors below the root are
// yielded and the walk continues; a failure to read the root ends it.
func (s *Service) Walk() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		err := filepath.WalkDir(s.vaultPath, func(path string, d fs.DirEntry, err error) error {
			if path == s.vaultPath {
				return err
			}
			rel := s.Rel(path)
			if err != nil {
				if !yield(Entry{RelPath: rel}, err) {
					return fs.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if s.pathFilter.Ignored(rel, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(Entry{RelPath: rel, IsDir: d.IsDir(), dirEntry: d}, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(Entry{}, fmt.Errorf("failed to walk vault %s: %w", s.vaultPath, err))
		}
	}
}

// MarkdownFiles returns the sorted vault-relative paths of every
// non-ignored Markdown file. Unreadable subdirectories are logged and
// skipped.
func (s *Service) MarkdownFiles() ([]string, error) {
	var files []string
	for entry, err := range s.Walk() {
		if err != nil {
			if entry.RelPath == "" {
				return nil, err
			}
			slog.Warn("skipping unreadable path", "path", entry.RelPath, "error", err)
			continue
		}
		if !entry.IsDir && IsMarkdown(entry.RelPath) {
			files = append(files, entry.RelPath)
		}
	}
	// WalkDir order is lexical per directory; sort for a global order.
	slices.Sort(files)
	return files, nil
}

// IsMarkdown reports whether path names a Markdown note.
func IsMarkdown(path string) bool {
	return filepath.Ext(path) == MarkdownExt
}

// Stats summarizes the files and directories of the vault. The root
// directory is included in the directory totals.
func (s *Service) Stats() (types.VaultStats, error) {
	stats := types.VaultStats{FileTypes: make(map[string]types.ExtStat)}

	root, err := os.Lstat(s.vaultPath)
	if err != nil {
		return stats, fmt.Errorf("vault not found at %s: %w", s.vaultPath, err)
	}
	stats.TotalDirectories = 1
	stats.UsageDirectories = root.Size()

	for entry, err := range s.Walk() {
		if err != nil {
			if entry.RelPath == "" {
				return stats, err
			}
			slog.Warn("skipping unreadable path", "path", entry.RelPath, "error", err)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Warn("skipping path without file info", "path", entry.RelPath, "error", err)
			continue
		}

		if entry.IsDir {
			stats.TotalDirectories++
			stats.UsageDirectories += info.Size()
			continue
		}
		if !info.Mode().IsRegular() && info.Mode()&fs.ModeSymlink == 0 {
			continue
		}

		key := ExtensionKey(entry.RelPath)
		ext := stats.FileTypes[key]
		ext.Count++
		ext.TotalSize += info.Size()
		stats.FileTypes[key] = ext

		stats.TotalFiles++
		stats.UsageFiles += info.Size()
	}
	return stats, nil
}

// ExtensionKey returns the lower-case extension of path without its dot.
// Names without an extension, including dotfiles such as ".gitignore", map
// to ".".
func ExtensionKey(path string) string {
	name := filepath.Base(filepath.FromSlash(path))
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return "."
	}
	return strings.ToLower(name[i+1:])
}
