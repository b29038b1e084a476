// Package uri builds Obsidian URIs for notes.
package uri

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Absolute returns the absolute-path form obsidian:///path/to/note for a
// vault-relative note path. The .md extension is dropped.
func Absolute(vaultPath, notePath string) string {
	cleanPath := strings.TrimPrefix(filepath.ToSlash(notePath), "/")
	absolutePath := strings.TrimSuffix(filepath.ToSlash(vaultPath), "/") + "/" + cleanPath
	absolutePath = strings.TrimSuffix(absolutePath, ".md")

	// Escape each segment but keep the separators.
	parts := strings.Split(absolutePath, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	encodedPath := strings.TrimPrefix(strings.Join(parts, "/"), "/")

	return "obsidian:///" + encodedPath
}

// Open returns obsidian://open?vault=NAME&file=PATH, where NAME is the base
// name of the vault directory and PATH the note path without .md.
func Open(vaultPath, notePath string) string {
	name := filepath.Base(filepath.Clean(vaultPath))
	file := strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(notePath), "/"), ".md")
	return "obsidian://open?vault=" + escape(name) + "&file=" + escape(file)
}

// escape query-escapes s using %20 for spaces, which Obsidian expects.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
