// Package pathfilter decides which vault paths are excluded by ignore patterns.
package pathfilter

import (
	"regexp"
	"strings"
)

// DefaultPatterns are the ignore patterns used when none are configured.
var DefaultPatterns = []string{"Assets/", ".obsidian/", ".git/"}

// PathFilter evaluates ignore patterns against vault-relative paths.
type PathFilter struct {
	prefixes []string
	globs    []*regexp.Regexp
	patterns []string
}

// New creates a PathFilter from the given patterns. A pattern without glob
// metacharacters excludes every path that starts with it; a pattern that
// contains * or ? is matched against the whole path.
func New(patterns []string) *PathFilter {
	pf := &PathFilter{}
	for _, p := range patterns {
		p = normalize(p)
		if p == "" {
			continue
		}
		pf.patterns = append(pf.patterns, p)
		if strings.ContainsAny(p, "*?") {
			if re, err := compileGlob(p); err == nil {
				pf.globs = append(pf.globs, re)
			}
			continue
		}
		pf.prefixes = append(pf.prefixes, p)
	}
	return pf
}

// Patterns returns the normalized patterns in configuration order.
func (pf *PathFilter) Patterns() []string {
	return append([]string(nil), pf.patterns...)
}

// compileGlob converts a glob pattern to an anchored regular expression.
// A trailing slash matches the directory and everything below it.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	dir := strings.HasSuffix(pattern, "/")

	regexPattern := regexp.QuoteMeta(pattern)
	regexPattern = strings.ReplaceAll(regexPattern, `\*\*`, ".*")
	regexPattern = strings.ReplaceAll(regexPattern, `\*`, "[^/]*")
	regexPattern = strings.ReplaceAll(regexPattern, `\?`, "[^/]")

	if dir {
		regexPattern = "^" + regexPattern + ".*$"
	} else {
		regexPattern = "^" + regexPattern + "$"
	}
	return regexp.Compile(regexPattern)
}

// Ignored reports whether rel is excluded. Directories are tested with a
// trailing slash so that "Assets/" excludes the Assets directory itself.
func (pf *PathFilter) Ignored(rel string, isDir bool) bool {
	rel = normalize(rel)
	if rel == "" {
		return false
	}
	if isDir && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}

	for _, prefix := range pf.prefixes {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	for _, re := range pf.globs {
		if re.MatchString(rel) || (isDir && re.MatchString(strings.TrimSuffix(rel, "/"))) {
			return true
		}
	}
	return false
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "./")
}
