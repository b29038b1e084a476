// Package config loads obsidian-cli configuration from TOML files, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/journal"
	"github.com/taigrr/obsidian-cli/internal/pathfilter"
)

// AppName names the per-user configuration directory.
const AppName = "obsidian-cli"

// LocalFile is the configuration file looked up in the working directory.
const LocalFile = ".obsidian-cli.toml"

// Defaults.
const (
	DefaultEditor   = "vi"
	DefaultIdentKey = "uid"
)

// Config is the contents of a configuration file.
type Config struct {
	// Blacklist lists vault-relative path prefixes to ignore.
	Blacklist []string `toml:"blacklist"`

	// IgnoredDirectories is the legacy name for Blacklist.
	IgnoredDirectories []string `toml:"ignored_directories"`

	Editor          string `toml:"editor"`
	IdentKey        string `toml:"ident_key"`
	JournalTemplate string `toml:"journal_template"`
	Vault           string `toml:"vault"`
	Verbose         bool   `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Blacklist:       slices.Clone(pathfilter.DefaultPatterns),
		Editor:          DefaultEditor,
		IdentKey:        DefaultIdentKey,
		JournalTemplate: journal.DefaultTemplate,
	}
}

// LoadFrom reads the configuration file at path on top of the defaults.
// A missing file is a file error; a malformed one is a usage error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.File(path, "configuration file not found", err)
		}
		return nil, apperr.File(path, "configuration file not readable", err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, apperr.Usage("error parsing TOML configuration file %s: %v", path, err)
	}
	if !md.IsDefined("blacklist") && md.IsDefined("ignored_directories") {
		cfg.Blacklist = cfg.IgnoredDirectories
	}
	return cfg, nil
}

// Load reads the configuration. An explicit path must exist; otherwise the
// first file found in SearchPaths(dirs) is used. It returns the defaults and
// an empty source when no file is found.
func Load(explicit string, dirs []string) (cfg *Config, source string, err error) {
	if explicit != "" {
		cfg, err := LoadFrom(explicit)
		if err != nil {
			return nil, "", err
		}
		return cfg, explicit, nil
	}

	for _, candidate := range SearchPaths(dirs) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		cfg, err := LoadFrom(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}
	return Default(), "", nil
}

// DefaultDirs returns the directories searched for a configuration file, in
// order: the working directory, the OS user configuration directory and
// ~/.config/obsidian-cli.
func DefaultDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", AppName))
	}
	return dirs
}

// SearchPaths returns the candidate configuration files for dirs. A nil dirs
// uses DefaultDirs, where the working directory contributes LocalFile and
// every other directory contributes config.toml. Explicit dirs each
// contribute config.toml.
func SearchPaths(dirs []string) []string {
	var paths []string
	add := func(p string) {
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}

	if dirs == nil {
		cwd, _ := os.Getwd()
		for _, dir := range DefaultDirs() {
			if dir == cwd {
				add(filepath.Join(dir, LocalFile))
				continue
			}
			add(filepath.Join(dir, "config.toml"))
		}
		return paths
	}

	for _, dir := range dirs {
		add(filepath.Join(dir, "config.toml"))
	}
	return paths
}

// SplitList splits a colon-separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ":") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
