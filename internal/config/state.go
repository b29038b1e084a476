package config

import (
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/journal"
)

// Environment variables consulted by Resolve.
const (
	EnvVault      = "OBSIDIAN_VAULT"
	EnvBlacklist  = "OBSIDIAN_BLACKLIST"
	EnvEditor     = "EDITOR"
	EnvConfigDirs = "OBSIDIAN_CONFIG_DIRS"
)

// State is the resolved configuration for one run. It is not modified after
// Resolve returns.
type State struct {
	Vault           string   `json:"vault"`
	Blacklist       []string `json:"blacklist"`
	Editor          string   `json:"editor"`
	IdentKey        string   `json:"ident_key"`
	JournalTemplate string   `json:"journal_template"`
	ConfigDirs      []string `json:"config_dirs"`
	ConfigFile      string   `json:"config_file"`
	Verbose         bool     `json:"verbose"`
	Version         string   `json:"version"`
}

// Overrides carries command-line values. A nil pointer means the flag was
// not given.
type Overrides struct {
	Config    string
	Vault     *string
	Blacklist *string
	Editor    *string
	Verbose   *bool
}

// Resolve combines flags, environment and configuration file. For each
// setting the highest-precedence source that is present wins outright:
// flag, then environment, then file, then default.
func Resolve(o Overrides, getenv func(string) string, version string) (*State, error) {
	var dirs []string
	if env := getenv(EnvConfigDirs); env != "" {
		dirs = SplitList(env)
	}

	cfg, source, err := Load(o.Config, dirs)
	if err != nil {
		return nil, err
	}

	st := &State{
		Blacklist:       cfg.Blacklist,
		Editor:          cfg.Editor,
		IdentKey:        cfg.IdentKey,
		JournalTemplate: cfg.JournalTemplate,
		ConfigDirs:      dirs,
		ConfigFile:      source,
		Verbose:         cfg.Verbose,
		Version:         version,
	}
	if st.ConfigDirs == nil {
		st.ConfigDirs = DefaultDirs()
	}

	vault := pick(o.Vault, getenv(EnvVault), cfg.Vault)
	if vault == "" {
		return nil, apperr.Usage("vault path is required: use --vault, the %s environment variable, or 'vault' in a configuration file", EnvVault)
	}
	if vault, err = ExpandHome(vault); err != nil {
		return nil, err
	}
	if st.Vault, err = filepath.Abs(vault); err != nil {
		return nil, err
	}

	switch {
	case o.Blacklist != nil:
		st.Blacklist = SplitList(*o.Blacklist)
	case getenv(EnvBlacklist) != "":
		st.Blacklist = SplitList(getenv(EnvBlacklist))
	}

	st.Editor = pick(o.Editor, getenv(EnvEditor), cfg.Editor)
	if st.Editor == "" {
		st.Editor = DefaultEditor
	}

	if o.Verbose != nil {
		st.Verbose = *o.Verbose
	}

	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

func pick(flag *string, env, file string) string {
	if flag != nil {
		return *flag
	}
	if env != "" {
		return env
	}
	return file
}

// Validate checks the resolved settings. An invalid journal template is
// reported as a *journal.TemplateError.
func (s *State) Validate() error {
	if strings.TrimSpace(s.Vault) == "" {
		return apperr.Usage("vault path is required")
	}
	if err := journal.Validate(s.JournalTemplate); err != nil {
		return err
	}
	return validation.ValidateStruct(s,
		validation.Field(&s.IdentKey, validation.Required),
		validation.Field(&s.JournalTemplate, validation.Required),
		validation.Field(&s.Editor, validation.Required),
	)
}
