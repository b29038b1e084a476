package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/config"
	"github.com/taigrr/obsidian-cli/internal/editor"
	"github.com/taigrr/obsidian-cli/internal/filesystem"
	"github.com/taigrr/obsidian-cli/internal/pathfilter"
	"github.com/taigrr/obsidian-cli/internal/search"
)

// app holds the resolved configuration and the services built from it for
// one invocation.
type app struct {
	state  *config.State
	fs     *filesystem.Service
	search *search.Service
	logger *slog.Logger

	flags globalFlags

	getenv          func(string) string
	now             func() time.Time
	launcher        editor.Launcher
	stdinIsTerminal func(io.Reader) bool
}

type globalFlags struct {
	vault     string
	config    string
	blacklist string
	editor    string
	verbose   bool
}

func newApp() *app {
	return &app{
		getenv:          os.Getenv,
		now:             time.Now,
		stdinIsTerminal: isTerminal,
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "obsidian-cli",
		Short: "Command-line tool for Obsidian vaults",
		Long: `obsidian-cli manages the Markdown notes of an Obsidian vault from the
command line. It creates notes, shows and updates YAML frontmatter,
finds notes by name or title, queries frontmatter across the vault,
opens journal entries, and serves the vault to MCP clients.`,
		Example: `obsidian-cli --vault ~/notes new "Meeting Notes"
obsidian-cli query status --value draft --style table
obsidian-cli journal --date 2025-03-05`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.HasParent() || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.vault, "vault", "", "Path to the Obsidian vault (env "+config.EnvVault+")")
	pf.StringVar(&a.flags.config, "config", "", "Path to a TOML configuration file")
	pf.StringVar(&a.flags.blacklist, "blacklist", "", "Colon-separated path prefixes to ignore (env "+config.EnvBlacklist+")")
	pf.StringVar(&a.flags.editor, "editor", "", "Editor used to edit notes (env "+config.EnvEditor+")")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Enable verbose output")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.Usage("%v", err)
	})

	root.AddCommand(
		newAddUIDCmd(a),
		newCatCmd(a),
		newEditCmd(a),
		newFindCmd(a),
		newInfoCmd(a),
		newJournalCmd(a),
		newLsCmd(a),
		newMetaCmd(a),
		newNewCmd(a),
		newQueryCmd(a),
		newRmCmd(a),
		newServeCmd(a),
	)

	return root
}

// setup resolves the configuration for cmd and builds the services.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	o := config.Overrides{Config: a.flags.config}
	if flags.Changed("vault") {
		o.Vault = &a.flags.vault
	}
	if flags.Changed("blacklist") {
		o.Blacklist = &a.flags.blacklist
	}
	if flags.Changed("editor") {
		o.Editor = &a.flags.editor
	}
	if flags.Changed("verbose") {
		o.Verbose = &a.flags.verbose
	}

	st, err := config.Resolve(o, a.getenv, version)
	if err != nil {
		return err
	}
	a.state = st

	level := slog.LevelError
	if st.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	if st.ConfigFile != "" {
		a.logger.Info("loaded configuration", "path", st.ConfigFile)
	} else {
		a.logger.Warn("Hard-coded defaults will be used as no config file was found.")
	}

	a.fs = filesystem.New(st.Vault, pathfilter.New(st.Blacklist), st.IdentKey)
	a.fs.Now = a.now
	a.search = search.New(a.fs, a.logger)
	if a.launcher == nil {
		a.launcher = editor.New(st.Editor)
	}
	return nil
}

// requireVault fails when the configured vault directory does not exist.
func (a *app) requireVault() error {
	info, err := os.Stat(a.state.Vault)
	if err != nil || !info.IsDir() {
		return apperr.Usage("vault not found: %s", a.state.Vault)
	}
	return nil
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return apperr.Usage("%v", err)
		}
		return nil
	}
}

func (a *app) verbosef(cmd *cobra.Command, format string, args ...any) {
	if a.state != nil && a.state.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
