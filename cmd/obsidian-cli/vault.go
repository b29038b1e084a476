package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/format"
	"github.com/taigrr/obsidian-cli/internal/journal"
	"github.com/taigrr/obsidian-cli/internal/types"
)

// dateLayout is the format accepted by journal --date.
const dateLayout = "2006-01-02"

// vaultInfo collects the statistics and configuration reported by the info
// command and the get_vault_info tool.
func (a *app) vaultInfo() (types.VaultInfo, error) {
	st := a.state
	info := types.VaultInfo{
		VaultPath:       st.Vault,
		Blacklist:       a.fs.PathFilter().Patterns(),
		Editor:          st.Editor,
		IdentKey:        st.IdentKey,
		JournalTemplate: st.JournalTemplate,
		ConfigFile:      st.ConfigFile,
		Verbose:         st.Verbose,
		Version:         st.Version,
	}

	if fi, err := os.Stat(st.Vault); err != nil || !fi.IsDir() {
		return info, fmt.Errorf("vault not found at: %s", st.Vault)
	}
	info.Exists = true

	stats, err := a.fs.Stats()
	if err != nil {
		return info, err
	}
	info.VaultStats = stats
	info.MarkdownFiles = stats.FileTypes["md"].Count

	journalPath, err := journal.Expand(st.JournalTemplate, journal.VarsFor(a.now()))
	if err != nil {
		return info, err
	}
	info.JournalPath = journalPath

	return info, nil
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show vault statistics and the active configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := a.vaultInfo()
			if err != nil {
				return fmt.Errorf("error getting vault info: %w", err)
			}
			return format.VaultInfo(cmd.OutOrStdout(), info)
		},
	}
}

func newJournalCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Open a journal entry in the editor",
		Long: `Open the journal entry for today, or for --date, in the editor. The
entry's path comes from the journal_template setting; entries are not
created automatically.`,
		Example: `obsidian-cli journal
obsidian-cli journal --date 2025-03-05`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := a.now()
			if cmd.Flags().Changed("date") {
				parsed, err := time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return apperr.Usage("invalid --date %q: use YYYY-MM-DD", date)
				}
				day = parsed
			}

			if err := a.requireVault(); err != nil {
				return err
			}

			rel, err := journal.Path(a.state.JournalTemplate, day)
			if err != nil {
				return err
			}
			a.logger.Info("resolved journal path", "template", a.state.JournalTemplate, "path", rel)

			path, err := a.fs.Resolve(filepath.Join(a.state.Vault, filepath.FromSlash(rel)))
			if err != nil {
				if apperr.IsKind(err, apperr.KindNotFound) {
					return apperr.NotFound(rel, "no journal entry for "+day.Format(dateLayout))
				}
				return err
			}
			return a.editNote(cmd, path)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the entry (YYYY-MM-DD); defaults to today")
	return cmd
}
