package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/format"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/search"
	"github.com/taigrr/obsidian-cli/internal/uri"
)

// noteURI renders rel as an Obsidian URI in the given form.
func noteURI(form, vault, rel string) (string, error) {
	switch form {
	case "open":
		return uri.Open(vault, rel), nil
	case "path":
		return uri.Absolute(vault, rel), nil
	default:
		return "", apperr.Usage("invalid --uri form %q (valid: open, path)", form)
	}
}

func newFindCmd(a *app) *cobra.Command {
	var (
		exact   bool
		uriForm string
	)

	cmd := &cobra.Command{
		Use:   "find <term>",
		Short: "Find notes by file name or title",
		Long: `Find notes whose file name matches the term. Without --exact the match
is a case-insensitive substring of the file name or the frontmatter
title.`,
		Example: `obsidian-cli find meeting
obsidian-cli find "Weekly Review" --exact --uri`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := args[0]
			if uriForm != "" {
				if _, err := noteURI(uriForm, "", ""); err != nil {
					return err
				}
			}
			if err := a.requireVault(); err != nil {
				return err
			}

			a.verbosef(cmd, "Searching for page: '%s'", term)
			a.verbosef(cmd, "Exact match: %t", exact)

			matches, err := a.search.Find(term, exact)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				format.Notice(cmd.ErrOrStderr(), format.Warning, fmt.Sprintf("No files found matching '%s'", term))
				return nil
			}

			out := cmd.OutOrStdout()
			for _, rel := range matches {
				line := rel
				if uriForm != "" {
					line, _ = noteURI(uriForm, a.state.Vault, rel)
				}
				fmt.Fprintln(out, line)

				if !a.state.Verbose {
					continue
				}
				doc, err := a.fs.ReadDocument(filepath.Join(a.state.Vault, filepath.FromSlash(rel)))
				if err != nil {
					continue
				}
				if title, ok := doc.Get(frontmatter.TitleKey); ok {
					fmt.Fprintf(out, "  title: %s\n", frontmatter.Stringify(title))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&exact, "exact", "e", false, "Require an exact, case-sensitive file name match")
	cmd.Flags().StringVar(&uriForm, "uri", "", "Print Obsidian URIs instead of paths (open or path)")
	cmd.Flags().Lookup("uri").NoOptDefVal = "open"
	return cmd
}

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the notes in the vault",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireVault(); err != nil {
				return err
			}
			files, err := a.fs.MarkdownFiles()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		value, contains string
		exists, missing bool
		styleName       string
		count           bool
	)

	cmd := &cobra.Command{
		Use:   "query <key>",
		Short: "Query frontmatter across the vault",
		Long: `Query frontmatter across every note in the vault. A note matches when
it has the key, optionally with an exact --value or a --contains
substring. --missing selects notes without the key.

Output styles: ` + strings.Join(format.StyleNames(), ", ") + ".",
		Example: `obsidian-cli query status --value draft
obsidian-cli query tags --contains project --style table
obsidian-cli query uid --missing --count`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			f := search.Filter{Key: args[0], Exists: exists, Missing: missing}
			if flags.Changed("value") {
				f.Value = &value
			}
			if flags.Changed("contains") {
				f.Contains = &contains
			}
			if err := f.Validate(); err != nil {
				return err
			}

			style, err := format.ParseStyle(styleName)
			if err != nil {
				return err
			}
			if count {
				style = format.Count
			}

			if err := a.requireVault(); err != nil {
				return err
			}

			a.verbosef(cmd, "Searching for frontmatter key: %s", f.Key)
			if f.Value != nil {
				a.verbosef(cmd, "Filtering for exact value: %s", *f.Value)
			}
			if f.Contains != nil {
				a.verbosef(cmd, "Filtering for substring: %s", *f.Contains)
			}

			matches, err := a.search.Query(f)
			if err != nil {
				return err
			}
			if len(matches) == 0 && !style.Structured() {
				format.Notice(cmd.ErrOrStderr(), format.Warning, format.NoMatches)
				return nil
			}
			return format.Render(cmd.OutOrStdout(), matches, style, f.Key)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&value, "value", "", "Match notes whose value equals this string")
	flags.StringVar(&contains, "contains", "", "Match notes whose value contains this substring")
	flags.BoolVar(&exists, "exists", false, "Match notes that have the key")
	flags.BoolVar(&missing, "missing", false, "Match notes that lack the key")
	flags.StringVarP(&styleName, "style", "s", format.Path.String(), "Output style")
	flags.StringVar(&styleName, "format", format.Path.String(), "Alias for --style")
	flags.BoolVarP(&count, "count", "c", false, "Only print the number of matches")
	return cmd
}
