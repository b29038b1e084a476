package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/filesystem"
	"github.com/taigrr/obsidian-cli/internal/format"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/types"
)

func newNewCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <page>",
		Short: "Create a new note in the vault",
		Long: `Create a new note in the vault. Piped input becomes the body of the
note; otherwise the note starts with a heading and is opened in the
editor.`,
		Example: `obsidian-cli new "Projects/Roadmap"
echo "Buy milk" | obsidian-cli new Inbox/groceries`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			interactive := a.stdinIsTerminal(in)

			params := types.CreateNoteParams{Name: args[0], Force: force}
			if !interactive {
				data, err := io.ReadAll(in)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				if content := strings.TrimSpace(string(data)); content != "" {
					params.Content = content + "\n"
				}
				a.verbosef(cmd, "Using content from stdin")
			}

			if force && a.fs.Exists(filesystem.ForceMarkdown(args[0])) {
				a.verbosef(cmd, "Overwriting existing file: %s", args[0])
			}

			path, err := a.fs.Create(params)
			if err != nil {
				return err
			}
			a.verbosef(cmd, "Created new file: %s", path)

			if interactive {
				return a.editNote(cmd, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newCatCmd(a *app) *cobra.Command {
	var showFrontmatter, render bool

	cmd := &cobra.Command{
		Use:   "cat <page>",
		Short: "Display the contents of a note",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.fs.Resolve(args[0])
			if err != nil {
				return err
			}

			var content string
			if showFrontmatter {
				data, err := a.fs.ReadFile(path)
				if err != nil {
					return err
				}
				content = string(data)
			} else {
				doc, err := a.fs.ReadDocument(path)
				if err != nil {
					return err
				}
				content = doc.Body
			}

			if render {
				if content, err = format.RenderMarkdown(content, format.TermWidth()); err != nil {
					return fmt.Errorf("failed to render %s: %w", args[0], err)
				}
			}

			if content != "" && !strings.HasSuffix(content, "\n") {
				content += "\n"
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}

	cmd.Flags().BoolVar(&showFrontmatter, "show-frontmatter", false, "Show the frontmatter as well as the body")
	cmd.Flags().BoolVar(&render, "render", false, "Render Markdown for the terminal")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <page>",
		Short: "Edit a note with the configured editor",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.fs.Resolve(args[0])
			if err != nil {
				return err
			}
			return a.editNote(cmd, path)
		},
	}
}

// editNote opens path in the editor and stamps the modified time of
// Markdown notes afterwards.
func (a *app) editNote(cmd *cobra.Command, path string) error {
	if err := a.launcher.Edit(cmd.Context(), path); err != nil {
		return err
	}
	if !filesystem.IsMarkdown(path) {
		return nil
	}
	return a.fs.Touch(path)
}

func newMetaCmd(a *app) *cobra.Command {
	var key, value string

	cmd := &cobra.Command{
		Use:     "meta <page>",
		Aliases: []string{"frontmatter"},
		Short:   "View or update frontmatter metadata",
		Long: `View or update the frontmatter of a note. Without --key every field is
listed; with --key alone the field is shown; with --key and --value the
field is set and the note's modified time is updated.`,
		Example: `obsidian-cli meta "Daily Log"
obsidian-cli meta "Daily Log" --key status --value done`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			keySet, valueSet := cmd.Flags().Changed("key"), cmd.Flags().Changed("value")
			if valueSet && !keySet {
				return apperr.Usage("--value requires --key")
			}

			path, err := a.fs.Resolve(args[0])
			if err != nil {
				return err
			}

			if valueSet {
				err := a.fs.Update(path, func(doc *frontmatter.Document) error {
					doc.Set(key, value)
					return nil
				})
				if err != nil {
					return err
				}
				a.verbosef(cmd, "Updated '%s': '%s' in %s", key, value, path)
				return nil
			}

			doc, err := a.fs.ReadDocument(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if keySet {
				v, ok := doc.Get(key)
				if !ok {
					return fmt.Errorf("property '%s' not found in frontmatter of '%s'", key, args[0])
				}
				fmt.Fprintf(out, "%s: %s\n", key, frontmatter.Stringify(v))
				return nil
			}

			if doc.Metadata.Len() == 0 {
				format.Notice(cmd.ErrOrStderr(), format.Warning, "No frontmatter metadata found for this page")
				return nil
			}
			for k, v := range doc.Metadata.All() {
				fmt.Fprintf(out, "%s: %s\n", k, frontmatter.Stringify(v))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Frontmatter key to view or update")
	cmd.Flags().StringVar(&value, "value", "", "New value for --key")
	return cmd
}

func newAddUIDCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "add-uid <page>",
		Short: "Add a unique identifier to a note's frontmatter",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.fs.Resolve(args[0])
			if err != nil {
				return err
			}
			key := a.fs.IdentKey()

			doc, err := a.fs.ReadDocument(path)
			if err != nil {
				return err
			}
			if v, ok := doc.Get(key); ok && !force {
				a.verbosef(cmd, "Use --force to replace value of existing %s.", key)
				return fmt.Errorf("page '%s' already has %s: %s", args[0], key, frontmatter.Stringify(v))
			}

			id := filesystem.NewIdentifier()
			a.verbosef(cmd, "Generated new UUID: %s", id)

			return a.fs.Update(path, func(doc *frontmatter.Document) error {
				doc.Set(key, id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing identifier")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <page>",
		Short: "Remove a note from the vault",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.fs.Resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				ok, err := confirm(cmd, fmt.Sprintf("Are you sure you want to delete '%s'?", path))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Operation cancelled.")
					return nil
				}
			}

			if err := a.fs.Remove(path); err != nil {
				return err
			}
			fmt.Fprintf(out, "File removed: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
// End of input counts as no.
func confirm(cmd *cobra.Command, message string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s ", message, format.Muted.Render("[y/N]"))

	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, os.ErrClosed) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
