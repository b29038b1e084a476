package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taigrr/obsidian-cli/internal/types"
)

type (
	// CreateNoteInput contains parameters for creating a note.
	CreateNoteInput struct {
		Filename string `json:"filename" jsonschema:"Name of the note file, relative to the vault root"`
		Content  string `json:"content,omitempty" jsonschema:"Initial content (default: a heading with the note name)"`
		Force    bool   `json:"force,omitempty" jsonschema:"Overwrite the note if it exists (default: false)"`
	}

	// CreateNoteOutput contains the result of creating a note.
	CreateNoteOutput struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
	}

	// FindNotesInput contains parameters for finding notes.
	FindNotesInput struct {
		Term  string `json:"term" jsonschema:"Search term"`
		Exact bool   `json:"exact,omitempty" jsonschema:"Require an exact file name match (default: false)"`
	}

	// FindNotesOutput contains the notes matching a search term.
	FindNotesOutput struct {
		Results []types.FindResult `json:"results"`
		Count   int                `json:"count"`
	}

	// GetNoteContentInput contains parameters for reading a note.
	GetNoteContentInput struct {
		Filename        string `json:"filename" jsonschema:"Name of the note file, relative to the vault root"`
		ShowFrontmatter bool   `json:"show_frontmatter,omitempty" jsonschema:"Include the frontmatter block in content (default: false)"`
	}

	// GetNoteContentOutput contains the text of a note.
	GetNoteContentOutput struct {
		types.NoteContent
		Frontmatter map[string]any `json:"frontmatter,omitempty"`
	}

	// GetVaultInfoInput takes no parameters.
	GetVaultInfoInput struct{}

	// QueryNotesInput contains parameters for a frontmatter query.
	QueryNotesInput struct {
		Key      string  `json:"key" jsonschema:"Frontmatter key to query"`
		Value    *string `json:"value,omitempty" jsonschema:"Match notes whose value equals this string"`
		Contains *string `json:"contains,omitempty" jsonschema:"Match notes whose value contains this substring"`
		Exists   bool    `json:"exists,omitempty" jsonschema:"Match notes that have the key"`
		Missing  bool    `json:"missing,omitempty" jsonschema:"Match notes that lack the key"`
	}

	// QueryMatch is one note matched by a query.
	QueryMatch struct {
		Path        string         `json:"path"`
		Frontmatter map[string]any `json:"frontmatter"`
		Value       any            `json:"value"`
		HasKey      bool           `json:"has_key"`
	}

	// QueryNotesOutput contains the notes matched by a query.
	QueryNotesOutput struct {
		Matches []QueryMatch `json:"matches"`
		Count   int          `json:"count"`
	}
)

func (a *app) newMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "obsidian-cli",
		Version: version,
	}, nil)

	a.registerTools(server)
	return server
}

func (a *app) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_note",
		Description: "Create a new note in the Obsidian vault. The note receives created, modified, title and identifier frontmatter.",
	}, a.handleCreateNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_notes",
		Description: "Find notes by file name or frontmatter title. Fuzzy matching is case-insensitive; exact matching compares file names only.",
	}, a.handleFindNotes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_note_content",
		Description: "Get the content of a note. The frontmatter block is stripped unless show_frontmatter is set.",
	}, a.handleGetNoteContent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_vault_info",
		Description: "Get statistics and configuration for the Obsidian vault.",
	}, a.handleGetVaultInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_notes",
		Description: "Query frontmatter across the vault. value and contains are mutually exclusive, as are exists and missing.",
	}, a.handleQueryNotes)
}
