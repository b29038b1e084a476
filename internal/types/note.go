// Package types defines the data structures shared by the CLI, the MCP
// server and the request protocol.
package types

type (
	// CreateNoteParams contains parameters for creating a note. An empty
	// Content produces a level-one heading with the note's stem.
	CreateNoteParams struct {
		Name    string `json:"filename"`
		Content string `json:"content,omitempty"`
		Force   bool   `json:"force,omitempty"`
	}

	// NoteContent is the text of a note as returned by the MCP server.
	NoteContent struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
)
