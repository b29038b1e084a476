package main

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taigrr/obsidian-cli/internal/filesystem"
	"github.com/taigrr/obsidian-cli/internal/frontmatter"
	"github.com/taigrr/obsidian-cli/internal/search"
	"github.com/taigrr/obsidian-cli/internal/types"
	"github.com/taigrr/obsidian-cli/internal/uri"
)

func (a *app) handleCreateNote(ctx context.Context, req *mcp.CallToolRequest, input CreateNoteInput) (*mcp.CallToolResult, CreateNoteOutput, error) {
	path, err := a.fs.Create(types.CreateNoteParams{
		Name:    strings.TrimSpace(input.Filename),
		Content: input.Content,
		Force:   input.Force,
	})
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, CreateNoteOutput{Success: false, Path: input.Filename}, err
	}

	a.logger.Info("created note", "path", path)
	return nil, CreateNoteOutput{Success: true, Path: a.fs.Rel(path)}, nil
}

func (a *app) handleFindNotes(ctx context.Context, req *mcp.CallToolRequest, input FindNotesInput) (*mcp.CallToolResult, FindNotesOutput, error) {
	matches, err := a.search.Find(input.Term, input.Exact)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, FindNotesOutput{}, err
	}

	results := make([]types.FindResult, 0, len(matches))
	for _, rel := range matches {
		results = append(results, types.FindResult{
			Path:  rel,
			Title: a.search.Title(rel),
			URI:   uri.Open(a.fs.GetVaultPath(), rel),
		})
	}
	return nil, FindNotesOutput{Results: results, Count: len(results)}, nil
}

func (a *app) handleGetNoteContent(ctx context.Context, req *mcp.CallToolRequest, input GetNoteContentInput) (*mcp.CallToolResult, GetNoteContentOutput, error) {
	path, err := a.fs.VaultPath(filesystem.ForceMarkdown(strings.TrimSpace(input.Filename)))
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, GetNoteContentOutput{}, err
	}

	raw, err := a.fs.ReadFile(path)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, GetNoteContentOutput{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, GetNoteContentOutput{}, err
	}

	out := GetNoteContentOutput{NoteContent: types.NoteContent{Path: a.fs.Rel(path), Content: doc.Body}}
	if input.ShowFrontmatter {
		out.Content = string(raw)
	}
	if doc.Metadata.Len() > 0 {
		out.Frontmatter = jsonMap(&doc.Metadata)
	}
	return nil, out, nil
}

func (a *app) handleGetVaultInfo(ctx context.Context, req *mcp.CallToolRequest, input GetVaultInfoInput) (*mcp.CallToolResult, types.VaultInfo, error) {
	info, err := a.vaultInfo()
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, info, err
	}
	return nil, info, nil
}

func (a *app) handleQueryNotes(ctx context.Context, req *mcp.CallToolRequest, input QueryNotesInput) (*mcp.CallToolResult, QueryNotesOutput, error) {
	filter := search.FilterFromParams(types.QueryParams{
		Key:      input.Key,
		Value:    input.Value,
		Contains: input.Contains,
		Exists:   input.Exists,
		Missing:  input.Missing,
	})

	matches, err := a.search.Query(filter)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, QueryNotesOutput{}, err
	}

	out := QueryNotesOutput{Matches: make([]QueryMatch, 0, len(matches)), Count: len(matches)}
	for _, m := range matches {
		qm := QueryMatch{Path: m.Path, Frontmatter: jsonMap(&m.Document.Metadata)}
		if v, ok := m.Document.Get(filter.Key); ok {
			qm.Value, qm.HasKey = frontmatter.JSONValue(v), true
		}
		out.Matches = append(out.Matches, qm)
	}
	return nil, out, nil
}

// jsonMap converts metadata to JSON-friendly values keyed by field name.
func jsonMap(m *frontmatter.Metadata) map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = frontmatter.JSONValue(v)
	}
	return out
}
