// Package rpc implements the JSON request/response protocol used by
// external tools to read from the vault.
package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taigrr/obsidian-cli/internal/apperr"
	"github.com/taigrr/obsidian-cli/internal/filesystem"
	"github.com/taigrr/obsidian-cli/internal/search"
)

// Supported actions.
const (
	ActionGetVaultPath   = "get_vault_path"
	ActionGetFileContent = "get_file_content"
	ActionGetFiles       = "get_files"
	ActionFindFiles      = "find_files"
)

// Request is a single protocol request.
type Request struct {
	Action string `json:"action"`
	File   string `json:"file,omitempty"`
	Term   string `json:"term,omitempty"`
	Exact  bool   `json:"exact,omitempty"`
}

// Response is the reply to a Request. Error is set only when Success is
// false.
type Response struct {
	Success bool     `json:"success"`
	Path    string   `json:"path,omitempty"`
	Content *string  `json:"content,omitempty"`
	Files   []string `json:"files,omitzero"`
	Error   string   `json:"error,omitempty"`
}

func failure(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}

// Handler answers protocol requests against one vault.
type Handler struct {
	fs     *filesystem.Service
	search *search.Service
	logger *slog.Logger
}

// NewHandler returns a Handler serving the vault behind fs.
func NewHandler(fs *filesystem.Service, searcher *search.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{fs: fs, search: searcher, logger: logger}
}

// Handle decodes raw and dispatches it. It never returns an error: every
// failure is reported in the response.
func (h *Handler) Handle(raw []byte) Response {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return failure("no request provided")
	}
	if raw[0] != '{' {
		return failure("invalid request: expected a JSON object")
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return failure("invalid request: %v", err)
	}
	return h.Do(req)
}

// Do executes a decoded request.
func (h *Handler) Do(req Request) Response {
	h.logger.Debug("rpc request", "action", req.Action, "file", req.File, "term", req.Term)

	switch req.Action {
	case "":
		return failure("invalid request: missing action")
	case ActionGetVaultPath:
		return Response{Success: true, Path: h.fs.GetVaultPath()}
	case ActionGetFileContent:
		return h.fileContent(req.File)
	case ActionGetFiles:
		files, err := h.fs.MarkdownFiles()
		if err != nil {
			return failure("%v", err)
		}
		return Response{Success: true, Files: nonNil(files)}
	case ActionFindFiles:
		files, err := h.search.Find(req.Term, req.Exact)
		if err != nil {
			return failure("%v", err)
		}
		return Response{Success: true, Files: nonNil(files)}
	default:
		return failure("unsupported action: %s", req.Action)
	}
}

func (h *Handler) fileContent(file string) Response {
	if file == "" {
		return failure("missing file parameter")
	}

	path, err := h.fs.VaultPath(filesystem.ForceMarkdown(file))
	if err != nil {
		return failure("%v", err)
	}

	content, err := h.fs.ReadFile(path)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return failure("file not found: %s", file)
		}
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return failure("%s: %s", file, ae.Msg)
		}
		return failure("%v", err)
	}

	text := string(content)
	return Response{Success: true, Content: &text}
}

func nonNil(files []string) []string {
	if files == nil {
		return []string{}
	}
	return files
}
