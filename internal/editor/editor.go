// Package editor launches an external editor on a note.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/taigrr/obsidian-cli/internal/apperr"
)

// Launcher opens a file for interactive editing and returns when the editor
// exits.
type Launcher interface {
	Edit(ctx context.Context, path string) error
}

// Command launches an editor command resolved through PATH. Editor may
// carry arguments, as in "code --wait".
type Command struct {
	Editor string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Command attached to the process's terminal.
func New(editor string) *Command {
	return &Command{
		Editor: editor,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Edit runs the editor on path. A missing editor is a usage error; an editor
// that exits unsuccessfully is a plain failure.
func (c *Command) Edit(ctx context.Context, path string) error {
	fields := strings.Fields(c.Editor)
	if len(fields) == 0 {
		return apperr.Usage("no editor configured")
	}

	bin, err := exec.LookPath(fields[0])
	if err != nil {
		return apperr.Usage("editor %q not found in PATH", fields[0])
	}

	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.Stdin, c.Stdout, c.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor %s exited with status %d", fields[0], exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor %s: %w", fields[0], err)
	}
	return nil
}

// Func adapts a function to the Launcher interface.
type Func func(ctx context.Context, path string) error

// Edit calls f.
func (f Func) Edit(ctx context.Context, path string) error {
	return f(ctx, path)
}
