// Package apperr defines the error categories surfaced by the CLI and the
// process exit codes they map to.
package apperr

import (
	"errors"
	"fmt"
)

// Exit codes returned by the obsidian-cli binary.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitFile    = 12
)

// Kind classifies an Error.
type Kind int

const (
	// KindUsage covers bad or conflicting flags and missing configuration.
	KindUsage Kind = iota + 1
	// KindNotFound is returned when a note reference cannot be resolved.
	KindNotFound
	// KindFile covers unreadable configuration files and file I/O failures.
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindNotFound:
		return "not found"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Error is a categorized application error.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Usage returns a usage error.
func Usage(format string, args ...any) error {
	return &Error{Kind: KindUsage, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error for path.
func NotFound(path, msg string) error {
	return &Error{Kind: KindNotFound, Path: path, Msg: msg}
}

// File returns a file error for path wrapping err.
func File(path, msg string, err error) error {
	return &Error{Kind: KindFile, Path: path, Msg: msg, Err: err}
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *Error
	if !errors.As(err, &e) {
		return ExitFailure
	}
	switch e.Kind {
	case KindUsage, KindNotFound:
		return ExitUsage
	case KindFile:
		return ExitFile
	default:
		return ExitFailure
	}
}
