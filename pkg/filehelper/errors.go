package filehelper

import (
	"errors"
	"fmt"

	"github.com/ImGajeed76/filehelper/pkg/filehelper/path"
)

// Error kinds. Every error returned by a Helper is a *path.PathError whose
// chain contains exactly one of these, so callers can branch with errors.Is.
var (
	// ErrInvalidArgument covers empty or malformed paths, non-positive read
	// lengths and empty delimiters.
	ErrInvalidArgument = path.ErrInvalid
	// ErrEmptyInput is returned by the bulk writers when there is nothing to
	// write. The file is left untouched.
	ErrEmptyInput = fmt.Errorf("%w: nothing to write", ErrInvalidArgument)
	// ErrIO wraps failures of the underlying file system or connection.
	ErrIO = errors.New("i/o failure")
	// ErrFormat is returned when a mapping line does not contain the delimiter.
	ErrFormat = errors.New("missing delimiter")
	// ErrParse is returned when an id mapping key is not a 64-bit integer.
	ErrParse = errors.New("invalid id")
	// ErrClosed is returned by stream reads after Close.
	ErrClosed = path.ErrClosed
)

func pathString(p *path.Path) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func invalidArgument(op string, p *path.Path, msg string) error {
	return &path.PathError{Op: op, Path: pathString(p), Err: fmt.Errorf("%w: %s", ErrInvalidArgument, msg)}
}

func ioError(op string, p *path.Path, err error) error {
	return &path.PathError{Op: op, Path: pathString(p), Err: fmt.Errorf("%w: %w", ErrIO, err)}
}

func closedError(op string, p *path.Path) error {
	return &path.PathError{Op: op, Path: pathString(p), Err: ErrClosed}
}

func formatError(op string, p *path.Path, line int, delimiter string) error {
	return &path.PathError{Op: op, Path: pathString(p), Line: line, Err: fmt.Errorf("%w %q", ErrFormat, delimiter)}
}

func parseError(op string, p *path.Path, line int, err error) error {
	return &path.PathError{Op: op, Path: pathString(p), Line: line, Err: fmt.Errorf("%w: %w", ErrParse, err)}
}
