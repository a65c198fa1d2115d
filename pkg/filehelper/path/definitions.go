package path

import (
	"io/fs"
	"strconv"
)

const (
	// MaxPathLength is the longest path New and Parse accept
	MaxPathLength = 4096
	// DefaultSftpPort is used when an sftp:// reference has no port
	DefaultSftpPort = "22"

	sftpScheme = "sftp://"
)

var (
	ErrNotExist   = fs.ErrNotExist   // Item does not exist
	ErrExist      = fs.ErrExist      // Item already exists
	ErrPermission = fs.ErrPermission // Permission denied
	ErrInvalid    = fs.ErrInvalid    // Invalid operation
	ErrClosed     = fs.ErrClosed     // File already closed
)

// PathError records an error and the operation, file and (optionally) line
// that caused it.
type PathError struct {
	Op   string
	Path string
	// Line is the 1-based line number for content errors, 0 otherwise.
	Line int
	Err  error
}

func (e *PathError) Error() string {
	s := e.Op + " " + e.Path
	if e.Line > 0 {
		s += ":" + strconv.Itoa(e.Line)
	}
	if e.Err == nil {
		return s
	}
	return s + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

// Path is a reference to a local file or to a file on an SFTP server.
type Path struct {
	path     string
	isSftp   bool
	host     string
	port     string
	username string
	password string
}
