// Package backend is the file system seam under filehelper.Helper.
//
// A Backend opens files by name. Local covers the operating system (and any
// other afero.Fs, such as the in-memory one used in tests); SFTP covers files
// on a remote server reached through a pooled github.com/pkg/sftp client.
package backend

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// File is an open file on a Backend. *os.File, afero.File and *sftp.File all
// satisfy it.
type File interface {
	io.ReadWriteCloser
	Name() string
}

// Backend is the set of file operations filehelper needs.
type Backend interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
	// OpenFile follows os.OpenFile flag semantics, including os.O_APPEND.
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)
	Chmod(name string, mode fs.FileMode) error
	String() string
}

// EnsureFile creates name as an empty file with mode perm if it does not
// exist yet. It reports whether the file was created. A directory at name is
// an error.
func EnsureFile(b Backend, name string, perm fs.FileMode) (bool, error) {
	info, err := b.Stat(name)
	if err == nil {
		if info.IsDir() {
			return false, &fs.PathError{Op: b.String() + "-ensure-isdir", Path: name, Err: fs.ErrInvalid}
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, &fs.PathError{Op: b.String() + "-ensure-stat", Path: name, Err: err}
	}

	f, err := b.OpenFile(name, os.O_WRONLY|os.O_CREATE, perm)
	if err != nil {
		return false, &fs.PathError{Op: b.String() + "-ensure-create", Path: name, Err: err}
	}
	if err := f.Close(); err != nil {
		return true, &fs.PathError{Op: b.String() + "-ensure-close", Path: name, Err: err}
	}
	if err := b.Chmod(name, perm); err != nil {
		return true, &fs.PathError{Op: b.String() + "-ensure-chmod", Path: name, Err: err}
	}
	return true, nil
}

// WriteFlags returns the os.OpenFile flags for a truncating or appending write.
func WriteFlags(append bool) int {
	if append {
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
}
