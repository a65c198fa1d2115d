package backend

import (
	"io/fs"

	"github.com/spf13/afero"
)

// Local is a Backend over an afero.Fs.
type Local struct {
	fs   afero.Fs
	name string
}

// NewLocal returns a Backend over the operating system's file system.
func NewLocal() *Local {
	return &Local{fs: afero.NewOsFs(), name: "local"}
}

// NewMemory returns a Backend over a fresh, volatile in-memory file system.
func NewMemory() *Local {
	return &Local{fs: afero.NewMemMapFs(), name: "memory"}
}

// NewAfero wraps an arbitrary afero.Fs, for example an afero.NewReadOnlyFs.
func NewAfero(fsys afero.Fs) *Local {
	return &Local{fs: fsys, name: fsys.Name()}
}

// Fs exposes the underlying afero.Fs.
func (l *Local) Fs() afero.Fs {
	return l.fs
}

func (l *Local) Stat(name string) (fs.FileInfo, error) {
	return l.fs.Stat(name)
}

func (l *Local) Open(name string) (File, error) {
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (l *Local) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	f, err := l.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (l *Local) Chmod(name string, mode fs.FileMode) error {
	return l.fs.Chmod(name, mode)
}

func (l *Local) String() string {
	return l.name
}
