package filehelper

import (
	"io/fs"
	"log"
	"os"

	"github.com/ImGajeed76/filehelper/pkg/filehelper/backend"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/config"
	sftpmanager "github.com/ImGajeed76/filehelper/pkg/filehelper/sftp"
)

const (
	// DefaultReadLength is the chunk size used by Read.
	DefaultReadLength = 1024
	// DefaultPermissions is applied to files created by Open and ChangeFile.
	DefaultPermissions fs.FileMode = 0644
)

// Options configures a Helper. Zero fields fall back to DefaultOptions.
type Options struct {
	// Backend pins every file of the helper to one file system. When nil,
	// local paths use the OS and sftp:// paths use a pooled SFTP client.
	Backend backend.Backend
	// Encoding is an IANA charset name. Empty means UTF-8 pass-through.
	Encoding string
	// Permissions for files the helper creates
	Permissions fs.FileMode
	// BufferSize overrides the computed bufio buffer size
	BufferSize int
	Logger     *log.Logger
	// Progress is called after each element of a bulk write.
	Progress func(total, written int64)
	// Credentials supplies SFTP passwords missing from the URL.
	Credentials *config.Credentials
	// Manager pools SFTP clients. Defaults to the global manager.
	Manager *sftpmanager.Manager
}

func DefaultOptions() Options {
	return Options{
		Permissions: DefaultPermissions,
		Logger:      log.New(os.Stderr, "filehelper: ", log.LstdFlags),
		Credentials: config.Default(),
	}
}

func mergeOptions(opts []Options) Options {
	defaults := DefaultOptions()
	if len(opts) == 0 {
		return defaults
	}

	o := opts[0]
	if o.Permissions == 0 {
		o.Permissions = defaults.Permissions
	}
	if o.Logger == nil {
		o.Logger = defaults.Logger
	}
	if o.Credentials == nil {
		o.Credentials = defaults.Credentials
	}
	return o
}
