package filehelper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ImGajeed76/filehelper/pkg/filehelper/backend"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/config"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/path"
	sftpmanager "github.com/ImGajeed76/filehelper/pkg/filehelper/sftp"
)

func noRelease() {}

// resolveBackend picks the file system that holds p. For SFTP references the
// pooled client is pinned until the returned release func is called.
func (h *Helper) resolveBackend(p *path.Path) (backend.Backend, func(), error) {
	if h.opts.Backend != nil {
		return h.opts.Backend, noRelease, nil
	}
	if !p.IsSftp() {
		return backend.NewLocal(), noRelease, nil
	}

	password := p.Password()
	if password == "" && h.opts.Credentials != nil {
		stored, err := h.opts.Credentials.Password(p.Key())
		switch {
		case err == nil:
			password = stored
		case errors.Is(err, config.ErrNotFound):
		default:
			return nil, nil, err
		}
	}

	manager := h.opts.Manager
	if manager == nil {
		manager = sftpmanager.GetGlobalManager()
	}

	lease, err := manager.Acquire(context.Background(), sftpmanager.ConnectionDetails{
		Hostname: p.Host(),
		Port:     p.PortNumber(),
		Username: p.Username(),
		Password: password,
	})
	if err != nil {
		return nil, nil, err
	}
	return backend.NewSFTP(lease.Client()), lease.Release, nil
}

// currentBackend returns the backend for one write or bulk read. While the
// input stream is open the helper's SFTP client is already pinned; after
// Close it is taken from the pool again for the duration of the call.
func (h *Helper) currentBackend() (backend.Backend, func(), error) {
	if h.file != nil || h.opts.Backend != nil || !h.path.IsSftp() {
		return h.backend, noRelease, nil
	}
	return h.resolveBackend(h.path)
}

// missingDirectory names the parent of p when a create failed because that
// directory does not exist.
func missingDirectory(b backend.Backend, p *path.Path, err error) error {
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	parent := p.Parent()
	if parent == nil {
		return err
	}
	if _, serr := b.Stat(parent.FilePath()); !errors.Is(serr, fs.ErrNotExist) {
		return err
	}
	return fmt.Errorf("directory %s does not exist: %w", parent, err)
}
