package backend

import (
	"io"
	"io/fs"
	"os"

	"github.com/pkg/sftp"
)

// SFTP is a Backend over a connected SFTP client. It does not own the
// client; closing it is up to whoever created it (normally the sftpmanager
// pool).
type SFTP struct {
	client *sftp.Client
}

func NewSFTP(client *sftp.Client) *SFTP {
	return &SFTP{client: client}
}

func (s *SFTP) Stat(name string) (fs.FileInfo, error) {
	return s.client.Stat(name)
}

func (s *SFTP) Open(name string) (File, error) {
	f, err := s.client.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenFile opens name with the given flags. perm is not sent to the server;
// EnsureFile applies it with Chmod after creating a file.
func (s *SFTP) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	f, err := s.client.OpenFile(name, flag)
	if err != nil {
		return nil, err
	}

	// Servers differ in how they treat SSH_FXF_APPEND, so position the
	// handle at the end ourselves.
	if flag&os.O_APPEND != 0 {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (s *SFTP) Chmod(name string, mode fs.FileMode) error {
	return s.client.Chmod(name, mode)
}

func (s *SFTP) String() string {
	return "sftp"
}

