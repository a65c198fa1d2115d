package path

import (
	"fmt"
	"net/url"
	posixpath "path"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// New parses raw and returns nil if it is not a usable reference.
// Use Parse to learn why a reference was rejected.
func New(raw string) *Path {
	p, err := Parse(raw)
	if err != nil {
		return nil
	}
	return p
}

// Parse turns a local path or an sftp://[user[:password]@]host[:port]/abs/path
// reference into a Path.
func Parse(raw string) (*Path, error) {
	if err := validateRaw(raw); err != nil {
		return nil, &PathError{Op: "parse", Path: raw, Err: err}
	}

	if !strings.HasPrefix(raw, sftpScheme) {
		return &Path{path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &PathError{Op: "parse", Path: raw, Err: fmt.Errorf("%w: %v", ErrInvalid, err)}
	}

	p := &Path{
		path:   u.Path,
		isSftp: true,
		host:   u.Hostname(),
		port:   u.Port(),
	}
	if p.port == "" {
		p.port = DefaultSftpPort
	}
	if u.User != nil {
		p.username = u.User.Username()
		p.password, _ = u.User.Password()
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports whether p can be used to open a file.
func (p *Path) Validate() error {
	if p == nil {
		return &PathError{Op: "validate", Err: invalid("nil path")}
	}
	if err := validateRaw(p.path); err != nil {
		return &PathError{Op: "validate", Path: p.path, Err: err}
	}
	if p.isSftp {
		if p.host == "" {
			return &PathError{Op: "validate", Path: p.path, Err: invalid("sftp path without host")}
		}
		if !strings.HasPrefix(p.path, "/") {
			return &PathError{Op: "validate", Path: p.path, Err: invalid("sftp path must be absolute")}
		}
	}
	return nil
}

func validateRaw(raw string) error {
	if raw == "" {
		return invalid("empty path")
	}
	if len(raw) > MaxPathLength {
		return invalid(fmt.Sprintf("path length exceeds maximum allowed (%d characters)", MaxPathLength))
	}
	for _, r := range raw {
		if r == 0 {
			return invalid("path contains null byte")
		}
		if unicode.IsControl(r) {
			return invalid(fmt.Sprintf("path contains invalid control character: %U", r))
		}
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, msg)
}

func (p *Path) IsSftp() bool {
	return p.isSftp
}

// FilePath is the path on the file system that holds the file: the local
// path, or the absolute remote path for SFTP references.
func (p *Path) FilePath() string {
	return p.path
}

// String returns a printable reference. Passwords are never included.
func (p *Path) String() string {
	if !p.isSftp {
		return p.path
	}
	return p.SftpPath()
}

func (p *Path) SftpPath() string {
	if !p.isSftp {
		return ""
	}

	var b strings.Builder
	b.WriteString(sftpScheme)
	if p.username != "" {
		b.WriteString(p.username)
		b.WriteString("@")
	}
	b.WriteString(p.Address())
	b.WriteString(p.path)
	return b.String()
}

func (p *Path) Host() string     { return p.host }
func (p *Path) Port() string     { return p.port }
func (p *Path) Username() string { return p.username }
func (p *Path) Password() string { return p.password }

// PortNumber returns the SFTP port as an int, or 0 for local paths.
func (p *Path) PortNumber() int {
	n, err := strconv.Atoi(p.port)
	if err != nil {
		return 0
	}
	return n
}

// Address returns host:port for SFTP references.
func (p *Path) Address() string {
	if !p.isSftp {
		return ""
	}
	return p.host + ":" + p.port
}

// Key identifies the remote account, as used by the credential store.
func (p *Path) Key() string {
	if !p.isSftp {
		return ""
	}
	return p.username + "@" + p.Address()
}

func (p *Path) Name() string {
	if p.isSftp {
		return posixpath.Base(p.path)
	}
	return filepath.Base(p.path)
}

// Parent returns the directory holding p, or nil when p has no parent.
func (p *Path) Parent() *Path {
	var dir string
	if p.isSftp {
		dir = posixpath.Dir(p.path)
	} else {
		dir = filepath.Dir(p.path)
	}
	if dir == p.path {
		return nil
	}

	parent := *p
	parent.path = dir
	return &parent
}
