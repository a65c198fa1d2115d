package backend

import (
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/ImGajeed76/filehelper/internal/sftptest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAll(t *testing.T, b Backend, name, content string, append bool) {
	t.Helper()
	f, err := b.OpenFile(name, WriteFlags(append), 0644)
	require.NoError(t, err)
	_, err = io.WriteString(f, content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func readAll(t *testing.T, b Backend, name string) string {
	t.Helper()
	f, err := b.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func backends(t *testing.T) map[string]struct {
	b   Backend
	dir string
} {
	return map[string]struct {
		b   Backend
		dir string
	}{
		"os":     {b: NewLocal(), dir: t.TempDir()},
		"memory": {b: NewMemory(), dir: "/data"},
		"sftp":   {b: NewSFTP(sftptest.NewClient(t)), dir: "/"},
	}
}

func TestEnsureFile(t *testing.T) {
	for name, tc := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if m, ok := tc.b.(*Local); ok && name == "memory" {
				require.NoError(t, m.Fs().MkdirAll(tc.dir, 0755))
			}
			target := filepath.Join(tc.dir, "users.txt")

			created, err := EnsureFile(tc.b, target, 0644)
			require.NoError(t, err)
			assert.True(t, created)

			info, err := tc.b.Stat(target)
			require.NoError(t, err)
			assert.Zero(t, info.Size())

			writeAll(t, tc.b, target, "kept", false)

			created, err = EnsureFile(tc.b, target, 0644)
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, "kept", readAll(t, tc.b, target))
		})
	}
}

func TestTruncateThenAppend(t *testing.T) {
	for name, tc := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if m, ok := tc.b.(*Local); ok && name == "memory" {
				require.NoError(t, m.Fs().MkdirAll(tc.dir, 0755))
			}
			target := filepath.Join(tc.dir, "log.txt")

			writeAll(t, tc.b, target, "first\r\n", false)
			writeAll(t, tc.b, target, "second\r\n", true)
			assert.Equal(t, "first\r\nsecond\r\n", readAll(t, tc.b, target))

			writeAll(t, tc.b, target, "reset", false)
			assert.Equal(t, "reset", readAll(t, tc.b, target))
		})
	}
}

func TestEnsureFile_Directory(t *testing.T) {
	b := NewMemory()
	require.NoError(t, b.Fs().MkdirAll("/srv/dir", 0755))

	created, err := EnsureFile(b, "/srv/dir", 0644)
	assert.False(t, created)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestEnsureFile_ReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/present.txt", []byte("x"), 0644))
	b := NewAfero(afero.NewReadOnlyFs(base))

	created, err := EnsureFile(b, "/present.txt", 0644)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = EnsureFile(b, "/missing.txt", 0644)
	require.Error(t, err)

	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "ReadOnlyFilter-ensure-create", pathErr.Op)
}

func TestWriteFlags(t *testing.T) {
	assert.NotEqual(t, WriteFlags(true), WriteFlags(false))
}
