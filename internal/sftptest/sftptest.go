// Package sftptest runs throwaway in-memory SFTP servers for tests.
package sftptest

import (
	"io"
	"testing"

	"github.com/pkg/sftp"
)

// NewClient starts an in-memory SFTP server and returns a client talking to
// it over a pair of pipes. Both are closed when the test ends.
func NewClient(t testing.TB) *sftp.Client {
	t.Helper()

	client, closeServer, err := Dial()
	if err != nil {
		t.Fatalf("failed to start in-memory sftp server: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
		closeServer()
	})
	return client
}

// Dial is NewClient without the testing.TB, for code that needs a dial
// function. The returned func stops the server.
func Dial() (*sftp.Client, func(), error) {
	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	server := sftp.NewRequestServer(struct {
		io.Reader
		io.WriteCloser
	}{serverReader, serverWriter}, sftp.InMemHandler())
	go server.Serve()

	client, err := sftp.NewClientPipe(clientReader, clientWriter)
	if err != nil {
		server.Close()
		return nil, nil, err
	}
	return client, func() { server.Close() }, nil
}
