package filehelper

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLineTerminators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single line without terminator", input: "abc", want: []string{"abc"}},
		{name: "crlf pairs are one terminator", input: "a\r\n\r\nb", want: []string{"a", "", "b"}},
		{name: "cr then lf on the next line", input: "a\r\rb\n", want: []string{"a", "", "b"}},
		{name: "trailing lone cr", input: "a\r", want: []string{"a"}},
		{name: "lf cr is two terminators", input: "a\n\rb", want: []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.input))

			var got []string
			for {
				line, ok, err := readLine(r)
				require.NoError(t, err)
				if !ok {
					break
				}
				got = append(got, line)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadLine_CRLFAcrossBufferBoundary(t *testing.T) {
	// One byte per Read forces the '\n' after '\r' into a separate fill.
	r := bufio.NewReaderSize(iotest.OneByteReader(strings.NewReader("a\r\nb\r\n")), 16)

	line, ok, err := readLine(r)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", line)

	line, ok, err = readLine(r)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", line)

	_, ok, err = readLine(r)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadLine_ReaderError(t *testing.T) {
	boom := errors.New("connection reset")
	r := bufio.NewReader(iotest.ErrReader(boom))

	_, ok, err := readLine(r)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestReadRunes(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("日本語abc"))

	got, err := readRunes(r, 2)
	require.NoError(t, err)
	assert.Equal(t, []rune("日本"), got)

	got, err = readRunes(r, 10)
	require.NoError(t, err)
	assert.Equal(t, []rune("語abc"), got)

	got, err = readRunes(r, 10)
	assert.Equal(t, io.EOF, err)
	assert.Empty(t, got)
}
