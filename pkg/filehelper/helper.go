// Package filehelper reads and writes text files line by line.
//
// A Helper holds one file reference and one persistent input stream for
// sequential reads (ReadN, ReadLine). Writes open, flush and close their own
// output stream every call. The bulk helpers buffer a whole file into a list
// of lines or an insertion-ordered key/value mapping, and write such lists
// and mappings back out.
//
// Lines are read with any of "\n", "\r\n" or "\r" as terminator, but always
// written with "\r\n". Consumers of existing files depend on that asymmetry.
//
// A Helper is not safe for concurrent use.
package filehelper

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/ImGajeed76/filehelper/pkg/filehelper/backend"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/helpers"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/ordered"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/path"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/textenc"
	"golang.org/x/text/encoding"
)

// Helper is a stateful handle over a single text file.
type Helper struct {
	path    *path.Path
	backend backend.Backend
	enc     encoding.Encoding
	opts    Options

	// persistent input stream; nil after Close
	file   backend.File
	reader *bufio.Reader
	// unpins the pooled SFTP client held for the stream
	release func()
}

// Open parses raw (a local path or an sftp:// URL), creates the file if it
// does not exist and opens an input stream on it.
func Open(raw string, opts ...Options) (*Helper, error) {
	p, err := path.Parse(raw)
	if err != nil {
		return nil, &path.PathError{Op: "open", Path: raw, Err: errors.Unwrap(err)}
	}
	return OpenPath(p, opts...)
}

// OpenPath is Open for an already parsed reference.
func OpenPath(p *path.Path, opts ...Options) (*Helper, error) {
	if err := p.Validate(); err != nil {
		return nil, &path.PathError{Op: "open", Path: pathString(p), Err: errors.Unwrap(err)}
	}

	o := mergeOptions(opts)
	enc, err := textenc.Lookup(o.Encoding)
	if err != nil {
		return nil, invalidArgument("open", p, err.Error())
	}

	h := &Helper{enc: enc, opts: o}
	in, err := h.openInput("open", p)
	if err != nil {
		return nil, err
	}

	h.path = p
	h.attach(in)
	return h, nil
}

// input is a freshly opened stream together with the backend it lives on.
type input struct {
	backend backend.Backend
	file    backend.File
	reader  *bufio.Reader
	release func()
}

func (h *Helper) attach(in input) {
	h.backend, h.file, h.reader, h.release = in.backend, in.file, in.reader, in.release
}

// openInput resolves the backend of p, ensures the file exists and opens a
// buffered, decoding reader on it.
func (h *Helper) openInput(op string, p *path.Path) (input, error) {
	b, release, err := h.resolveBackend(p)
	if err != nil {
		return input{}, ioError(op, p, err)
	}
	if _, err := backend.EnsureFile(b, p.FilePath(), h.opts.Permissions); err != nil {
		release()
		return input{}, ioError(op, p, missingDirectory(b, p, err))
	}

	f, r, err := h.newReader(b, p)
	if err != nil {
		release()
		return input{}, ioError(op, p, err)
	}
	return input{backend: b, file: f, reader: r, release: release}, nil
}

func (h *Helper) newReader(b backend.Backend, p *path.Path) (backend.File, *bufio.Reader, error) {
	var size int64
	if info, err := b.Stat(p.FilePath()); err == nil {
		size = info.Size()
	}

	f, err := b.Open(p.FilePath())
	if err != nil {
		return nil, nil, err
	}

	bufferSize := helpers.GetOptimalBufferSize(size, h.opts.BufferSize)
	return f, bufio.NewReaderSize(textenc.NewReader(f, h.enc), bufferSize), nil
}

// Read reads the next DefaultReadLength characters. See ReadN.
func (h *Helper) Read() ([]rune, error) {
	return h.ReadN(DefaultReadLength)
}

// ReadN reads up to length characters from the input stream. The result is
// shorter than length when the end of the file is reached; a read at the end
// of the file returns an empty slice and io.EOF.
func (h *Helper) ReadN(length int) ([]rune, error) {
	if length <= 0 {
		return nil, invalidArgument("read", h.path, "length must be positive")
	}
	if h.reader == nil {
		return nil, closedError("read", h.path)
	}

	runes, err := readRunes(h.reader, length)
	if err != nil && err != io.EOF {
		return runes, ioError("read", h.path, err)
	}
	return runes, err
}

// ReadLine returns the next line of the input stream without its terminator.
// ok is false at the end of the file, on this and every later call.
func (h *Helper) ReadLine() (line string, ok bool, err error) {
	if h.reader == nil {
		return "", false, closedError("readline", h.path)
	}

	line, ok, err = readLine(h.reader)
	if err != nil {
		return "", false, ioError("readline", h.path, err)
	}
	return line, ok, nil
}

// Write replaces (appendMode false) or extends the file with value and
// returns value.
func (h *Helper) Write(value string, appendMode bool) (string, error) {
	data, err := h.encode("write", value)
	if err != nil {
		return "", err
	}
	if err := h.writeChunks("write", appendMode, [][]byte{data}, false); err != nil {
		return "", err
	}
	return value, nil
}

// WriteLine writes value followed by LineTerminator and returns value.
func (h *Helper) WriteLine(value string, appendMode bool) (string, error) {
	data, err := h.encode("writeline", value+LineTerminator)
	if err != nil {
		return "", err
	}
	if err := h.writeChunks("writeline", appendMode, [][]byte{data}, false); err != nil {
		return "", err
	}
	return value, nil
}

// ChangeFile points the helper at raw. See ChangePath.
func (h *Helper) ChangeFile(raw string) error {
	p, err := path.Parse(raw)
	if err != nil {
		return &path.PathError{Op: "changefile", Path: raw, Err: errors.Unwrap(err)}
	}
	return h.ChangePath(p)
}

// ChangePath points the helper at p, creating the file if needed. The switch
// is all-or-nothing: if the new file cannot be prepared or the old stream
// cannot be closed, the helper keeps its previous file and stream.
func (h *Helper) ChangePath(p *path.Path) error {
	if err := p.Validate(); err != nil {
		return &path.PathError{Op: "changefile", Path: pathString(p), Err: errors.Unwrap(err)}
	}

	in, err := h.openInput("changefile", p)
	if err != nil {
		return err
	}

	if h.file != nil {
		if err := h.file.Close(); err != nil {
			if cerr := in.file.Close(); cerr != nil {
				h.opts.Logger.Printf("changefile: releasing %s: %v", p, cerr)
			}
			in.release()
			return ioError("changefile", h.path, err)
		}
	}
	h.unpin()

	h.path = p
	h.attach(in)
	return nil
}

// ReadAllLines returns every line of the file in order. It reads through its
// own stream and leaves the persistent one untouched. An empty file gives an
// empty slice.
func (h *Helper) ReadAllLines() ([]string, error) {
	lines := []string{}
	err := h.eachLine("readlines", func(_ int, line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ReadAllAsMap splits every non-empty line on the first occurrence of
// delimiter. Later duplicates of a key overwrite earlier values; keys keep
// the position of their first occurrence.
func (h *Helper) ReadAllAsMap(delimiter string) (*ordered.Map[string, string], error) {
	if delimiter == "" {
		return nil, invalidArgument("readmap", h.path, "empty delimiter")
	}

	m := ordered.New[string, string](0)
	err := h.eachLine("readmap", func(n int, line string) error {
		if line == "" {
			return nil
		}
		key, value, ok := strings.Cut(line, delimiter)
		if !ok {
			return formatError("readmap", h.path, n, delimiter)
		}
		m.Set(key, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ReadAllAsIDMap is ReadAllAsMap with keys parsed as base-10 int64.
func (h *Helper) ReadAllAsIDMap(delimiter string) (*ordered.Map[int64, string], error) {
	if delimiter == "" {
		return nil, invalidArgument("readidmap", h.path, "empty delimiter")
	}

	m := ordered.New[int64, string](0)
	err := h.eachLine("readidmap", func(n int, line string) error {
		if line == "" {
			return nil
		}
		key, value, ok := strings.Cut(line, delimiter)
		if !ok {
			return formatError("readidmap", h.path, n, delimiter)
		}
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return parseError("readidmap", h.path, n, err)
		}
		m.Set(id, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// WriteLines writes every line followed by LineTerminator. With appendMode
// false the file is truncated first. Empty input returns ErrEmptyInput and
// does not touch the file.
func (h *Helper) WriteLines(lines []string, appendMode bool) error {
	if len(lines) == 0 {
		return &path.PathError{Op: "writelines", Path: pathString(h.path), Err: ErrEmptyInput}
	}

	chunks := make([][]byte, 0, len(lines))
	for _, line := range lines {
		data, err := h.encode("writelines", line+LineTerminator)
		if err != nil {
			return err
		}
		chunks = append(chunks, data)
	}
	return h.writeChunks("writelines", appendMode, chunks, true)
}

// WriteMap writes one key+delimiter+value line per entry, in map order.
// Empty input returns ErrEmptyInput and does not touch the file.
func (h *Helper) WriteMap(m *ordered.Map[string, string], delimiter string, appendMode bool) error {
	if m.Len() == 0 {
		return &path.PathError{Op: "writemap", Path: pathString(h.path), Err: ErrEmptyInput}
	}
	if delimiter == "" {
		return invalidArgument("writemap", h.path, "empty delimiter")
	}

	chunks := make([][]byte, 0, m.Len())
	for key, value := range m.All() {
		data, err := h.encode("writemap", key+delimiter+value+LineTerminator)
		if err != nil {
			return err
		}
		chunks = append(chunks, data)
	}
	return h.writeChunks("writemap", appendMode, chunks, true)
}

// WriteIDMap is WriteMap for id mappings, the counterpart of ReadAllAsIDMap.
func (h *Helper) WriteIDMap(m *ordered.Map[int64, string], delimiter string, appendMode bool) error {
	if m.Len() == 0 {
		return &path.PathError{Op: "writeidmap", Path: pathString(h.path), Err: ErrEmptyInput}
	}
	if delimiter == "" {
		return invalidArgument("writeidmap", h.path, "empty delimiter")
	}

	chunks := make([][]byte, 0, m.Len())
	for id, value := range m.All() {
		data, err := h.encode("writeidmap", strconv.FormatInt(id, 10)+delimiter+value+LineTerminator)
		if err != nil {
			return err
		}
		chunks = append(chunks, data)
	}
	return h.writeChunks("writeidmap", appendMode, chunks, true)
}

// Close closes the persistent input stream. Closing a closed helper is a no-op.
func (h *Helper) Close() error {
	if h.file == nil {
		return nil
	}

	err := h.file.Close()
	h.file, h.reader = nil, nil
	h.unpin()
	if err != nil {
		return ioError("close", h.path, err)
	}
	return nil
}

// Path returns the file the helper currently refers to.
//
// Deprecated: the reference is internal state; keep the value passed to
// Open or ChangeFile instead.
func (h *Helper) Path() *path.Path {
	return h.path
}

func (h *Helper) unpin() {
	if h.release != nil {
		h.release()
		h.release = nil
	}
}

func (h *Helper) encode(op, s string) ([]byte, error) {
	data, err := textenc.Encode(s, h.enc)
	if err != nil {
		return nil, invalidArgument(op, h.path, err.Error())
	}
	return data, nil
}

// writeChunks opens one output stream, writes every chunk in order, flushes
// and closes it. The stream is closed on every path; flush and close failures
// are joined to the write failure.
func (h *Helper) writeChunks(op string, appendMode bool, chunks [][]byte, progress bool) error {
	b, release, err := h.currentBackend()
	if err != nil {
		return ioError(op, h.path, err)
	}
	defer release()

	f, err := b.OpenFile(h.path.FilePath(), backend.WriteFlags(appendMode), h.opts.Permissions)
	if err != nil {
		return ioError(op, h.path, err)
	}

	var size int64
	for _, c := range chunks {
		size += int64(len(c))
	}
	w := bufio.NewWriterSize(f, helpers.GetOptimalBufferSize(size, h.opts.BufferSize))

	var writeErr error
	total := int64(len(chunks))
	for i, c := range chunks {
		if _, writeErr = w.Write(c); writeErr != nil {
			break
		}
		if progress && h.opts.Progress != nil {
			h.opts.Progress(total, int64(i+1))
		}
	}

	flushErr := w.Flush()
	if errors.Is(flushErr, writeErr) {
		flushErr = nil
	}
	closeErr := f.Close()

	if err := errors.Join(writeErr, flushErr, closeErr); err != nil {
		return ioError(op, h.path, err)
	}
	return nil
}

// eachLine reads the file through a fresh stream and calls fn with the
// 1-based line number of every line. Errors from fn are returned unchanged.
func (h *Helper) eachLine(op string, fn func(n int, line string) error) error {
	b, release, err := h.currentBackend()
	if err != nil {
		return ioError(op, h.path, err)
	}
	defer release()

	f, r, err := h.newReader(b, h.path)
	if err != nil {
		return ioError(op, h.path, err)
	}

	var fnErr, readErr error
	for n := 1; ; n++ {
		line, ok, err := readLine(r)
		if err != nil {
			readErr = err
			break
		}
		if !ok {
			break
		}
		if fnErr = fn(n, line); fnErr != nil {
			break
		}
	}

	closeErr := f.Close()
	if fnErr != nil {
		return fnErr
	}
	if err := errors.Join(readErr, closeErr); err != nil {
		return ioError(op, h.path, err)
	}
	return nil
}
