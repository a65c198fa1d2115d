package filehelper

import (
	"bufio"
	"bytes"
	"io"
)

// LineTerminator is appended by every line-oriented write, on every platform.
// Reads accept "\n", "\r\n" and a lone "\r".
const LineTerminator = "\r\n"

// readLine returns the next line from r without its terminator. ok is false
// once r is exhausted; a final line without a terminator is still returned.
func readLine(r *bufio.Reader) (line string, ok bool, err error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err != io.EOF {
				return "", false, err
			}
			if buf.Len() == 0 {
				return "", false, nil
			}
			return buf.String(), true, nil
		}

		switch b {
		case '\n':
			return buf.String(), true, nil
		case '\r':
			// Peek failures other than a following '\n' show up on the next call.
			if next, err := r.Peek(1); err == nil && next[0] == '\n' {
				r.ReadByte()
			}
			return buf.String(), true, nil
		}
		buf.WriteByte(b)
	}
}

// readRunes reads up to n runes from r. It returns io.EOF only when r was
// already exhausted.
func readRunes(r *bufio.Reader, n int) ([]rune, error) {
	buf := make([]rune, 0, min(n, 64*1024))
	for len(buf) < n {
		c, _, err := r.ReadRune()
		if err == io.EOF {
			if len(buf) == 0 {
				return buf, io.EOF
			}
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
		buf = append(buf, c)
	}
	return buf, nil
}
