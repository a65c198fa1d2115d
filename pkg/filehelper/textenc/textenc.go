// Package textenc resolves the optional charset a Helper is configured with.
//
// Files are platform-default text (UTF-8) unless a caller names an IANA
// charset explicitly; nothing is ever sniffed or negotiated.
package textenc

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrUnrepresentable is returned when text cannot be encoded in the charset.
var ErrUnrepresentable = errors.New("content cannot be represented in specified encoding")

// Lookup returns the encoding registered under name. An empty name means
// pass-through.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		return encoding.Nop, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		enc = encoding.Nop
	}
	return enc, nil
}

// NewReader decodes r from enc into UTF-8.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil || enc == encoding.Nop {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// Encode converts s into enc and checks that it decodes back unchanged.
func Encode(s string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil || enc == encoding.Nop {
		return []byte(s), nil
	}

	encoded, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrepresentable, err)
	}

	decoded, err := enc.NewDecoder().Bytes(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrepresentable, err)
	}
	if string(decoded) != s {
		return nil, ErrUnrepresentable
	}
	return encoded, nil
}
