// Package stream decodes a chunked UTF-8 byte stream into text pieces without
// corrupting characters whose bytes straddle chunk boundaries.
package stream

import (
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder is a stateful UTF-8 decoder. Incomplete trailing sequences are held
// back until the next call; invalid bytes are replaced with U+FFFD.
type Decoder struct {
	t       transform.Transformer
	pending []byte
}

// NewDecoder returns a decoder with no buffered input
func NewDecoder() *Decoder {
	return &Decoder{t: unicode.UTF8.NewDecoder()}
}

// Decode consumes chunk and returns the text that is complete so far.
// Pass final=true on the last call to flush whatever is still buffered.
func (d *Decoder) Decode(chunk []byte, final bool) (string, error) {
	src := append(d.pending, chunk...)
	d.pending = nil

	// U+FFFD takes three bytes, so each source byte expands to at most three
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	var out []byte
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, final)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]

		switch {
		case err == nil:
			if final {
				d.t.Reset()
			}
			return string(out), nil
		case errors.Is(err, transform.ErrShortSrc):
			d.pending = append([]byte(nil), src...)
			return string(out), nil
		case errors.Is(err, transform.ErrShortDst):
			continue
		default:
			return string(out), err
		}
	}
}

// Buffered returns the number of bytes held back from the previous call
func (d *Decoder) Buffered() int {
	return len(d.pending)
}

// Copy reads r until EOF and hands every non-empty decoded piece to fn, in
// arrival order. It returns the first read or decode error other than io.EOF.
func Copy(r io.Reader, fn func(string)) error {
	const readSize = 4096

	dec := NewDecoder()
	buf := make([]byte, readSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			text, err := dec.Decode(buf[:n], false)
			if err != nil {
				return err
			}
			if text != "" {
				fn(text)
			}
		}
		if readErr == io.EOF {
			text, err := dec.Decode(nil, true)
			if err != nil {
				return err
			}
			if text != "" {
				fn(text)
			}
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
