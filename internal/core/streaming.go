package core

// streaming.go provides readers that clean up delimited text exports before
// they reach encoding/csv:
//
//   - BOMSkippingReader: Removes the UTF-8 BOM (0xEF 0xBB 0xBF) that Excel
//     writes at the start of "CSV UTF-8" exports
//   - UTF8Sanitizer: Replaces invalid UTF-8 bytes with '?'
//   - CountingReader: Tracks bytes read for load logging
//
// Use WrapForLoading to apply all transforms in the correct order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{r: bufio.NewReader(r)}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			b.r.Discard(len(utf8BOM))
		}
	}
	return b.r.Read(p)
}

// UTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes with '?'.
// Multi-byte sequences split across reads are carried to the next call.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
	out     []byte
	err     error
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill(len(p))
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads one chunk from the underlying reader and sanitizes it into out.
func (s *UTF8Sanitizer) fill(size int) {
	if size < utf8.UTFMax {
		size = utf8.UTFMax
	}
	buf := make([]byte, len(s.pending), len(s.pending)+size)
	copy(buf, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(buf[len(buf):cap(buf)])
	buf = buf[:len(buf)+n]
	s.err = err
	atEOF := err != nil

	out := make([]byte, 0, len(buf))
	for i := 0; i < len(buf); {
		if buf[i] < utf8.RuneSelf {
			out = append(out, buf[i])
			i++
			continue
		}
		if !atEOF && !utf8.FullRune(buf[i:]) {
			s.pending = append(s.pending, buf[i:]...)
			break
		}
		r, width := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && width == 1 {
			out = append(out, '?')
		} else {
			out = append(out, buf[i:i+width]...)
		}
		i += width
	}
	s.out = out
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	r         io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// WrapForLoading wraps a reader with BOM skipping, UTF-8 sanitization and
// byte counting.
//
// The order matters:
// 1. BOM must be stripped first (before any processing)
// 2. UTF-8 sanitization happens next
// 3. Counting wraps everything
func WrapForLoading(r io.Reader) *CountingReader {
	return NewCountingReader(NewUTF8Sanitizer(NewBOMSkippingReader(r)))
}
