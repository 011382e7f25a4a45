package chunktext

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

// EndOfText is returned by Peek and ReadChar once the cursor reaches the end.
const EndOfText = -1

// Text is an immutable, indexable sequence of UTF-16 code units.
type Text interface {
	// Len returns the number of code units.
	Len() int
	// CopyTo copies units starting at sourceIndex into dst and returns how many
	// were copied: min(len(dst), Len()-sourceIndex).
	CopyTo(sourceIndex int, dst []uint16) int
}

// CharReader is a forward-only cursor over a decoded Text.
// Position starts at 0 and never decreases.
type CharReader interface {
	Text
	io.Closer

	Position() int
	// Peek returns the unit at Position without advancing, or EndOfText.
	Peek() int
	// ReadChar returns the unit at Position and advances, or EndOfText.
	ReadChar() int
	// ReadRange copies up to count units into buf[index:] and advances by the
	// number copied, which it returns. It never reads past Len.
	ReadRange(buf []uint16, index, count int) int
	// Read is ReadRange over all of p, returning io.EOF when nothing is left.
	Read(p []uint16) (int, error)
}

// Chars is an in-memory Text.
type Chars []uint16

var _ Text = Chars(nil)

// FromString encodes s as UTF-16. Invalid UTF-8 becomes U+FFFD.
func FromString(s string) Chars {
	return utf16.Encode([]rune(s))
}

func (c Chars) Len() int { return len(c) }

func (c Chars) CopyTo(sourceIndex int, dst []uint16) int {
	if sourceIndex < 0 || sourceIndex >= len(c) {
		return 0
	}
	return copy(dst, c[sourceIndex:])
}

// String decodes the units back to UTF-8.
func (c Chars) String() string {
	return string(utf16.Decode(c))
}

// CharsReader is a CharReader over Chars; the inline form decodes into one.
type CharsReader struct {
	chars  Chars
	pos    int
	closed bool
}

var _ CharReader = (*CharsReader)(nil)

func NewCharsReader(c Chars) *CharsReader {
	return &CharsReader{chars: c}
}

func (r *CharsReader) Len() int      { return len(r.chars) }
func (r *CharsReader) Position() int { return r.pos }

// Chars returns the decoded units without copying.
func (r *CharsReader) Chars() Chars { return r.chars }

func (r *CharsReader) CopyTo(sourceIndex int, dst []uint16) int {
	return r.chars.CopyTo(sourceIndex, dst)
}

func (r *CharsReader) Peek() int {
	if r.closed || r.pos >= len(r.chars) {
		return EndOfText
	}
	return int(r.chars[r.pos])
}

func (r *CharsReader) ReadChar() int {
	c := r.Peek()
	if c != EndOfText {
		r.pos++
	}
	return c
}

func (r *CharsReader) ReadRange(buf []uint16, index, count int) int {
	if r.closed || index < 0 || index > len(buf) {
		return 0
	}
	n := min(count, len(r.chars)-r.pos, len(buf)-index)
	if n <= 0 {
		return 0
	}
	copy(buf[index:index+n], r.chars[r.pos:])
	r.pos += n
	return n
}

func (r *CharsReader) Read(p []uint16) (int, error) {
	return readVia(r, r.closed, p)
}

// Close drops the reference to the units. It is safe to call more than once.
func (r *CharsReader) Close() error {
	r.closed = true
	r.chars = nil
	r.pos = 0
	return nil
}

// readVia gives ReadRange the io.Reader error contract.
func readVia(r CharReader, closed bool, p []uint16) (int, error) {
	if closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	n := r.ReadRange(p, 0, len(p))
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadAll drains r from its current position into a new Chars.
func ReadAll(r CharReader) (Chars, error) {
	out := make(Chars, r.Len()-r.Position())
	n := 0
	for n < len(out) {
		m, err := r.Read(out[n:])
		n += m
		if err == io.EOF {
			break
		}
		if err != nil {
			return out[:n], err
		}
	}
	return out[:n], nil
}

// WriteUTF8 streams the rest of r to w as UTF-8. A surrogate pair split across
// two reads is held back until its second half arrives.
func WriteUTF8(w io.Writer, r CharReader) (int64, error) {
	units := make([]uint16, DefaultChunkSize+1)
	out := make([]byte, 0, 3*len(units))
	var written int64
	carry := 0

	for {
		n, err := r.Read(units[carry:])
		if err != nil && err != io.EOF {
			return written, err
		}
		n += carry
		if n == 0 {
			return written, nil
		}
		carry = 0
		end := n
		if err == nil && utf16.IsSurrogate(rune(units[n-1])) && units[n-1] < 0xDC00 {
			end = n - 1
		}

		out = out[:0]
		for _, cp := range utf16.Decode(units[:end]) {
			out = utf8.AppendRune(out, cp)
		}
		m, werr := w.Write(out)
		written += int64(m)
		if werr != nil {
			return written, werr
		}

		if end < n {
			units[0] = units[n-1]
			carry = 1
		}
		if err == io.EOF {
			return written, nil
		}
	}
}
