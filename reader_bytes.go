package chunktext

import "io"

// BytesReader is an io.Reader that reads from a pre-allocated byte slice
// without copying it.
type BytesReader struct {
	B []byte // source slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Close is a no-op.
func (r *BytesReader) Close() error {
	return nil
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// WriteTo implements the [io.WriterTo] interface.
func (r *BytesReader) WriteTo(w io.Writer) (int64, error) {
	if r.N >= len(r.B) {
		return 0, nil
	}
	rest := r.B[r.N:]
	n, err := w.Write(rest)
	if n < 0 || n > len(rest) {
		return 0, ErrInvalidRead
	}
	r.N += n
	if err == nil && n < len(rest) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Reset rewinds the reader so the slice can be read again.
func (r *BytesReader) Reset() { r.N = 0 }

// Len returns the number of bytes read.
func (r *BytesReader) Len() int { return r.N }

// Size returns the size of the underlying byte slice.
func (r *BytesReader) Size() int { return len(r.B) }

// Available returns the number of bytes left to read.
func (r *BytesReader) Available() int { return max(len(r.B)-r.N, 0) }

// Rest returns the unread part of the slice.
func (r *BytesReader) Rest() []byte {
	if r.N >= len(r.B) {
		return nil
	}
	return r.B[r.N:]
}
