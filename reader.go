package chunktext

import (
	"bufio"
	"bytes"
	"io"
)

type ReaderPro interface {
	io.Reader
	io.WriterTo
	io.Closer
	io.ByteReader
	Size() int
}

// Reader provides a buffered reader that simplifies reading binary data.
// It wraps bufio.Reader and tracks the first error. Subsequent reads become no-ops.
type Reader struct {
	r     ReaderPro
	count int64 // total bytes read
	err   error // first error encountered.
}

var _ ReaderPro = (*Reader)(nil)

// NewReaderSize creates a new Reader with a specified buffer size.
//
// A plain io.Reader gets wrapped in a bufio.Reader, which may read ahead of
// what has been decoded. Pass a *Reader, *BytesReader, *bytes.Reader or
// *bytes.Buffer when the stream continues past the decoded value.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying buffer if it's already a compatible Reader.
	case *Reader:
		if reader.r.Size() >= size {
			return &Reader{r: reader.r}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: &bufioReaderAdapter{Reader: reader}}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesReader:
		return &Reader{r: reader}, nil
	case *bytes.Reader:
		return &Reader{r: &bytesReaderAdapter{reader}}, nil
	case *bytes.Buffer:
		return &Reader{r: &bytesBufferReaderAdapter{Buffer: reader}}, nil

	// an adapter handed down by ReadTo keeps the outer buffer.
	case ReaderPro:
		return &Reader{r: reader}, nil
	}

	if size <= 0 {
		size = BUFFER_SIZE
	}
	return &Reader{r: &bufioReaderAdapter{Reader: bufio.NewReaderSize(r, size)}}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, 0)
}

// Close closes the underlying reader if it implements io.Closer.
func (r *Reader) Close() error {
	return r.r.Close()
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	if n < 0 || n > len(p) {
		n, err = 0, ErrInvalidRead
	}
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// WriteTo implements io.WriterTo for efficient copying.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if w == nil {
		r.setError(ErrWriteToNil)
		return 0, r.err
	}

	n, err := r.r.WriteTo(w)
	r.count += n
	r.setError(err)
	return n, r.err
}

func (r *Reader) Size() int    { return r.r.Size() }
func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// ReadTo decodes a nested codec from this reader.
func (r *Reader) ReadTo(w io.ReaderFrom) {
	if r.err != nil {
		return
	}
	if w == nil {
		r.setError(ErrReadToNil)
		return
	}
	n, err := w.ReadFrom(r.r)
	r.count += n
	r.setError(err)
}

// readFullTo fills dest or records the failure.
func (r *Reader) readFullTo(dest []byte) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r, dest); err != nil {
		if err == io.EOF {
			// a partial value is different from a clean end-of-stream.
			r.err = io.ErrUnexpectedEOF
		} else {
			r.err = err
		}
		return false
	}
	return true
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = err
	}
	return b, err
}

func (r *Reader) ReadInt32(dest *int32) {
	var buf [4]byte
	if r.readFullTo(buf[:]) {
		*dest = int32(Order.Uint32(buf[:]))
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	var buf [8]byte
	if r.readFullTo(buf[:]) {
		*dest = Order.Uint64(buf[:])
	}
}

// ReadChars reads one length-prefixed char block into dst and returns its
// length. A negative length or one larger than dst is a corrupt stream.
func (r *Reader) ReadChars(dst []uint16) int {
	var count int32
	r.ReadInt32(&count)
	if r.err != nil {
		return 0
	}
	if count < 0 {
		r.setError(corrupt(ErrNegativeLength, "char block length %d", count))
		return 0
	}
	if int(count) > len(dst) {
		r.setError(corrupt(ErrChunkOverflow, "block of %d chars into %d", count, len(dst)))
		return 0
	}
	if !r.readUnits(dst[:count]) {
		return 0
	}
	return int(count)
}

// readUnits decodes code units through a pooled scratch buffer.
func (r *Reader) readUnits(dst []uint16) bool {
	if len(dst) == 0 {
		return r.err == nil
	}
	bufPtr := scratchPool.Get().(*[]byte)
	defer scratchPool.Put(bufPtr)
	buf := *bufPtr

	for len(dst) > 0 {
		n := min(len(dst), len(buf)/2)
		if !r.readFullTo(buf[:2*n]) {
			return false
		}
		for i := range dst[:n] {
			dst[i] = Order.Uint16(buf[2*i:])
		}
		dst = dst[n:]
	}
	return true
}
