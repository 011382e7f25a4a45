package chunktext

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
)

// Options fixes the layout a TextCodec reads and writes. Writer and reader of
// a stream must agree on all of it: the inline/chunked decision is made from
// InlineThreshold alone, with no tag byte on the wire.
type Options struct {
	ChunkSize       int // code units per chunk
	InlineThreshold int // texts shorter than this are written as one block
	PoolCapacity    int // arrays kept by a pool the codec creates itself
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:       DefaultChunkSize,
		InlineThreshold: DefaultInlineThreshold,
		PoolCapacity:    DefaultPoolCapacity,
	}
}

func (o Options) Validate() error {
	switch {
	case o.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size %d", ErrInvalidOptions, o.ChunkSize)
	case o.ChunkSize > math.MaxInt32:
		return fmt.Errorf("%w: chunk size %d exceeds int32", ErrInvalidOptions, o.ChunkSize)
	case o.InlineThreshold < 0:
		return fmt.Errorf("%w: inline threshold %d", ErrInvalidOptions, o.InlineThreshold)
	case o.PoolCapacity <= 0:
		return fmt.Errorf("%w: pool capacity %d", ErrInvalidOptions, o.PoolCapacity)
	}
	return nil
}

// TextCodec serializes Text either inline or as a sequence of fixed-size
// chunks, and decodes chunked streams into pool-backed readers.
type TextCodec struct {
	chunkSize       int
	inlineThreshold int
	pool            ChunkPooler
}

// NewTextCodec builds a codec over pool. A nil pool means SharedPool when the
// chunk size is the default, otherwise a private pool of opts.PoolCapacity arrays.
func NewTextCodec(pool ChunkPooler, opts Options) (*TextCodec, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if pool == nil {
		if opts.ChunkSize == DefaultChunkSize {
			pool = SharedPool()
		} else {
			pool = NewChunkPool(opts.ChunkSize, opts.PoolCapacity)
		}
	}
	if pool.ChunkSize() != opts.ChunkSize {
		return nil, fmt.Errorf("%w: pool %d, codec %d", ErrPoolChunkSize, pool.ChunkSize(), opts.ChunkSize)
	}
	return &TextCodec{
		chunkSize:       opts.ChunkSize,
		inlineThreshold: opts.InlineThreshold,
		pool:            pool,
	}, nil
}

var defaultCodec = sync.OnceValue(func() *TextCodec {
	c, err := NewTextCodec(SharedPool(), DefaultOptions())
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCodec returns the codec with DefaultOptions over SharedPool.
func DefaultCodec() *TextCodec { return defaultCodec() }

func (c *TextCodec) ChunkSize() int       { return c.chunkSize }
func (c *TextCodec) InlineThreshold() int { return c.inlineThreshold }
func (c *TextCodec) Pool() ChunkPooler    { return c.pool }

// IsInline reports whether a text of n units uses the inline form.
func (c *TextCodec) IsInline(n int) bool { return n < c.inlineThreshold }

// EncodedSize returns the exact number of bytes Write produces for a text of n units.
func (c *TextCodec) EncodedSize(n int) int {
	if c.IsInline(n) {
		return 4 + 4 + 2*n
	}
	return 4 + 8 + 4*ChunkCount(n, c.chunkSize) + 2*n
}

// Write encodes text into w. ctx is polled once per chunk; after cancellation
// the contents of w are undefined and must be discarded.
//
// Write does not flush w; see WriteTo.
func (c *TextCodec) Write(ctx context.Context, text Text, w *Writer) error {
	total := text.Len()
	if total > math.MaxInt32 {
		return fmt.Errorf("%w: %d units", ErrTextTooLarge, total)
	}
	w.WriteInt32(int32(total))

	if c.IsInline(total) {
		chars, ok := text.(Chars)
		if !ok {
			chars = make(Chars, total)
			if n := text.CopyTo(0, chars); n != total {
				return fmt.Errorf("%w: text produced %d of %d units", ErrLengthMismatch, n, total)
			}
		}
		w.WriteChars(chars, 0, total)
		return w.Err()
	}

	chunkCount := ChunkCount(total, c.chunkSize)
	w.WriteFrom(&chunkedHeaderCodec{Payload: chunkedHeader{
		ChunkSize:  int32(c.chunkSize),
		ChunkCount: int32(chunkCount),
	}})

	scratch := c.pool.Get()
	defer c.pool.Put(scratch)

	offset := 0
	for i := 0; i < chunkCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(c.chunkSize, total-offset)
		if copied := text.CopyTo(offset, scratch[:n]); copied != n {
			return fmt.Errorf("%w: chunk %d produced %d of %d units", ErrLengthMismatch, i, copied, n)
		}
		w.WriteChars(scratch, 0, n)
		if w.Err() != nil {
			return w.Err()
		}
		offset += n
	}

	if offset != total {
		return fmt.Errorf("%w: wrote %d of %d units", ErrLengthMismatch, offset, total)
	}
	return w.Err()
}

// WriteTo encodes text into dst and flushes.
func (c *TextCodec) WriteTo(ctx context.Context, text Text, dst io.Writer) (int64, error) {
	w, err := NewWriter(dst)
	if err != nil {
		return 0, err
	}
	if err := c.Write(ctx, text, w); err != nil {
		return w.Count(), err
	}
	return w.Result()
}

// Read decodes one text from r. The inline form comes back as a *CharsReader,
// the chunked form as a *ChunkedReader that owns pool arrays until Close.
//
// Errors wrapping ErrCorruptText mean the stream cannot be decoded at all; no
// partial result is returned and every array taken from the pool is given back.
func (c *TextCodec) Read(ctx context.Context, r *Reader) (CharReader, error) {
	var total int32
	r.ReadInt32(&total)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, corrupt(ErrNegativeLength, "total length %d", total)
	}

	if c.IsInline(int(total)) {
		chars := make(Chars, total)
		n := r.ReadChars(chars)
		if err := r.Err(); err != nil {
			return nil, err
		}
		if n != int(total) {
			return nil, corrupt(ErrLengthMismatch, "inline block has %d of %d units", n, total)
		}
		return NewCharsReader(chars), nil
	}

	chunkCount, err := c.readChunkedHeader(r, int(total))
	if err != nil {
		return nil, err
	}

	chunks := make([][]uint16, 0, chunkCount)
	release := func() {
		for _, chunk := range chunks {
			c.pool.Put(chunk)
		}
	}

	offset := 0
	for i := 0; i < chunkCount; i++ {
		if err := ctx.Err(); err != nil {
			release()
			return nil, err
		}
		chunk := c.pool.Get()
		chunks = append(chunks, chunk)

		n := r.ReadChars(chunk)
		if err := r.Err(); err != nil {
			release()
			return nil, err
		}
		if i < chunkCount-1 && n != c.chunkSize {
			release()
			return nil, corrupt(ErrChunkUnderfilled, "chunk %d of %d has %d units", i, chunkCount, n)
		}
		offset += n
	}

	if offset != int(total) {
		release()
		return nil, corrupt(ErrLengthMismatch, "chunks hold %d of %d units", offset, total)
	}
	return newChunkedReader(c.pool, c.chunkSize, chunks, int(total)), nil
}

// ReadFrom decodes one text from src. See NewReaderSize for read-ahead on plain streams.
func (c *TextCodec) ReadFrom(ctx context.Context, src io.Reader) (CharReader, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	return c.Read(ctx, r)
}

// readChunkedHeader validates the chunked header and returns the chunk count.
func (c *TextCodec) readChunkedHeader(r *Reader, total int) (int, error) {
	var hdr chunkedHeaderCodec
	r.ReadTo(&hdr)
	if err := r.Err(); err != nil {
		return 0, err
	}
	if int(hdr.Payload.ChunkSize) != c.chunkSize {
		return 0, corrupt(ErrChunkSizeMismatch, "stream %d, codec %d", hdr.Payload.ChunkSize, c.chunkSize)
	}
	count := int(hdr.Payload.ChunkCount)
	if count < 1 || count > ChunkCount(total, c.chunkSize) {
		return 0, corrupt(ErrChunkCount, "%d chunks for %d units", count, total)
	}
	return count, nil
}

// Header describes an encoded text without its payload.
type Header struct {
	TotalLength  int
	Inline       bool
	ChunkSize    int   // zero for the inline form
	ChunkCount   int   // zero for the inline form
	ChunkLengths []int // declared length of each chunk
}

// Inspect walks one encoded text in src, validating it like Read but skipping
// the payload instead of decoding it.
func (c *TextCodec) Inspect(src io.Reader) (Header, error) {
	r, err := NewReader(src)
	if err != nil {
		return Header{}, err
	}

	var total int32
	r.ReadInt32(&total)
	if err := r.Err(); err != nil {
		return Header{}, err
	}
	if total < 0 {
		return Header{}, corrupt(ErrNegativeLength, "total length %d", total)
	}
	hdr := Header{TotalLength: int(total), Inline: c.IsInline(int(total))}

	if hdr.Inline {
		n, err := skipChars(r, int(total))
		if err != nil {
			return hdr, err
		}
		if n != int(total) {
			return hdr, corrupt(ErrLengthMismatch, "inline block has %d of %d units", n, total)
		}
		return hdr, nil
	}

	hdr.ChunkCount, err = c.readChunkedHeader(r, int(total))
	if err != nil {
		return hdr, err
	}
	hdr.ChunkSize = c.chunkSize
	hdr.ChunkLengths = make([]int, 0, hdr.ChunkCount)

	offset := 0
	for i := 0; i < hdr.ChunkCount; i++ {
		n, err := skipChars(r, c.chunkSize)
		if err != nil {
			return hdr, err
		}
		if i < hdr.ChunkCount-1 && n != c.chunkSize {
			return hdr, corrupt(ErrChunkUnderfilled, "chunk %d of %d has %d units", i, hdr.ChunkCount, n)
		}
		hdr.ChunkLengths = append(hdr.ChunkLengths, n)
		offset += n
	}
	if offset != int(total) {
		return hdr, corrupt(ErrLengthMismatch, "chunks hold %d of %d units", offset, total)
	}
	return hdr, nil
}

// skipChars reads a char block header and discards its payload.
func skipChars(r *Reader, limit int) (int, error) {
	var count int32
	r.ReadInt32(&count)
	if err := r.Err(); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, corrupt(ErrNegativeLength, "char block length %d", count)
	}
	if int(count) > limit {
		return 0, corrupt(ErrChunkOverflow, "block of %d chars into %d", count, limit)
	}
	if _, err := Discard(r, 2*int64(count)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	return int(count), nil
}
