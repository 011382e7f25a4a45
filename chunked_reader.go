package chunktext

import "sync/atomic"

// ChunkedReader is a forward-only cursor over text held in pool arrays.
// It owns the arrays until Close, which returns each of them to the pool once.
//
// A ChunkedReader is not safe for concurrent reads; Close may race with nothing
// but another Close.
type ChunkedReader struct {
	pool      ChunkPooler
	chunkSize int
	chunks    [][]uint16
	length    int
	pos       int
	closed    atomic.Bool
}

var _ CharReader = (*ChunkedReader)(nil)

func newChunkedReader(pool ChunkPooler, chunkSize int, chunks [][]uint16, length int) *ChunkedReader {
	return &ChunkedReader{
		pool:      pool,
		chunkSize: chunkSize,
		chunks:    chunks,
		length:    length,
	}
}

func (r *ChunkedReader) Len() int        { return r.length }
func (r *ChunkedReader) Position() int   { return r.pos }
func (r *ChunkedReader) ChunkCount() int { return len(r.chunks) }

// CharAt returns the unit at pos without moving the cursor.
func (r *ChunkedReader) CharAt(pos int) uint16 {
	chunk, col := DivMod(pos, r.chunkSize)
	return r.chunks[chunk][col]
}

// CopyTo implements Text, so a decoded reader can be encoded again without
// materializing it. It does not move the cursor.
func (r *ChunkedReader) CopyTo(sourceIndex int, dst []uint16) int {
	if r.closed.Load() || sourceIndex < 0 || sourceIndex >= r.length {
		return 0
	}
	return r.copyAt(sourceIndex, dst[:min(len(dst), r.length-sourceIndex)])
}

// copyAt fills dst from pos, walking across chunk boundaries.
func (r *ChunkedReader) copyAt(pos int, dst []uint16) int {
	copied := 0
	for copied < len(dst) {
		chunk, col := DivMod(pos+copied, r.chunkSize)
		copied += copy(dst[copied:], r.chunks[chunk][col:])
	}
	return copied
}

func (r *ChunkedReader) Peek() int {
	if r.closed.Load() || r.pos >= r.length {
		return EndOfText
	}
	return int(r.CharAt(r.pos))
}

func (r *ChunkedReader) ReadChar() int {
	c := r.Peek()
	if c != EndOfText {
		r.pos++
	}
	return c
}

func (r *ChunkedReader) ReadRange(buf []uint16, index, count int) int {
	if r.closed.Load() || index < 0 || index > len(buf) {
		return 0
	}
	n := min(count, r.length-r.pos, len(buf)-index)
	if n <= 0 {
		return 0
	}
	n = r.copyAt(r.pos, buf[index:index+n])
	r.pos += n
	return n
}

func (r *ChunkedReader) Read(p []uint16) (int, error) {
	return readVia(r, r.closed.Load(), p)
}

// Close returns the chunk arrays to the pool. Later calls do nothing, and
// reads after Close behave as end of text.
func (r *ChunkedReader) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	for i, chunk := range r.chunks {
		r.pool.Put(chunk)
		r.chunks[i] = nil
	}
	r.chunks = nil
	return nil
}
