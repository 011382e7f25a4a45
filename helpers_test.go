package chunktext

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/oy3o/chunktext/internal/testutils"
	"github.com/stretchr/testify/require"
)

func bufioWriterOf(size int) *bufio.Writer {
	return bufio.NewWriterSize(io.Discard, size)
}

// makeText returns n deterministic units cycling through a-z.
func makeText(n int) Chars {
	c := make(Chars, n)
	for i := range c {
		c[i] = uint16('a' + i%26)
	}
	return c
}

// newTestCodec builds a codec over a mock pool of opts.ChunkSize.
func newTestCodec(t testing.TB, opts Options) (*TextCodec, *testutils.MockChunkPool) {
	t.Helper()
	pool := testutils.NewMockChunkPool(opts.ChunkSize)
	c, err := NewTextCodec(pool, opts)
	require.NoError(t, err)
	return c, pool
}

func encode(t testing.TB, c *TextCodec, text Text) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := c.WriteTo(context.Background(), text, &buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)
	return buf.Bytes()
}

func decode(t testing.TB, c *TextCodec, data []byte) CharReader {
	t.Helper()
	r, err := c.ReadFrom(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	return r
}

// requirePoolBalanced fails when a mock pool has arrays out or saw a bad Put.
func requirePoolBalanced(t testing.TB, pool *testutils.MockChunkPool) {
	t.Helper()
	require.Zero(t, pool.ChunksInUse(), "arrays still checked out")
	require.Empty(t, pool.Faults())
}

// streamOf builds a raw stream with the writer primitives.
func streamOf(t testing.TB, build func(w *Writer)) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	build(w)
	_, err = w.Result()
	require.NoError(t, err)
	return buf.Bytes()
}

func writeHeader(w *Writer, chunkSize, chunkCount int32) {
	w.WriteFrom(&chunkedHeaderCodec{Payload: chunkedHeader{ChunkSize: chunkSize, ChunkCount: chunkCount}})
}
