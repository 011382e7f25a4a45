package chunktext

import (
	"context"
	"io"
	"testing"
)

func benchmarkWrite(b *testing.B, n int) {
	text := makeText(n)
	codec := DefaultCodec()
	b.SetBytes(int64(codec.EncodedSize(n)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.WriteTo(context.Background(), text, io.Discard)
	}
}

func BenchmarkWriteInline(b *testing.B)  { benchmarkWrite(b, 1024) }
func BenchmarkWriteChunked(b *testing.B) { benchmarkWrite(b, 1<<20) }

func benchmarkRead(b *testing.B, n int) {
	codec := DefaultCodec()
	data := encode(b, codec, makeText(n))
	r := NewBytesReader(data)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset()
		text, err := codec.ReadFrom(context.Background(), r)
		if err != nil {
			b.Fatal(err)
		}
		text.Close()
	}
}

func BenchmarkReadInline(b *testing.B)  { benchmarkRead(b, 1024) }
func BenchmarkReadChunked(b *testing.B) { benchmarkRead(b, 1<<20) }

func BenchmarkChunkPool(b *testing.B) {
	p := NewChunkPool(DefaultChunkSize, DefaultPoolCapacity)
	p.Allocate(64)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			p.Put(p.Get())
		}
	})
}

func BenchmarkFixedHeaderMarshalTo(b *testing.B) {
	c := &chunkedHeaderCodec{Payload: chunkedHeader{ChunkSize: DefaultChunkSize, ChunkCount: 9}}
	buf := make([]byte, c.Size())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.MarshalTo(buf)
	}
}
