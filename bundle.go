package chunktext

import (
	"fmt"
	"io"
)

// Bundle is a count-prefixed sequence of documents sharing one codec:
//
//	int32 count | count × encoded text
type Bundle struct {
	Docs  []*Document
	codec *TextCodec
}

var _ Codec = (*Bundle)(nil)

// NewBundle wraps texts as documents of codec. A nil codec means DefaultCodec.
func NewBundle(codec *TextCodec, texts ...Text) *Bundle {
	b := &Bundle{codec: codec, Docs: make([]*Document, 0, len(texts))}
	for _, text := range texts {
		b.Docs = append(b.Docs, NewDocument(codec, text))
	}
	return b
}

func (b *Bundle) Len() int { return len(b.Docs) }

// Size calculates the total binary size of the bundle.
func (b *Bundle) Size() int {
	total := 4
	for _, doc := range b.Docs {
		total += doc.Size()
	}
	return total
}

// WriteTo writes the count and then every document through one Writer.
func (b *Bundle) WriteTo(writer io.Writer) (int64, error) {
	w, err := NewWriter(writer)
	if err != nil {
		return 0, err
	}
	w.WriteInt32(int32(len(b.Docs)))
	for _, doc := range b.Docs {
		w.WriteFrom(doc)
	}
	return w.Result()
}

// ReadFrom replaces Docs with the documents decoded from reader. On failure
// every document decoded so far is closed.
func (b *Bundle) ReadFrom(reader io.Reader) (int64, error) {
	if err := b.Close(); err != nil {
		return 0, err
	}
	r, err := NewReader(reader)
	if err != nil {
		return 0, err
	}

	var count int32
	r.ReadInt32(&count)
	if err := r.Err(); err != nil {
		return r.Count(), err
	}
	if count < 0 {
		return r.Count(), corrupt(ErrNegativeLength, "bundle of %d documents", count)
	}

	for i := 0; i < int(count); i++ {
		doc := NewDocument(b.codec, nil)
		r.ReadTo(doc)
		if err := r.Err(); err != nil {
			b.Close()
			return r.Count(), fmt.Errorf("document %d: %w", i, err)
		}
		b.Docs = append(b.Docs, doc)
	}
	return r.Count(), nil
}

func (b *Bundle) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(b)
}

func (b *Bundle) UnmarshalBinary(data []byte) error {
	if err := UnmarshalBinaryGeneric(b, data); err != nil {
		b.Close()
		return err
	}
	return nil
}

func (b *Bundle) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(b, buf)
}

// Close closes every document and empties the bundle.
func (b *Bundle) Close() error {
	var first error
	for _, doc := range b.Docs {
		if err := doc.Close(); err != nil && first == nil {
			first = err
		}
	}
	b.Docs = b.Docs[:0]
	return first
}
