package chunktext

import (
	"context"
	"io"
)

// Document adapts a Text to the Codec interfaces.
//
// After ReadFrom or UnmarshalBinary, Text is the decoded CharReader; call
// Close once the document is no longer needed so its chunks go back to the pool.
type Document struct {
	Text  Text
	codec *TextCodec
}

var _ Codec = (*Document)(nil)

// NewDocument binds text to codec. A nil codec means DefaultCodec.
func NewDocument(codec *TextCodec, text Text) *Document {
	return &Document{Text: text, codec: codec}
}

func (d *Document) Codec() *TextCodec {
	if d.codec == nil {
		return DefaultCodec()
	}
	return d.codec
}

// Len returns the length of the text, zero when there is none.
func (d *Document) Len() int {
	if d.Text == nil {
		return 0
	}
	return d.Text.Len()
}

// Size returns the encoded size in bytes.
func (d *Document) Size() int {
	return d.Codec().EncodedSize(d.Len())
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(writer io.Writer) (int64, error) {
	w, err := NewWriter(writer)
	if err != nil {
		return 0, err
	}
	text := d.Text
	if text == nil {
		text = Chars(nil)
	}
	if err := d.Codec().Write(context.Background(), text, w); err != nil {
		return w.Count(), err
	}
	return w.Result()
}

// ReadFrom implements io.ReaderFrom. Any previously decoded text is closed first.
func (d *Document) ReadFrom(reader io.Reader) (int64, error) {
	if err := d.Close(); err != nil {
		return 0, err
	}
	r, err := NewReader(reader)
	if err != nil {
		return 0, err
	}
	text, err := d.Codec().Read(context.Background(), r)
	if err != nil {
		return r.Count(), err
	}
	d.Text = text
	return r.Count(), nil
}

func (d *Document) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(d)
}

func (d *Document) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(d, buf)
}

// UnmarshalBinary decodes data, which may only be followed by zero padding.
func (d *Document) UnmarshalBinary(data []byte) error {
	if err := UnmarshalBinaryGeneric(d, data); err != nil {
		d.Close()
		return err
	}
	return nil
}

// String decodes the whole text as UTF-8 without moving a reader's cursor.
func (d *Document) String() string {
	chars := make(Chars, d.Len())
	if d.Text != nil {
		d.Text.CopyTo(0, chars)
	}
	return chars.String()
}

// Close releases a decoded text. It is a no-op for texts that are not readers.
func (d *Document) Close() error {
	if c, ok := d.Text.(io.Closer); ok {
		d.Text = nil
		return c.Close()
	}
	return nil
}
