package chunktext

import (
	"bufio"
	"bytes"
)

type (
	bytesReaderAdapter       struct{ *bytes.Reader }
	bytesBufferReaderAdapter struct{ *bytes.Buffer }
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	bufioReaderAdapter       struct{ *bufio.Reader }
	bufioWriterAdapter       struct{ *bufio.Writer }
)

var (
	_ ReaderPro = (*bytesReaderAdapter)(nil)
	_ ReaderPro = (*bytesBufferReaderAdapter)(nil)
	_ ReaderPro = (*bufioReaderAdapter)(nil)
	_ WriterPro = (*bytesBufferWriterAdapter)(nil)
	_ WriterPro = (*bufioWriterAdapter)(nil)
)

func (r *bytesReaderAdapter) Close() error       { return nil }
func (r *bytesBufferReaderAdapter) Close() error { return nil }
func (r *bufioReaderAdapter) Close() error       { return nil }
func (w *bufioWriterAdapter) Close() error       { return nil }
func (w *bytesBufferWriterAdapter) Close() error { return nil }
func (w *bytesBufferWriterAdapter) Flush() error { return nil }

// Size reports the bytes the source can serve without touching an underlying stream.
func (r *bytesReaderAdapter) Size() int       { return int(r.Reader.Size()) }
func (r *bytesBufferReaderAdapter) Size() int { return r.Len() }
func (r *bufioReaderAdapter) Size() int       { return r.Reader.Size() }

// Size reports the bytes that can be written before the adapter has to grow or flush.
func (w *bytesBufferWriterAdapter) Size() int { return w.Available() }
func (w *bufioWriterAdapter) Size() int       { return w.Writer.Size() }
