package chunktext

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var smallOptions = Options{ChunkSize: 4, InlineThreshold: 8, PoolCapacity: 16}

type DocumentTestSuite struct {
	suite.Suite
}

func (s *DocumentTestSuite) TestRoundTrip() {
	codec, pool := newTestCodec(s.T(), smallOptions)
	for _, text := range []string{"", "short", "a longer text that is chunked"} {
		doc := NewDocument(codec, FromString(text))
		data, err := doc.MarshalBinary()
		s.Require().NoError(err)
		s.Assert().Len(data, doc.Size())

		var got Document
		got.codec = codec
		s.Require().NoError(got.UnmarshalBinary(data))
		s.Assert().Equal(text, got.String())
		s.Assert().Equal(len(text), got.Len())
		s.Require().NoError(got.Close())
	}
	requirePoolBalanced(s.T(), pool)
}

func (s *DocumentTestSuite) TestTrailingData() {
	codec, pool := newTestCodec(s.T(), smallOptions)
	data, err := NewDocument(codec, FromString("chunked text")).MarshalBinary()
	s.Require().NoError(err)

	doc := NewDocument(codec, nil)
	s.Require().NoError(doc.UnmarshalBinary(append(bytes.Clone(data), 0, 0, 0)))
	s.Require().NoError(doc.Close())

	err = doc.UnmarshalBinary(append(bytes.Clone(data), 0, 1))
	s.Assert().ErrorIs(err, ErrTrailingData)
	s.Assert().Nil(doc.Text, "a rejected document keeps nothing")
	requirePoolBalanced(s.T(), pool)
}

func (s *DocumentTestSuite) TestReadFromReplacesText() {
	codec, pool := newTestCodec(s.T(), smallOptions)
	first := encode(s.T(), codec, FromString("first chunked text"))
	second := encode(s.T(), codec, FromString("second"))

	doc := NewDocument(codec, nil)
	_, err := doc.ReadFrom(bytes.NewReader(first))
	s.Require().NoError(err)
	s.Assert().NotZero(pool.ChunksInUse())

	_, err = doc.ReadFrom(bytes.NewReader(second))
	s.Require().NoError(err)
	s.Assert().Zero(pool.ChunksInUse(), "the previous text is closed first")
	s.Assert().Equal("second", doc.String())
	s.Require().NoError(doc.Close())
	requirePoolBalanced(s.T(), pool)
}

func (s *DocumentTestSuite) TestMarshalTo() {
	doc := NewDocument(nil, FromString("hello"))
	s.Assert().Same(DefaultCodec(), doc.Codec())

	_, err := doc.MarshalTo(make([]byte, doc.Size()-1))
	s.Assert().ErrorIs(err, io.ErrShortBuffer)

	buf := make([]byte, doc.Size()+4)
	n, err := doc.MarshalTo(buf)
	s.Require().NoError(err)
	s.Assert().Equal(doc.Size(), n)

	want, err := doc.MarshalBinary()
	s.Require().NoError(err)
	s.Assert().Equal(want, buf[:n])
}

func (s *DocumentTestSuite) TestNilText() {
	doc := NewDocument(nil, nil)
	s.Assert().Zero(doc.Len())
	s.Assert().Equal("", doc.String())
	data, err := doc.MarshalBinary()
	s.Require().NoError(err)
	s.Assert().Equal(make([]byte, 8), data)
	s.Assert().NoError(doc.Close())
}

func TestDocument(t *testing.T) {
	suite.Run(t, new(DocumentTestSuite))
}

func TestBundleRoundTrip(t *testing.T) {
	codec, pool := newTestCodec(t, smallOptions)
	texts := []string{"", "tiny", "a text long enough to be chunked", "exactly8"}

	in := NewBundle(codec)
	for _, text := range texts {
		in.Docs = append(in.Docs, NewDocument(codec, FromString(text)))
	}
	var buf bytes.Buffer
	n, err := in.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, in.Size(), n)
	assert.Equal(t, in.Size(), buf.Len())

	out := NewBundle(codec)
	m, err := out.ReadFrom(iotest.HalfReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, n, m)
	require.Equal(t, len(texts), out.Len())
	for i, text := range texts {
		assert.Equal(t, text, out.Docs[i].String(), "document %d", i)
	}

	require.NoError(t, out.Close())
	assert.Zero(t, out.Len())
	requirePoolBalanced(t, pool)
}

func TestBundleBinary(t *testing.T) {
	codec, pool := newTestCodec(t, smallOptions)
	in := NewBundle(codec, FromString("one"), FromString("two chunked documents"))
	data, err := in.MarshalBinary()
	require.NoError(t, err)

	buf := make([]byte, len(data))
	k, err := in.MarshalTo(buf)
	require.NoError(t, err)
	assert.Equal(t, data, buf[:k])

	out := NewBundle(codec)
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, "two chunked documents", out.Docs[1].String())
	require.NoError(t, out.Close())
	requirePoolBalanced(t, pool)
}

func TestBundleCorruptDocument(t *testing.T) {
	codec, pool := newTestCodec(t, smallOptions)
	data := streamOf(t, func(w *Writer) {
		w.WriteInt32(2)
		w.WriteFrom(NewDocument(codec, FromString("fine and chunked")))
		w.WriteInt32(9)
		writeHeader(w, 4, 3)
		w.WriteChars(makeText(4), 0, 4)
		w.WriteChars(makeText(2), 0, 2)
		w.WriteChars(makeText(3), 0, 3)
	})

	out := NewBundle(codec)
	_, err := out.ReadFrom(bytes.NewReader(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChunkUnderfilled)
	assert.Contains(t, err.Error(), "document 1")
	assert.Zero(t, out.Len())
	requirePoolBalanced(t, pool)

	_, err = out.ReadFrom(bytes.NewReader(streamOf(t, func(w *Writer) { w.WriteInt32(-2) })))
	assert.ErrorIs(t, err, ErrNegativeLength)
}
