package chunktext

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharsString(t *testing.T) {
	for _, s := range []string{"", "ascii", "héllo", "a😀b", "日本語"} {
		c := FromString(s)
		assert.Equal(t, s, c.String())
	}
	assert.Len(t, FromString("😀"), 2, "astral code points take a surrogate pair")
	assert.Equal(t, "�", FromString("\xff").String())
}

func TestCharsCopyTo(t *testing.T) {
	c := FromString("abcdef")
	dst := make([]uint16, 4)
	assert.Equal(t, 4, c.CopyTo(0, dst))
	assert.Equal(t, 2, c.CopyTo(4, dst))
	assert.Equal(t, "ef", Chars(dst[:2]).String())
	assert.Zero(t, c.CopyTo(6, dst))
	assert.Zero(t, c.CopyTo(-1, dst))
}

func TestWriteUTF8(t *testing.T) {
	codec, pool := newTestCodec(t, Options{ChunkSize: DefaultChunkSize, InlineThreshold: 0, PoolCapacity: 4})

	t.Run("SurrogateAcrossReads", func(t *testing.T) {
		// the pair starts on the last unit of the first read
		want := strings.Repeat("x", DefaultChunkSize) + "😀y"
		r := decode(t, codec, encode(t, codec, FromString(want)))
		defer r.Close()

		var out bytes.Buffer
		n, err := WriteUTF8(&out, r)
		require.NoError(t, err)
		assert.EqualValues(t, len(want), n)
		assert.Equal(t, want, out.String())
	})

	t.Run("FromPosition", func(t *testing.T) {
		r := decode(t, codec, encode(t, codec, FromString("skip me")))
		defer r.Close()
		r.ReadRange(make([]uint16, 5), 0, 5)

		var out bytes.Buffer
		_, err := WriteUTF8(&out, r)
		require.NoError(t, err)
		assert.Equal(t, "me", out.String())
	})

	t.Run("LoneHighSurrogate", func(t *testing.T) {
		var out bytes.Buffer
		_, err := WriteUTF8(&out, NewCharsReader(Chars{'a', 0xD83D}))
		require.NoError(t, err)
		assert.Equal(t, "a�", out.String())
	})

	requirePoolBalanced(t, pool)
}
