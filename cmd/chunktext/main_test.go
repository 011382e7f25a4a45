package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestEncodeDecode(t *testing.T) {
	t.Setenv("CHUNKTEXT_STORE_DIR", t.TempDir())
	t.Setenv("CHUNKTEXT_INLINE_THRESHOLD", "16")
	t.Setenv("CHUNKTEXT_CHUNK_SIZE", "8")
	t.Setenv("CHUNKTEXT_LOG_LEVEL", "error")

	encoded := filepath.Join(t.TempDir(), "text.bin")
	want := "héllo wörld, this one is chunked 😀"

	run(t, want, "encode", "-i", "-", "-o", encoded)
	assert.Equal(t, want, run(t, "", "decode", "-i", encoded, "-o", "-"))

	info := run(t, "", "inspect", "-i", encoded)
	assert.Contains(t, info, "inline: false")
	assert.Contains(t, info, "chunk_size: 8")
}

func TestPutGet(t *testing.T) {
	t.Setenv("CHUNKTEXT_STORE_DIR", t.TempDir())
	t.Setenv("CHUNKTEXT_LOG_LEVEL", "error")

	run(t, "stored text", "put", "greeting", "-i", "-")
	assert.Equal(t, "stored text", run(t, "", "get", "greeting", "-o", "-"))
	assert.Contains(t, run(t, "", "inspect", "greeting"), "total_length: 11")

	run(t, "", "delete", "greeting")
	rootCmd.SetArgs([]string{"get", "greeting", "-o", "-"})
	assert.Error(t, rootCmd.Execute())
}
