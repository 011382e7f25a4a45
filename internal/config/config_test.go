package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oy3o/chunktext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunktext.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, chunktext.DefaultOptions(), cfg.CodecOptions())
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
codec:
  chunk_size: 512
  inline_threshold: 1024
store:
  dir: /var/lib/chunktext
  workers: 2
log:
  level: warn
`)
	t.Setenv("CHUNKTEXT_INLINE_THRESHOLD", "2048")
	t.Setenv("CHUNKTEXT_LOG_DEVELOPMENT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Codec.ChunkSize, "from file")
	assert.Equal(t, 2048, cfg.Codec.InlineThreshold, "env beats file")
	assert.Equal(t, chunktext.DefaultPoolCapacity, cfg.Codec.PoolCapacity, "default kept")
	assert.Equal(t, "/var/lib/chunktext", cfg.Store.Dir)
	assert.Equal(t, 2, cfg.Store.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoadErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := Load(writeConfig(t, "codec: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("BadEnv", func(t *testing.T) {
		t.Setenv("CHUNKTEXT_WORKERS", "many")
		_, err := Load("")
		assert.ErrorContains(t, err, "CHUNKTEXT_WORKERS")
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := Load(writeConfig(t, "codec:\n  chunk_size: 0\nlog:\n  level: loud\n"))
		assert.ErrorIs(t, err, chunktext.ErrInvalidOptions)
		assert.ErrorContains(t, err, "loud")
	})
}

func TestNewCodec(t *testing.T) {
	cfg := Default()
	codec, err := cfg.NewCodec()
	require.NoError(t, err)
	assert.Same(t, chunktext.SharedPool(), codec.Pool())

	cfg.Codec.ChunkSize = 64
	cfg.Codec.PoolCapacity = 8
	cfg.Codec.Prewarm = 5
	codec, err = cfg.NewCodec()
	require.NoError(t, err)
	pool, ok := codec.Pool().(*chunktext.ChunkPool)
	require.True(t, ok)
	assert.Equal(t, 5, pool.Free())
	assert.Equal(t, 64, codec.ChunkSize())
}

func TestBuildLogger(t *testing.T) {
	cfg := Default()
	logger, err := cfg.BuildLogger(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = cfg.BuildLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
