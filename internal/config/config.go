// Package config loads chunktext settings from defaults, a YAML file and the
// environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/oy3o/chunktext"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CHUNKTEXT_"

type Config struct {
	Codec CodecConfig `yaml:"codec"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

type CodecConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	InlineThreshold int `yaml:"inline_threshold"`
	PoolCapacity    int `yaml:"pool_capacity"`
	Prewarm         int `yaml:"prewarm"` // arrays allocated up front
}

type StoreConfig struct {
	Dir       string `yaml:"dir"`
	CacheSize int    `yaml:"cache_size"`
	Workers   int    `yaml:"workers"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			ChunkSize:       chunktext.DefaultChunkSize,
			InlineThreshold: chunktext.DefaultInlineThreshold,
			PoolCapacity:    chunktext.DefaultPoolCapacity,
		},
		Store: StoreConfig{
			Dir:       ".chunktext",
			CacheSize: 256,
			Workers:   4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies .env and CHUNKTEXT_*
// variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	ints := map[string]*int{
		"CHUNK_SIZE":       &c.Codec.ChunkSize,
		"INLINE_THRESHOLD": &c.Codec.InlineThreshold,
		"POOL_CAPACITY":    &c.Codec.PoolCapacity,
		"PREWARM":          &c.Codec.Prewarm,
		"CACHE_SIZE":       &c.Store.CacheSize,
		"WORKERS":          &c.Store.Workers,
	}
	for name, dst := range ints {
		raw := strings.TrimSpace(os.Getenv(envPrefix + name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
		}
		*dst = v
	}

	if dir := strings.TrimSpace(os.Getenv(envPrefix + "STORE_DIR")); dir != "" {
		c.Store.Dir = dir
	}
	if level := strings.TrimSpace(os.Getenv(envPrefix + "LOG_LEVEL")); level != "" {
		c.Log.Level = level
	}
	if raw := strings.TrimSpace(os.Getenv(envPrefix + "LOG_DEVELOPMENT")); raw != "" {
		dev, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: %sLOG_DEVELOPMENT: %w", envPrefix, err)
		}
		c.Log.Development = dev
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.CodecOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Codec.Prewarm < 0 || c.Codec.Prewarm > c.Codec.PoolCapacity {
		errs = append(errs, fmt.Errorf("config: prewarm %d outside [0, %d]", c.Codec.Prewarm, c.Codec.PoolCapacity))
	}
	if c.Store.Dir == "" {
		errs = append(errs, errors.New("config: store dir is empty"))
	}
	if c.Store.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("config: cache size %d", c.Store.CacheSize))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) CodecOptions() chunktext.Options {
	return chunktext.Options{
		ChunkSize:       c.Codec.ChunkSize,
		InlineThreshold: c.Codec.InlineThreshold,
		PoolCapacity:    c.Codec.PoolCapacity,
	}
}

// NewCodec builds the configured codec. The default layout without prewarming
// shares chunktext.SharedPool; anything else gets a pool of its own.
func (c *Config) NewCodec() (*chunktext.TextCodec, error) {
	opts := c.CodecOptions()
	if c.Codec.Prewarm == 0 {
		return chunktext.NewTextCodec(nil, opts)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pool := chunktext.NewChunkPool(opts.ChunkSize, opts.PoolCapacity)
	pool.Allocate(c.Codec.Prewarm)
	return chunktext.NewTextCodec(pool, opts)
}

// BuildLogger builds a zap logger at the configured level, or at debug when verbose.
func (c *Config) BuildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if c.Log.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
