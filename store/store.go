// Package store persists encoded texts as one file per key, each followed by
// an xxhash64 trailer over the encoded bytes.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oy3o/chunktext"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound   = errors.New("store: text not found")
	ErrChecksum   = errors.New("store: checksum mismatch")
	ErrInvalidKey = errors.New("store: empty key")
)

const (
	fileExt    = ".ctxt"
	tempPrefix = ".tmp-"
)

// trailer is the xxhash64 of the encoded text, stored after it.
type trailer = chunktext.Fixed[uint64]

const trailerSize = 8

type Options struct {
	CacheSize int         // inline texts kept in memory; 0 disables the cache
	Workers   int         // parallel saves in SaveAll; <= 0 means unlimited
	Logger    *zap.Logger // nil means no logging
}

// Store keeps texts under dir. Chunked texts are decoded into pool arrays on
// every Load; inline texts are small enough to be cached.
type Store struct {
	dir     string
	codec   *chunktext.TextCodec
	cache   *lru.Cache[string, chunktext.Chars]
	workers int
	log     *zap.Logger
}

// New opens a store in dir, creating the directory if needed. A nil codec means
// chunktext.DefaultCodec.
func New(dir string, codec *chunktext.TextCodec, opts Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	if codec == nil {
		codec = chunktext.DefaultCodec()
	}
	s := &Store{
		dir:     dir,
		codec:   codec,
		workers: opts.Workers,
		log:     opts.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, chunktext.Chars](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

func (s *Store) Dir() string                  { return s.dir }
func (s *Store) Codec() *chunktext.TextCodec { return s.codec }

// Path returns the file a key is stored in.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x%s", xxhash.Sum64String(key), fileExt))
}

// Save encodes text under key. The file is written under a temporary name and
// renamed into place, so a concurrent Load sees either the old text or the new one.
func (s *Store) Save(ctx context.Context, key string, text chunktext.Text) (err error) {
	if key == "" {
		return ErrInvalidKey
	}
	tmp := filepath.Join(s.dir, tempPrefix+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	digest := xxhash.New()
	n, err := s.codec.WriteTo(ctx, text, io.MultiWriter(f, digest))
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	if _, err = (&trailer{Payload: digest.Sum64()}).WriteTo(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp, s.Path(key)); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Remove(key)
	}
	s.log.Debug("saved text",
		zap.String("key", key),
		zap.Int("length", text.Len()),
		zap.Int64("bytes", n),
		zap.Bool("inline", s.codec.IsInline(text.Len())))
	return nil
}

// SaveAll saves every text, at most Options.Workers at a time. The first
// failure cancels the saves that have not started yet.
func (s *Store) SaveAll(ctx context.Context, texts map[string]chunktext.Text) error {
	g, ctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}
	for key, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.Save(ctx, key, text)
		})
	}
	return g.Wait()
}

// Load decodes the text stored under key. The caller owns the returned reader
// and must Close it.
func (s *Store) Load(ctx context.Context, key string) (chunktext.CharReader, error) {
	if s.cache != nil {
		if chars, ok := s.cache.Get(key); ok {
			return chunktext.NewCharsReader(chars), nil
		}
	}

	f, body, sum, err := s.open(key)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	digest := xxhash.New()
	r, err := chunktext.NewReader(io.TeeReader(body, digest))
	if err != nil {
		return nil, err
	}
	text, err := s.codec.Read(ctx, r)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// a damaged file usually fails to decode; report it as damage when the bytes say so
		if _, cerr := io.Copy(digest, body); cerr == nil && digest.Sum64() != sum {
			err = fmt.Errorf("%w: %w", ErrChecksum, err)
		}
		s.log.Warn("corrupt text", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("store: load %q: %w", key, err)
	}

	if r.Count() != body.Size() {
		text.Close()
		err := fmt.Errorf("%w: %d of %d bytes decoded", chunktext.ErrTrailingData, r.Count(), body.Size())
		s.log.Warn("corrupt text", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("store: load %q: %w", key, err)
	}
	if digest.Sum64() != sum {
		text.Close()
		s.log.Warn("corrupt text", zap.String("key", key), zap.Error(ErrChecksum))
		return nil, fmt.Errorf("store: load %q: %w", key, ErrChecksum)
	}

	if chars, ok := text.(*chunktext.CharsReader); ok && s.cache != nil {
		s.cache.Add(key, chars.Chars())
	}
	s.log.Debug("loaded text", zap.String("key", key), zap.Int("length", text.Len()))
	return text, nil
}

// Inspect returns the layout of the text stored under key without decoding it.
func (s *Store) Inspect(key string) (chunktext.Header, error) {
	f, body, _, err := s.open(key)
	if err != nil {
		return chunktext.Header{}, err
	}
	defer f.Close()
	return s.codec.Inspect(body)
}

// Delete removes the text stored under key.
func (s *Store) Delete(key string) error {
	if s.cache != nil {
		s.cache.Remove(key)
	}
	if err := os.Remove(s.Path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return err
	}
	s.log.Debug("deleted text", zap.String("key", key))
	return nil
}

// open returns the file, a reader over its encoded body and the stored checksum.
func (s *Store) open(key string) (*os.File, *io.SectionReader, uint64, error) {
	if key == "" {
		return nil, nil, 0, ErrInvalidKey
	}
	f, err := os.Open(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, 0, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return nil, nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, 0, err
	}
	size := info.Size() - trailerSize
	if size < 0 {
		f.Close()
		return nil, nil, 0, fmt.Errorf("store: load %q: %w: file of %d bytes", key, chunktext.ErrTruncatedData, info.Size())
	}

	var sum trailer
	if _, err := sum.ReadFrom(io.NewSectionReader(f, size, trailerSize)); err != nil {
		f.Close()
		return nil, nil, 0, err
	}
	return f, io.NewSectionReader(f, 0, size), sum.Payload, nil
}
