package chunktext

import (
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

const (
	DefaultChunkSize       = 4096
	DefaultInlineThreshold = 32768
	DefaultPoolCapacity    = 1024 // 1024 × 4096 × 2 bytes = 8MB held at most
)

// ChunkPooler is the contract the codec needs from a pool of fixed-size
// chunk arrays. Get hands out exclusive ownership; Put gives it back.
type ChunkPooler interface {
	ChunkSize() int
	Get() []uint16
	Put(c []uint16)
}

// PoolStats is a point-in-time view of pool traffic.
type PoolStats struct {
	Free    int64 // arrays currently waiting in the pool
	Gets    int64
	Puts    int64
	Allocs  int64 // Gets that found the pool empty
	Dropped int64 // Puts refused because the pool was full or the array had the wrong size
}

// ChunkPool is a bounded, lock-free pool of []uint16 arrays of one size.
// It is safe for concurrent use; no two callers ever hold the same array
// unless one of them returned it twice.
type ChunkPool struct {
	size     int
	capacity int
	free     *xsync.MPMCQueue[[]uint16]

	available *xsync.Counter
	gets      *xsync.Counter
	puts      *xsync.Counter
	allocs    *xsync.Counter
	dropped   *xsync.Counter
}

var _ ChunkPooler = (*ChunkPool)(nil)

// NewChunkPool creates an empty pool that keeps at most capacity arrays of
// chunkSize units. It panics on non-positive arguments.
func NewChunkPool(chunkSize, capacity int) *ChunkPool {
	if chunkSize <= 0 || capacity <= 0 {
		panic(fmt.Sprintf("chunktext: invalid chunk pool %d×%d", capacity, chunkSize))
	}
	return &ChunkPool{
		size:      chunkSize,
		capacity:  capacity,
		free:      xsync.NewMPMCQueue[[]uint16](capacity),
		available: xsync.NewCounter(),
		gets:      xsync.NewCounter(),
		puts:      xsync.NewCounter(),
		allocs:    xsync.NewCounter(),
		dropped:   xsync.NewCounter(),
	}
}

var sharedPool = sync.OnceValue(func() *ChunkPool {
	return NewChunkPool(DefaultChunkSize, DefaultPoolCapacity)
})

// SharedPool returns the process-wide pool of default-sized chunks, created on first use.
func SharedPool() *ChunkPool { return sharedPool() }

func (p *ChunkPool) ChunkSize() int { return p.size }
func (p *ChunkPool) Capacity() int  { return p.capacity }

// Get takes an array out of the pool, allocating one when the pool is empty.
// The returned slice always has len and cap equal to ChunkSize.
func (p *ChunkPool) Get() []uint16 {
	p.gets.Inc()
	if c, ok := p.free.TryDequeue(); ok {
		p.available.Dec()
		return c
	}
	p.allocs.Inc()
	return make([]uint16, p.size)
}

// Put returns an array to the pool. Arrays of another size, and arrays
// arriving while the pool is full, are left to the garbage collector.
func (p *ChunkPool) Put(c []uint16) {
	if c == nil {
		return
	}
	p.puts.Inc()
	if len(c) != p.size || cap(c) != p.size {
		p.dropped.Inc()
		return
	}
	if !p.free.TryEnqueue(c) {
		p.dropped.Inc()
		return
	}
	p.available.Inc()
}

// Allocate pre-warms the pool so at least n arrays are free, bounded by capacity.
func (p *ChunkPool) Allocate(n int) {
	for need := min(n, p.capacity) - int(p.available.Value()); need > 0; need-- {
		if !p.free.TryEnqueue(make([]uint16, p.size)) {
			return
		}
		p.available.Inc()
	}
}

// Free returns the number of arrays waiting in the pool.
func (p *ChunkPool) Free() int { return int(p.available.Value()) }

func (p *ChunkPool) Stats() PoolStats {
	return PoolStats{
		Free:    p.available.Value(),
		Gets:    p.gets.Value(),
		Puts:    p.puts.Value(),
		Allocs:  p.allocs.Value(),
		Dropped: p.dropped.Value(),
	}
}
