package testutils

import (
	"fmt"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// MockChunkPool hands out fresh arrays and records who holds them, so tests
// can assert that every array came back exactly once.
type MockChunkPool struct {
	Size int

	getCalls atomic.Int64
	putCalls atomic.Int64
	live     *xsync.Map[*uint16, struct{}]
	faults   *xsync.Map[string, struct{}]
}

func NewMockChunkPool(size int) *MockChunkPool {
	return &MockChunkPool{
		Size:   size,
		live:   xsync.NewMap[*uint16, struct{}](),
		faults: xsync.NewMap[string, struct{}](),
	}
}

func (p *MockChunkPool) ChunkSize() int { return p.Size }

func (p *MockChunkPool) Get() []uint16 {
	p.getCalls.Add(1)
	c := make([]uint16, p.Size)
	p.live.Store(&c[0], struct{}{})
	return c
}

func (p *MockChunkPool) Put(c []uint16) {
	p.putCalls.Add(1)
	if len(c) != p.Size {
		p.faults.Store(fmt.Sprintf("put of %d units into pool of %d", len(c), p.Size), struct{}{})
		return
	}
	if _, ok := p.live.LoadAndDelete(&c[0]); !ok {
		p.faults.Store(fmt.Sprintf("put of unknown or already returned array %p", &c[0]), struct{}{})
	}
}

func (p *MockChunkPool) GetCalls() int64 { return p.getCalls.Load() }
func (p *MockChunkPool) PutCalls() int64 { return p.putCalls.Load() }

// ChunksInUse counts arrays handed out and not yet returned.
func (p *MockChunkPool) ChunksInUse() int { return p.live.Size() }

// Faults lists double returns and foreign arrays seen by Put.
func (p *MockChunkPool) Faults() []string {
	var out []string
	p.faults.Range(func(fault string, _ struct{}) bool {
		out = append(out, fault)
		return true
	})
	return out
}
