package chunktext

import "sync"

// SCRATCH_SIZE is the byte size of the scratch buffers used to move code units
// between []uint16 and the wire. It holds one default chunk (4096 units).
const SCRATCH_SIZE = 2 * DefaultChunkSize

// scratchPool hands out byte buffers for encoding and decoding char blocks.
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, SCRATCH_SIZE)
		return &b
	},
}
