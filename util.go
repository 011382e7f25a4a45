package chunktext

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the byte order of every integer and code unit on the wire.
	Order = LE
)

const BUFFER_SIZE = 4096

var discard [BUFFER_SIZE]byte

// Discard reads and drops exactly n bytes from r.
func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := io.ReadFull(r, discard[:n])
		return int64(skip), err
	}
	skip, err := io.CopyN(io.Discard, r, n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return skip, err
}

// DivMod splits a flat position into a chunk index and a column inside that chunk.
func DivMod[T constraints.Integer](pos, size T) (T, T) { return pos / size, pos % size }

// ChunkCount is the number of chunks the chunked form declares for n characters.
// It is 1 + n/size rather than ceil(n/size): an exact multiple of size carries
// a trailing zero-length chunk, and persisted streams depend on that layout.
func ChunkCount[T constraints.Integer](n, size T) T { return 1 + n/size }

// MAX_PADDING defines the maximum number of trailing bytes to check.
const MAX_PADDING = 1024 // 1KB

// CheckBufferNotZeros verifies that trailing bytes left after decoding are all zero.
func CheckBufferNotZeros(data []byte) error {
	if len(data) > MAX_PADDING {
		return fmt.Errorf("%w: %d bytes exceed maximum expected size of %d bytes", ErrTrailingData, len(data), MAX_PADDING)
	}
	for i, b := range data {
		if b != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, i)
		}
	}
	return nil
}

// corrupt wraps kind under ErrCorruptText so both match with errors.Is.
func corrupt(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: "+format, append([]any{ErrCorruptText, kind}, args...)...)
}
