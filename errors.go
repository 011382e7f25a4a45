package chunktext

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("chunktext: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer whose buffer is smaller than requested.
	ErrAlreadyBuffered = errors.New("chunktext: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("chunktext: WriteTo called with a nil io.Writer")

	// ErrReadToNil indicates a ReadTo operation was attempted on a nil io.ReaderFrom.
	ErrReadToNil = errors.New("chunktext: ReadTo called with a nil io.ReaderFrom")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("chunktext: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("chunktext: reader returned invalid count from Read")

	// ErrDiscardNegative indicates a Discard operation was attempted with a negative byte count.
	ErrDiscardNegative = errors.New("chunktext: cannot discard negative number of bytes")

	// ErrInvalidCharRange indicates WriteChars was called with an offset/count outside the slice.
	ErrInvalidCharRange = errors.New("chunktext: char range out of bounds")

	// ErrTrailingData is returned by UnmarshalBinaryGeneric when non-zero bytes are found
	// after the expected end of the data structure.
	ErrTrailingData = errors.New("chunktext: non-zero trailing data found after decoding")

	// ErrTruncatedData indicates that a read operation could not complete because the
	// underlying data source ended before all expected bytes were read.
	ErrTruncatedData = errors.New("chunktext: truncated data")

	// ErrInvalidOptions is returned by NewTextCodec for non-positive sizes.
	ErrInvalidOptions = errors.New("chunktext: invalid codec options")

	// ErrPoolChunkSize is returned when a pool hands out arrays of a different size than the codec uses.
	ErrPoolChunkSize = errors.New("chunktext: pool chunk size does not match codec chunk size")

	// ErrTextTooLarge indicates a text whose length does not fit the int32 length prefix.
	ErrTextTooLarge = errors.New("chunktext: text length exceeds int32 range")

	// ErrClosed is returned by Read on a CharReader after Close.
	ErrClosed = errors.New("chunktext: read from closed reader")
)

// ErrCorruptText wraps every stream-integrity failure below. A stream that
// fails with it cannot be loaded; callers must not attempt partial recovery.
var ErrCorruptText = errors.New("chunktext: corrupt or incompatible text stream")

var (
	// ErrNegativeLength indicates a negative length or count on the wire.
	ErrNegativeLength = errors.New("negative length")

	// ErrChunkSizeMismatch indicates the stream was written with a different chunk size.
	ErrChunkSizeMismatch = errors.New("chunk size mismatch")

	// ErrChunkCount indicates a chunk count that cannot describe the declared length.
	ErrChunkCount = errors.New("chunk count out of range")

	// ErrChunkOverflow indicates a char block longer than the array it is read into.
	ErrChunkOverflow = errors.New("char block exceeds chunk size")

	// ErrChunkUnderfilled indicates a chunk other than the last one that is not completely filled.
	ErrChunkUnderfilled = errors.New("chunk is not completely filled")

	// ErrLengthMismatch indicates the chunk lengths do not add up to the declared total length.
	ErrLengthMismatch = errors.New("length mismatch")
)
