package wav

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed indicates a structural violation such as a bad magic tag
	// or a fixed-size chunk declaring the wrong length.
	ErrMalformed = errors.New("malformed wav container")
	// ErrUnexpectedChunk is returned when a chunk other than the expected one
	// is found, e.g. anything but "fmt " right after the RIFF prologue.
	ErrUnexpectedChunk = errors.New("unexpected chunk")
	// ErrTruncated indicates a chunk whose declared size is too small for the
	// layout it announces.
	ErrTruncated = errors.New("truncated chunk")
	// ErrInvalidContainer is the header parsing catch-all. A demuxer that
	// returned it is done.
	ErrInvalidContainer = errors.New("invalid wav container")
	// ErrInvalidConfiguration is returned by the muxer when the format it was
	// given can't be serialized.
	ErrInvalidConfiguration = errors.New("invalid muxer configuration")
	// ErrNeedMoreData is matched by every *NeedMoreDataError.
	ErrNeedMoreData = errors.New("more data needed")
	// ErrHeadersNotRead is returned when packets are requested before the
	// headers were parsed.
	ErrHeadersNotRead = errors.New("headers not read")

	errAlreadyWroteHdr = errors.New("already wrote header")
	errHeaderNotWrote  = errors.New("header not written")
	errNilWriter       = errors.New("can't write to a nil writer")
	errNilFormat       = errors.New("nil format")
	errNilPacket       = errors.New("nil packet")
	errDataClosed      = errors.New("data chunk already padded")
)

// NeedMoreDataError reports that the byte window was too short. Size is the
// best estimate of the total window length, counted from the same starting
// offset, required to make progress.
type NeedMoreDataError struct {
	Size int
}

func (e *NeedMoreDataError) Error() string {
	return fmt.Sprintf("more data needed: %d bytes", e.Size)
}

// Is makes errors.Is(err, ErrNeedMoreData) work on wrapped values.
func (e *NeedMoreDataError) Is(target error) bool {
	return target == ErrNeedMoreData
}

func needMoreData(size int) error {
	return &NeedMoreDataError{Size: size}
}
