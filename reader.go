package wav

import (
	"errors"
	"fmt"
	"io"
)

const (
	defaultReadSize = 4096
	// DefaultMaxWindow caps the bytes a Reader buffers while looking for the
	// data chunk.
	DefaultMaxWindow = 16 << 20
)

var errWindowTooLarge = errors.New("header window exceeds the configured maximum")

// Reader drives a Demuxer from an io.ReadSeeker, growing its window when the
// demuxer asks for more data and dropping consumed bytes as packets are
// read.
// Note that the reader doesn't get rewinded: offsets are counted from its
// position when the headers are first read.
type Reader struct {
	r   io.ReadSeeker
	dmx *Demuxer

	// MaxWindow bounds the header window. Defaults to DefaultMaxWindow.
	MaxWindow int

	stream  *Stream
	base    int64
	started bool
	buf     []byte
	bufPos  int64
	eof     bool
}

// NewReader creates a reader for the passed wav reader.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{
		r:         r,
		dmx:       NewDemuxer(),
		MaxWindow: DefaultMaxWindow,
	}
}

// Demuxer returns the demuxer the reader drives.
func (r *Reader) Demuxer() *Demuxer {
	return r.dmx
}

// Stream returns the stream descriptor, nil before ReadHeaders succeeded.
func (r *Reader) Stream() *Stream {
	return r.stream
}

// Metadata returns the LIST/INFO metadata found before the data chunk.
func (r *Reader) Metadata() *Metadata {
	return r.dmx.Metadata()
}

// RawChunks returns a copy of the unhandled chunks found before data.
func (r *Reader) RawChunks() []RawChunk {
	return r.dmx.RawChunks()
}

// ReadHeaders reads as much of the source as the demuxer needs to parse the
// headers. This method is safe to call multiple times.
func (r *Reader) ReadHeaders() (*Stream, error) {
	if r.stream != nil {
		return r.stream, nil
	}

	if !r.started {
		pos, err := r.r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, fmt.Errorf("failed to get the start position: %w", err)
		}

		r.base = pos
		r.started = true
	}

	for {
		stream, off, err := r.dmx.ReadHeaders(r.buf)
		if err == nil {
			r.stream = stream

			if err := r.consume(off); err != nil {
				return nil, err
			}

			return stream, nil
		}

		var more *NeedMoreDataError
		if !errors.As(err, &more) {
			return nil, err
		}

		if more.Size > r.MaxWindow {
			return nil, fmt.Errorf("%w: %w (%d > %d bytes)", ErrInvalidContainer, errWindowTooLarge, more.Size, r.MaxWindow)
		}

		if r.eof {
			return nil, fmt.Errorf("%w: %w", ErrInvalidContainer, io.ErrUnexpectedEOF)
		}

		if err := r.fill(max(more.Size, len(r.buf)+defaultReadSize)); err != nil {
			return nil, err
		}
	}
}

// ReadPacket returns the next packet, or io.EOF at the end of the stream.
func (r *Reader) ReadPacket() (*Packet, error) {
	if r.stream == nil {
		if _, err := r.ReadHeaders(); err != nil {
			return nil, err
		}
	}

	if size := r.dmx.BlockSize(); len(r.buf) < size {
		if err := r.fill(max(size, defaultReadSize)); err != nil {
			return nil, err
		}
	}

	pkt, off, err := r.dmx.ReadPacket(r.buf)
	if err != nil {
		return nil, err
	}

	if err := r.consume(off); err != nil {
		return nil, err
	}

	return pkt, nil
}

// fill grows the window to size bytes, or fewer at the end of the source.
func (r *Reader) fill(size int) error {
	if len(r.buf) >= size || r.eof {
		return nil
	}

	if cap(r.buf) < size {
		buf := make([]byte, len(r.buf), size)
		copy(buf, r.buf)
		r.buf = buf
	}

	n, err := io.ReadFull(r.r, r.buf[len(r.buf):size])
	r.buf = r.buf[:len(r.buf)+n]

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		r.eof = true

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read: %w", err)
	}

	return nil
}

// consume drops the window bytes before the absolute offset off.
func (r *Reader) consume(off int64) error {
	skip := off - r.bufPos
	if skip <= int64(len(r.buf)) {
		r.buf = r.buf[skip:]
		r.bufPos = off

		return nil
	}

	if _, err := r.r.Seek(r.base+off, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	r.buf = r.buf[:0]
	r.bufPos = off
	r.eof = false

	return nil
}
