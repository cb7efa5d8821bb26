package wav

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
)

type demuxState int

const (
	stateInit demuxState = iota
	stateHeaderParsed
	stateStreaming
	stateEOF
	stateFailed
)

func (s demuxState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateHeaderParsed:
		return "header parsed"
	case stateStreaming:
		return "streaming"
	case stateEOF:
		return "eof"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("demuxState(%d)", int(s))
	}
}

var _ StreamReader = (*Demuxer)(nil)

// Demuxer turns an in-memory window of a WAV container into a stream
// descriptor and a sequence of packets. It performs no I/O: the caller
// supplies windows at the offsets the demuxer returns.
//
// A Demuxer is single use and not safe for concurrent use.
type Demuxer struct {
	chunks *ChunkRegistry

	state     demuxState
	err       error
	hdr       *header
	stream    *Stream
	blockSize int
	cursor    int64
}

// NewDemuxer returns a demuxer ready for ReadHeaders.
func NewDemuxer() *Demuxer {
	return &Demuxer{chunks: NewChunkRegistry()}
}

// NewDemuxerWithRegistry returns a demuxer dispatching optional chunks to
// registry instead of the default LIST/INFO handler.
func NewDemuxerWithRegistry(registry *ChunkRegistry) *Demuxer {
	return &Demuxer{chunks: registry}
}

// Registry returns the chunk handler registry used while scanning for the
// data chunk.
func (d *Demuxer) Registry() *ChunkRegistry {
	if d.chunks == nil {
		d.chunks = NewChunkRegistry()
	}

	return d.chunks
}

// Probe implements StreamReader.
func (d *Demuxer) Probe(data []byte) int {
	return Probe(data)
}

// ReadHeaders parses prologue, fmt chunk and the chunks leading to data.
// window must start at offset 0 of the container. A short window returns a
// *NeedMoreDataError and leaves the demuxer untouched so the call can be
// retried with a longer window. Any other failure wraps ErrInvalidContainer
// and is final.
func (d *Demuxer) ReadHeaders(window []byte) (*Stream, int64, error) {
	switch d.state {
	case stateInit:
	case stateFailed:
		return nil, 0, d.err
	default:
		return d.stream, int64(d.hdr.DataPos), nil
	}

	hdr, err := parseHeader(window, d.Registry())
	if err != nil {
		if errors.Is(err, ErrNeedMoreData) {
			return nil, 0, err
		}

		return nil, 0, d.fail(err)
	}

	blockSize := int(hdr.Format.BlockAlign)
	if hdr.Format.IsPCM() {
		blockSize = pcmBlockSize(hdr.Format.BlockAlign)
	}

	if blockSize == 0 {
		return nil, 0, d.fail(fmt.Errorf("%w: zero block align", ErrMalformed))
	}

	d.hdr = hdr
	d.blockSize = blockSize
	d.cursor = int64(hdr.DataPos)
	d.state = stateHeaderParsed
	d.stream = newStream(hdr)
	d.state = stateStreaming

	return d.stream, d.cursor, nil
}

// ReadPacket returns the next block of the data chunk. window must start at
// the offset returned by the previous ReadHeaders/ReadPacket call. When
// fewer than a block of bytes is left, in the window or in the declared data
// chunk, the demuxer moves to its end state and returns io.EOF.
func (d *Demuxer) ReadPacket(window []byte) (*Packet, int64, error) {
	switch d.state {
	case stateStreaming:
	case stateEOF:
		return nil, d.cursor, io.EOF
	case stateFailed:
		return nil, d.cursor, d.err
	default:
		return nil, d.cursor, fmt.Errorf("%w (state: %s)", ErrHeadersNotRead, d.state)
	}

	avail := int64(len(window))
	if d.hdr.DataSize != unboundedDataSize {
		avail = min(avail, int64(d.hdr.DataEnd)-d.cursor)
	}

	if avail < int64(d.blockSize) {
		d.state = stateEOF

		return nil, d.cursor, io.EOF
	}

	pkt := &Packet{
		Data:        append([]byte(nil), window[:d.blockSize]...),
		PTS:         d.pts(),
		StreamIndex: 0,
		Pos:         d.cursor,
	}

	d.cursor += int64(d.blockSize)

	return pkt, d.cursor, nil
}

// BlockSize returns the packet size in bytes, 0 before the headers are read.
func (d *Demuxer) BlockSize() int {
	return d.blockSize
}

// Offset returns the absolute offset of the next packet.
func (d *Demuxer) Offset() int64 {
	return d.cursor
}

// EOF reports whether the end of the stream was reached.
func (d *Demuxer) EOF() bool {
	return d.state == stateEOF
}

// DataRange returns the absolute [start, end) offsets of the data chunk
// payload as declared in its header.
func (d *Demuxer) DataRange() (int64, int64) {
	if d.hdr == nil {
		return 0, 0
	}

	return int64(d.hdr.DataPos), int64(d.hdr.DataEnd)
}

// FactSamples returns the fact chunk sample count, 0 when absent.
func (d *Demuxer) FactSamples() uint32 {
	if d.hdr == nil {
		return 0
	}

	return d.hdr.FactSamples
}

func (d *Demuxer) fail(err error) error {
	d.state = stateFailed
	d.err = fmt.Errorf("%w: %w", ErrInvalidContainer, err)

	return d.err
}

// pts converts the position in the data chunk into sample rate units.
func (d *Demuxer) pts() *int64 {
	f := d.hdr.Format
	if f.AvgBytesPerSec == 0 {
		return nil
	}

	pts := (d.cursor - int64(d.hdr.DataPos)) * int64(f.SampleRate) / int64(f.AvgBytesPerSec)

	return &pts
}

// pcmBlockSize shifts block aligns wider than 8 bits right until only their
// 8 most significant bits remain. Smaller values are kept as is.
func pcmBlockSize(blockAlign uint16) int {
	shift := 8 - bits.LeadingZeros16(blockAlign)
	if shift <= 0 {
		return int(blockAlign)
	}

	return int(blockAlign >> shift)
}

func newStream(h *header) *Stream {
	f := h.Format

	return &Stream{
		Index:      0,
		CodecName:  f.CodecName(),
		SampleRate: int(f.SampleRate),
		ChannelMap: channelMap(f),
		Format:     sampleFormat(f),
		ExtraData:  append([]byte(nil), f.ExtraData...),
		Duration:   h.Duration,
		Timebase:   int64(f.SampleRate),
		Fmt:        f.Clone(),
	}
}

func channelMap(f *FmtChunk) []ChannelPosition {
	if f.Extensible != nil && f.Extensible.ChannelMask != 0 {
		return channelMapFromMask(f.Extensible.ChannelMask, int(f.NumChannels))
	}

	return DefaultChannelMap(int(f.NumChannels))
}

// sampleFormat derives the packet sample layout. 8-bit PCM is the only
// unsigned integer layout.
func sampleFormat(f *FmtChunk) SampleFormat {
	depth := uint8(f.BitsPerSample)

	switch {
	case !f.IsPCM():
		return SampleFormat{Bits: depth, Packed: true, Signed: true}
	case f.IsFloat():
		return SampleFormat{Bits: depth, Float: true}
	case f.BitsPerSample == 8:
		return SampleFormat{Bits: depth}
	default:
		return SampleFormat{Bits: depth, Signed: true}
	}
}
