package wav

import (
	"fmt"
	"time"

	"github.com/go-audio/audio"
)

// StreamReader is the demuxing side of a container format.
type StreamReader interface {
	// Probe scores how likely data is a container of this format.
	Probe(data []byte) int
	// ReadHeaders parses the window starting at offset 0 and returns the
	// stream descriptor and the absolute offset of the first packet.
	ReadHeaders(window []byte) (*Stream, int64, error)
	// ReadPacket reads one packet from a window starting at the offset the
	// previous call returned. It returns io.EOF at the end of the stream.
	ReadPacket(window []byte) (*Packet, int64, error)
}

// StreamWriter is the muxing side of a container format.
type StreamWriter interface {
	WriteHeader() error
	WritePacket(pkt *Packet) error
	WriteTrailer() error
}

// SampleFormat describes how a sample is laid out in a packet.
type SampleFormat struct {
	Bits      uint8
	BigEndian bool
	// Packed marks codec-defined (opaque) sample data.
	Packed bool
	Planar bool
	Float  bool
	Signed bool
}

// String implements the Stringer interface.
func (s SampleFormat) String() string {
	switch {
	case s.Packed:
		return fmt.Sprintf("%d-bit packed", s.Bits)
	case s.Float:
		return fmt.Sprintf("%d-bit float", s.Bits)
	case s.Signed:
		return fmt.Sprintf("%d-bit signed little-endian", s.Bits)
	default:
		return fmt.Sprintf("%d-bit unsigned", s.Bits)
	}
}

// ChannelPosition is a speaker position in a channel map.
type ChannelPosition uint8

// Channel positions, in WAVE_FORMAT_EXTENSIBLE mask order.
const (
	ChannelFrontLeft ChannelPosition = iota
	ChannelFrontRight
	ChannelFrontCenter
	ChannelLowFrequency
	ChannelBackLeft
	ChannelBackRight
	ChannelFrontLeftOfCenter
	ChannelFrontRightOfCenter
	ChannelBackCenter
	ChannelSideLeft
	ChannelSideRight
	ChannelUnknown
)

var defaultChannelMaps = map[int][]ChannelPosition{
	1: {ChannelFrontCenter},
	2: {ChannelFrontLeft, ChannelFrontRight},
	3: {ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter},
	4: {ChannelFrontLeft, ChannelFrontRight, ChannelBackLeft, ChannelBackRight},
	5: {ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelBackLeft, ChannelBackRight},
	6: {ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelLowFrequency, ChannelBackLeft, ChannelBackRight},
}

// DefaultChannelMap returns the conventional layout for n channels. Counts
// without a convention map every channel to ChannelUnknown.
func DefaultChannelMap(n int) []ChannelPosition {
	if m, ok := defaultChannelMaps[n]; ok {
		return append([]ChannelPosition(nil), m...)
	}

	out := make([]ChannelPosition, n)
	for i := range out {
		out[i] = ChannelUnknown
	}

	return out
}

// channelMapFromMask expands a WAVE_FORMAT_EXTENSIBLE speaker mask. Bits
// beyond the known positions and channels the mask doesn't cover map to
// ChannelUnknown.
func channelMapFromMask(mask uint32, n int) []ChannelPosition {
	out := make([]ChannelPosition, 0, n)

	for bit := ChannelPosition(0); bit < ChannelUnknown && len(out) < n; bit++ {
		if mask&(1<<bit) != 0 {
			out = append(out, bit)
		}
	}

	for len(out) < n {
		out = append(out, ChannelUnknown)
	}

	return out
}

// Stream is the descriptor of the single elementary stream of a WAV file.
type Stream struct {
	Index      int
	CodecName  string
	SampleRate int
	ChannelMap []ChannelPosition
	Format     SampleFormat
	ExtraData  []byte
	// Duration is in milliseconds, 0 when unknown.
	Duration uint64
	// Timebase is the packet timestamp unit: 1/Timebase seconds.
	Timebase int64
	// Fmt is a copy of the parsed format descriptor.
	Fmt *FmtChunk
}

// NumChannels returns the number of channels of the stream.
func (s *Stream) NumChannels() int {
	return len(s.ChannelMap)
}

// AudioFormat returns the go-audio format of the stream.
func (s *Stream) AudioFormat() *audio.Format {
	if s == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: s.NumChannels(),
		SampleRate:  s.SampleRate,
	}
}

// DurationTime returns Duration as a time.Duration.
func (s *Stream) DurationTime() time.Duration {
	return time.Duration(s.Duration) * time.Millisecond
}

// String implements the Stringer interface.
func (s *Stream) String() string {
	return fmt.Sprintf("%s, %d Hz @ %s, %d channel(s), duration: %s",
		s.CodecName, s.SampleRate, s.Format, s.NumChannels(), s.DurationTime())
}

// Packet is one block of the stream's payload.
type Packet struct {
	Data []byte
	// PTS is in stream timebase units, nil when it can't be derived.
	PTS         *int64
	StreamIndex int
	// Pos is the absolute offset of Data in the container.
	Pos int64
}
