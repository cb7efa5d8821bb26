package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

// riffSizePos is the offset of the RIFF size field from the container start.
const riffSizePos = 4

var _ StreamWriter = (*Muxer)(nil)

// Muxer writes packets into a WAV container. Size fields are written as
// zero placeholders by WriteHeader and patched by WriteTrailer, which is why
// the destination must be seekable.
type Muxer struct {
	w      io.WriteSeeker
	format *FmtChunk
	chunks *ChunkRegistry

	// Metadata, when set, is written as a LIST/INFO chunk between the fmt
	// and data chunks.
	Metadata *Metadata
	// RawChunks marked BeforeData are written between the fmt and data
	// chunks, in order.
	RawChunks []RawChunk
	// PadOddData appends the RIFF word alignment byte after odd sized
	// chunks, data included. Without it chunks are framed by their exact
	// size, which is how the Demuxer reads them.
	PadOddData bool

	// WrittenBytes counts the bytes written since WriteHeader, trailer
	// patches excluded.
	WrittenBytes int64

	base         int64
	dataPos      int64
	dataLen      int64
	wroteHeader  bool
	wroteTrailer bool
	padded       bool
}

// NewMuxer creates a muxer writing format to w. The format is copied.
func NewMuxer(w io.WriteSeeker, format *FmtChunk) *Muxer {
	return &Muxer{
		w:      w,
		format: format.Clone(),
		chunks: NewChunkRegistry(),
	}
}

// NewMuxerFromDemuxer creates a muxer reusing the format parsed by dec.
func NewMuxerFromDemuxer(w io.WriteSeeker, dec *Demuxer) *Muxer {
	return NewMuxer(w, dec.FormatChunk())
}

// WriteHeader writes the RIFF prologue, the fmt chunk and the data chunk
// header. Nothing is written when the configuration is rejected.
func (m *Muxer) WriteHeader() error {
	if m.wroteHeader {
		return errAlreadyWroteHdr
	}

	if m.w == nil {
		return errNilWriter
	}

	if m.format == nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, errNilFormat)
	}

	if len(m.format.ExtraData) >= MaxExtraDataSize {
		return fmt.Errorf("%w: %d bytes of extradata", ErrInvalidConfiguration, len(m.format.ExtraData))
	}

	extra, err := m.extraChunks()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	base, err := m.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to get the start position: %w", err)
	}

	buf := make([]byte, 0, prologueSize+chunkHeaderSize+fmtWaveFormatExSize+len(m.format.ExtraData)+chunkHeaderSize)
	// sizes are placeholders until WriteTrailer.
	buf = append(buf, riff.RiffID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	buf = append(buf, riff.WavFormatID[:]...)
	buf = append(buf, encodeFmt(outputFmt(m.format))...)

	for _, chunk := range extra {
		buf = appendChunk(buf, chunk, m.PadOddData)
	}

	buf = append(buf, riff.DataFormatID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, 0)

	m.wroteHeader = true
	m.base = base

	if err := m.write(buf); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	m.dataPos = m.base + m.WrittenBytes

	return nil
}

// WritePacket appends the packet payload to the data chunk, verbatim.
func (m *Muxer) WritePacket(pkt *Packet) error {
	if !m.wroteHeader {
		return errHeaderNotWrote
	}

	if pkt == nil {
		return errNilPacket
	}

	if m.padded {
		return errDataClosed
	}

	if err := m.write(pkt.Data); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}

	m.dataLen += int64(len(pkt.Data))

	return nil
}

// WriteTrailer patches the data chunk size and the RIFF size, then leaves
// the writer at the end of the stream. It can be called more than once.
func (m *Muxer) WriteTrailer() error {
	if !m.wroteHeader {
		return errHeaderNotWrote
	}

	if m.PadOddData && m.dataLen%2 == 1 && !m.padded {
		if err := m.write([]byte{0}); err != nil {
			return fmt.Errorf("failed to write the data padding byte: %w", err)
		}

		m.padded = true
	}

	if err := m.patchSize(m.dataPos-4, uint32(m.dataLen)); err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	if err := m.patchSize(m.base+riffSizePos, uint32(m.WrittenBytes-8)); err != nil {
		return fmt.Errorf("%w when writing the total written bytes", err)
	}

	// jump back to the end of the file.
	if _, err := m.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of file: %w", err)
	}

	m.wroteTrailer = true

	return nil
}

// Close writes the trailer if needed and syncs files to disk. The
// underlying writer is NOT closed.
func (m *Muxer) Close() error {
	if m == nil || m.w == nil || !m.wroteHeader {
		return nil
	}

	if !m.wroteTrailer {
		if err := m.WriteTrailer(); err != nil {
			return err
		}
	}

	if f, ok := m.w.(*os.File); ok {
		return f.Sync()
	}

	return nil
}

func (m *Muxer) write(b []byte) error {
	n, err := m.w.Write(b)
	m.WrittenBytes += int64(n)

	return err
}

func (m *Muxer) patchSize(pos int64, size uint32) error {
	if _, err := m.w.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to size position %d: %w", pos, err)
	}

	if err := binary.Write(m.w, binary.LittleEndian, size); err != nil {
		return fmt.Errorf("failed to write size: %w", err)
	}

	return nil
}

// extraChunks returns the optional chunks written before data: the raw
// chunks first, then the metadata encoded by the registry.
func (m *Muxer) extraChunks() ([]RawChunk, error) {
	var out []RawChunk

	for _, chunk := range m.RawChunks {
		if chunk.BeforeData {
			out = append(out, chunk)
		}
	}

	if m.Metadata == nil {
		return out, nil
	}

	if m.chunks == nil {
		m.chunks = NewChunkRegistry()
	}

	encoded, err := m.chunks.encode(m.Metadata)
	if err != nil {
		return nil, err
	}

	return append(out, encoded...), nil
}

// outputFmt returns the fmt chunk as written: PCM is stored as integer PCM
// unless the source was IEEE float or extensible, with a byte rate
// recomputed from the sample layout. Other codecs keep their tag and get a
// zero byte rate.
func outputFmt(src *FmtChunk) *FmtChunk {
	out := src.Clone()

	if !src.IsPCM() {
		out.AvgBytesPerSec = 0

		return out
	}

	switch {
	case src.Extensible != nil:
		// the channel mask and sub-format live in the extradata.
		out.FormatTag = wavFormatExtensible
	case src.IsFloat():
		out.FormatTag = wavFormatIEEEFloat
	default:
		out.FormatTag = wavFormatPCM
	}

	out.AvgBytesPerSec = uint32(src.NumChannels) * src.SampleRate * uint32(src.BitsPerSample) >> 3

	return out
}

func appendChunk(buf []byte, chunk RawChunk, pad bool) []byte {
	buf = append(buf, chunk.ID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(chunk.Data)))
	buf = append(buf, chunk.Data...)

	if pad && len(chunk.Data)%2 == 1 {
		buf = append(buf, 0)
	}

	return buf
}
