package wav

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
)

const (
	// fmtFixedSize covers format tag, channels, rate, byte rate and block align.
	fmtFixedSize = 14
	// WAVEFORMAT: the fixed fields plus bits per sample.
	fmtWaveFormatSize = 16
	// WAVEFORMATEX: WAVEFORMAT plus the u16 extradata length.
	fmtWaveFormatExSize = 18
	// extensibleSize is the WAVE_FORMAT_EXTENSIBLE payload inside the extradata.
	extensibleSize = 22

	// MaxExtraDataSize is the first extradata length that can't be stored
	// behind the u16 length prefix.
	MaxExtraDataSize = 1 << 16

	defaultBitsPerSample = 8
)

var ksSubFormatGUIDTail = [12]byte{0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// FmtChunk is the format descriptor stored in (or written to) the fmt chunk.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	// ExtraData is nil when the chunk has no WAVEFORMATEX extension and
	// non-nil (possibly empty) when it does.
	ExtraData []byte
	// Extensible is decoded from ExtraData for WAVE_FORMAT_EXTENSIBLE.
	Extensible *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// Clone returns a deep copy. A present but empty ExtraData stays non-nil.
func (f *FmtChunk) Clone() *FmtChunk {
	if f == nil {
		return nil
	}

	out := *f

	if f.ExtraData != nil {
		out.ExtraData = append(make([]byte, 0, len(f.ExtraData)), f.ExtraData...)
	}

	if f.Extensible != nil {
		ext := *f.Extensible
		out.Extensible = &ext
	}

	return &out
}

// EffectiveFormatTag returns the sub-format tag for extensible formats and
// FormatTag otherwise.
func (f *FmtChunk) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extensible != nil {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

// CodecName resolves the codec through EffectiveFormatTag.
func (f *FmtChunk) CodecName() string {
	return CodecName(f.EffectiveFormatTag())
}

// IsPCM reports whether the codec resolves to integer or float PCM.
func (f *FmtChunk) IsPCM() bool {
	return f.CodecName() == CodecPCM
}

// IsFloat reports whether the samples are IEEE float PCM.
func (f *FmtChunk) IsFloat() bool {
	return f.EffectiveFormatTag() == wavFormatIEEEFloat
}

// String implements the Stringer interface.
func (f *FmtChunk) String() string {
	return fmt.Sprintf("%s, %d ch, %d Hz, %d bits, %d avg bytes/sec, block align %d",
		FormatTagString(f.EffectiveFormatTag()), f.NumChannels, f.SampleRate,
		f.BitsPerSample, f.AvgBytesPerSec, f.BlockAlign)
}

func makeSubFormatGUID(formatTag uint16) [16]byte {
	var guid [16]byte
	binary.LittleEndian.PutUint32(guid[:4], uint32(formatTag))
	copy(guid[4:], ksSubFormatGUIDTail[:])

	return guid
}

// parseFmt reads the fmt chunk at the reader's cursor. The declared chunk
// size selects the layout; bytes the layout doesn't consume are skipped.
func parseFmt(r *chunkReader) (*FmtChunk, error) {
	hdr, err := r.chunkHeader()
	if err != nil {
		return nil, err
	}

	if hdr.ID != riff.FmtID {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrUnexpectedChunk, riff.FmtID, hdr.ID)
	}

	size := int(hdr.Size)
	if size < fmtFixedSize {
		return nil, fmt.Errorf("%w: fmt chunk of %d bytes", ErrTruncated, size)
	}

	if size == fmtWaveFormatSize+1 {
		return nil, fmt.Errorf("%w: fmt chunk of %d bytes can't hold the extension size", ErrTruncated, size)
	}

	f := &FmtChunk{}

	// the fixed fields are all present once the first 14 bytes are.
	if err := r.need(fmtFixedSize); err != nil {
		return nil, err
	}

	f.FormatTag, _ = r.u16()
	f.NumChannels, _ = r.u16()
	f.SampleRate, _ = r.u32()
	f.AvgBytesPerSec, _ = r.u32()
	f.BlockAlign, _ = r.u16()

	f.BitsPerSample = defaultBitsPerSample
	if size >= fmtWaveFormatSize {
		if f.BitsPerSample, err = r.u16(); err != nil {
			return nil, err
		}
	}

	if size >= fmtWaveFormatExSize {
		extraSize, err := r.u16()
		if err != nil {
			return nil, err
		}

		if fmtWaveFormatExSize+int(extraSize) > size {
			return nil, fmt.Errorf("%w: fmt extension of %d bytes in a %d byte chunk", ErrTruncated, extraSize, size)
		}

		extra, err := r.take(int(extraSize))
		if err != nil {
			return nil, err
		}

		f.ExtraData = append(make([]byte, 0, len(extra)), extra...)
	}

	if err := r.skip(hdr.Offset + size - r.off); err != nil {
		return nil, err
	}

	if f.FormatTag == wavFormatExtensible && len(f.ExtraData) >= extensibleSize {
		ext := &FmtExtensible{
			ValidBitsPerSample: binary.LittleEndian.Uint16(f.ExtraData[0:2]),
			ChannelMask:        binary.LittleEndian.Uint32(f.ExtraData[2:6]),
		}
		copy(ext.SubFormat[:], f.ExtraData[6:22])
		f.Extensible = ext
	}

	return f, nil
}

// encodeFmt serializes f as a complete fmt chunk (header included). The
// extension is emitted iff ExtraData is non-nil.
func encodeFmt(f *FmtChunk) []byte {
	size := fmtWaveFormatSize
	if f.ExtraData != nil {
		size = fmtWaveFormatExSize + len(f.ExtraData)
	}

	buf := make([]byte, 0, chunkHeaderSize+size)
	buf = append(buf, riff.FmtID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(size))
	buf = binary.LittleEndian.AppendUint16(buf, f.FormatTag)
	buf = binary.LittleEndian.AppendUint16(buf, f.NumChannels)
	buf = binary.LittleEndian.AppendUint32(buf, f.SampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, f.AvgBytesPerSec)
	buf = binary.LittleEndian.AppendUint16(buf, f.BlockAlign)
	buf = binary.LittleEndian.AppendUint16(buf, f.BitsPerSample)

	if f.ExtraData != nil {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(f.ExtraData)))
		buf = append(buf, f.ExtraData...)
	}

	return buf
}

// NewExtensibleFmt builds a WAVE_FORMAT_EXTENSIBLE descriptor whose
// sub-format is subFormatTag.
func NewExtensibleFmt(subFormatTag, numChans uint16, sampleRate uint32, bitDepth uint16, channelMask uint32) *FmtChunk {
	blockAlign := numChans * uint16(bytesPerSample(int(bitDepth)))

	ext := &FmtExtensible{
		ValidBitsPerSample: bitDepth,
		ChannelMask:        channelMask,
		SubFormat:          makeSubFormatGUID(subFormatTag),
	}

	extra := make([]byte, 0, extensibleSize)
	extra = binary.LittleEndian.AppendUint16(extra, ext.ValidBitsPerSample)
	extra = binary.LittleEndian.AppendUint32(extra, ext.ChannelMask)
	extra = append(extra, ext.SubFormat[:]...)

	return &FmtChunk{
		FormatTag:      wavFormatExtensible,
		NumChannels:    numChans,
		SampleRate:     sampleRate,
		AvgBytesPerSec: sampleRate * uint32(blockAlign),
		BlockAlign:     blockAlign,
		BitsPerSample:  bitDepth,
		ExtraData:      extra,
		Extensible:     ext,
	}
}

func bytesPerSample(bitDepth int) int {
	return (bitDepth-1)/8 + 1
}
