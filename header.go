package wav

import (
	"bytes"
	"fmt"

	"github.com/go-audio/riff"
)

const (
	prologueSize = 12
	factSize     = 4
	// unboundedDataSize is the placeholder streaming writers leave in the data
	// chunk size until they can patch it.
	unboundedDataSize = 0xFFFFFFFF
)

// prologue is the RIFF/WAVE header. Size is informational only.
type prologue struct {
	Size uint32
}

// header is everything the parser learns before the first sample.
type header struct {
	Prologue prologue
	Format   *FmtChunk
	// FactSamples is the fact chunk sample count, 0 when absent.
	FactSamples uint32
	// DataPos and DataEnd delimit the sample region in absolute offsets.
	DataPos int
	DataEnd int
	// DataSize is the declared size of the data chunk.
	DataSize uint32
	// Duration in milliseconds, 0 when unknown.
	Duration uint64
	Metadata *Metadata
	// RawChunks are the non-core chunks met before data.
	RawChunks []RawChunk
}

func parsePrologue(r *chunkReader) (prologue, error) {
	var p prologue

	if err := r.need(prologueSize); err != nil {
		return p, err
	}

	parser := riff.New(bytes.NewReader(r.buf[r.off : r.off+prologueSize]))
	if err := parser.ParseHeaders(); err != nil {
		// ParseHeaders flattens its bad ID error into a string.
		if parser.ID != riff.RiffID {
			return p, fmt.Errorf("%w: bad magic %q", ErrMalformed, parser.ID)
		}

		return p, r.needOn(err, prologueSize)
	}

	if parser.Format != riff.WavFormatID {
		return p, fmt.Errorf("%w: bad form type %q", ErrMalformed, parser.Format)
	}

	r.off += prologueSize
	p.Size = parser.Size

	return p, nil
}

// parseHeader runs prologue, fmt and the chunk scan over buf, which must
// start at offset 0 of the container. It stops right after the data chunk
// header and never looks at what follows it.
func parseHeader(buf []byte, registry *ChunkRegistry) (*header, error) {
	r := newChunkReader(buf)

	p, err := parsePrologue(r)
	if err != nil {
		return nil, err
	}

	format, err := parseFmt(r)
	if err != nil {
		return nil, err
	}

	h := &header{Prologue: p}
	h.Format = analyzeFmt(format)

	for order := 0; ; order++ {
		chunk, err := r.chunkHeader()
		if err != nil {
			return nil, err
		}

		switch chunk.ID {
		case CIDFact:
			if chunk.Size != factSize {
				return nil, fmt.Errorf("%w: fact chunk of %d bytes", ErrMalformed, chunk.Size)
			}

			if h.FactSamples, err = r.u32(); err != nil {
				return nil, err
			}
		case riff.DataFormatID:
			h.DataPos = chunk.Offset
			h.DataSize = chunk.Size
			h.DataEnd = chunk.Offset + int(chunk.Size)
			h.Duration = h.duration()

			return h, nil
		default:
			payload, err := r.take(int(chunk.Size))
			if err != nil {
				return nil, err
			}

			raw := RawChunk{
				ID:         chunk.ID,
				Size:       chunk.Size,
				Data:       append([]byte(nil), payload...),
				Order:      order,
				BeforeData: true,
			}

			handled, err := registry.decode(h, raw)
			if err != nil {
				return nil, err
			}

			if !handled {
				h.RawChunks = append(h.RawChunks, raw)
			}
		}
	}
}

// analyzeFmt applies the PCM byte rate backfill.
func analyzeFmt(f *FmtChunk) *FmtChunk {
	if f.IsPCM() && f.AvgBytesPerSec == 0 {
		f.AvgBytesPerSec = uint32(f.BlockAlign) * f.SampleRate
	}

	return f
}

// duration prefers the fact sample count and falls back on the byte rate.
func (h *header) duration() uint64 {
	switch {
	case h.FactSamples != 0:
		return millis(uint64(h.FactSamples), uint64(h.Format.SampleRate))
	case h.DataSize != unboundedDataSize:
		return millis(uint64(h.DataSize), uint64(h.Format.AvgBytesPerSec))
	default:
		return 0
	}
}
