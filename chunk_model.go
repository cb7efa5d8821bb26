package wav

import (
	"fmt"
	"io"
)

// RawChunk stores a non-core RIFF/WAV chunk for round-trip preservation.
type RawChunk struct {
	ID [4]byte
	// Size mirrors len(Data) for preserved chunks.
	Size uint32
	Data []byte
	// Order is the index of the chunk among those following fmt.
	Order int
	// BeforeData indicates if this chunk appeared before the data chunk.
	BeforeData bool
}

func (c RawChunk) Clone() RawChunk {
	out := c
	out.Data = append([]byte(nil), c.Data...)

	return out
}

// WriteTo writes the chunk header and payload, plus the RIFF pad byte for
// odd sizes.
func (c RawChunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(appendChunk(nil, c, true))
	if err != nil {
		return int64(n), fmt.Errorf("failed to write raw chunk %q: %w", c.ID, err)
	}

	return int64(n), nil
}

func cloneRawChunks(chunks []RawChunk) []RawChunk {
	if len(chunks) == 0 {
		return nil
	}

	out := make([]RawChunk, len(chunks))
	for i := range chunks {
		out[i] = chunks[i].Clone()
	}

	return out
}
