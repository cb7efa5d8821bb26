package wav

import (
	"errors"
	"fmt"
	"io"
)

// RemuxOption configures the muxer of a Remux call once the source headers
// are known.
type RemuxOption func(m *Muxer, r *Reader)

// WithPreservedChunks carries the source's LIST/INFO metadata and unknown
// pre-data chunks over to the output.
func WithPreservedChunks() RemuxOption {
	return func(m *Muxer, r *Reader) {
		m.Metadata = r.Metadata()
		m.SetRawChunks(r.RawChunks())
	}
}

// WithMetadata writes md as the output LIST/INFO chunk.
func WithMetadata(md *Metadata) RemuxOption {
	return func(m *Muxer, _ *Reader) {
		m.Metadata = md
	}
}

// WithOddPadding makes the output word aligned, see Muxer.PadOddData.
func WithOddPadding() RemuxOption {
	return func(m *Muxer, _ *Reader) {
		m.PadOddData = true
	}
}

// Remux copies every packet of src into a new WAV container written to dst
// and returns the number of packets copied.
func Remux(dst io.WriteSeeker, src io.ReadSeeker, opts ...RemuxOption) (int, error) {
	r := NewReader(src)

	if _, err := r.ReadHeaders(); err != nil {
		return 0, fmt.Errorf("failed to read headers: %w", err)
	}

	m := NewMuxerFromDemuxer(dst, r.Demuxer())
	for _, opt := range opts {
		opt(m, r)
	}

	if err := m.WriteHeader(); err != nil {
		return 0, err
	}

	count := 0

	for {
		pkt, err := r.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return count, fmt.Errorf("failed to read packet %d: %w", count, err)
		}

		if err := m.WritePacket(pkt); err != nil {
			return count, err
		}

		count++
	}

	return count, m.WriteTrailer()
}
