package wav

// FormatChunk returns a copy of the parsed fmt chunk, if available.
func (d *Demuxer) FormatChunk() *FmtChunk {
	if d.hdr == nil {
		return nil
	}

	return d.hdr.Format.Clone()
}

// Metadata returns the LIST/INFO metadata found before the data chunk.
func (d *Demuxer) Metadata() *Metadata {
	if d.hdr == nil || d.hdr.Metadata == nil {
		return nil
	}

	md := *d.hdr.Metadata
	md.BroadcastExtension = md.BroadcastExtension.clone()

	return &md
}

// RawChunks returns a copy of the unhandled chunks found before data.
func (d *Demuxer) RawChunks() []RawChunk {
	if d.hdr == nil {
		return nil
	}

	return cloneRawChunks(d.hdr.RawChunks)
}

// FormatChunk returns a copy of the fmt chunk as it is (or will be)
// written.
func (m *Muxer) FormatChunk() *FmtChunk {
	if m.format == nil {
		return nil
	}

	return outputFmt(m.format)
}

// SetRawChunks replaces the preserved chunks with the provided set.
func (m *Muxer) SetRawChunks(chunks []RawChunk) {
	m.RawChunks = cloneRawChunks(chunks)
}
