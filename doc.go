// Package wav demuxes and muxes the WAV container without decoding audio.
//
// The Demuxer works on in-memory windows supplied by the caller: it parses
// the RIFF/WAVE prologue, the fmt chunk (WAVEFORMAT, WAVEFORMATEX and
// WAVE_FORMAT_EXTENSIBLE layouts) and the chunks leading to data, then cuts
// the data chunk into fixed-size packets. When a window is too short it
// returns a *NeedMoreDataError instead of blocking.
//
// The Muxer writes the inverse: header, fmt chunk and a data chunk whose
// sizes are patched once the last packet is written.
//
// Reader and Remux wire both sides to io.ReadSeeker / io.WriteSeeker:
//
//   - NewReader(r).ReadHeaders() / ReadPacket()
//   - NewMuxer(w, fmt).WriteHeader() / WritePacket() / WriteTrailer()
//   - Remux(dst, src, opts...)
package wav
