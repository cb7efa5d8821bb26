package wav

import "testing"

func TestDemuxerChunkAPIs(t *testing.T) {
	format := NewExtensibleFmt(wavFormatPCM, 2, 48000, 16, 0x3)

	data := newWavBuilder().
		raw(encodeFmt(format)).
		chunk("JUNK", []byte{1, 2, 3, 4}).
		chunk("data", make([]byte, 8)).
		bytes()

	d := NewDemuxer()
	if _, _, err := d.ReadHeaders(data); err != nil {
		t.Fatal(err)
	}

	gotFmt := d.FormatChunk()
	if gotFmt == nil || gotFmt.Extensible == nil {
		t.Fatal("expected fmt chunk copy")
	}

	gotFmt.Extensible.ChannelMask = 0x4
	if d.FormatChunk().Extensible.ChannelMask != 0x3 {
		t.Fatal("format chunk copy should not mutate demuxer")
	}

	raw := d.RawChunks()
	if len(raw) != 1 {
		t.Fatalf("expected 1 raw chunk, got %d", len(raw))
	}

	raw[0].Data[0] = 9
	if d.RawChunks()[0].Data[0] != 1 {
		t.Fatal("raw chunks should be copied")
	}
}

func TestMuxerChunkAPIs(t *testing.T) {
	m := NewMuxer(&writeSeeker{}, NewExtensibleFmt(wavFormatPCM, 2, 48000, 16, 0x3))

	gotFmt := m.FormatChunk()
	if gotFmt == nil {
		t.Fatal("expected fmt chunk copy")
	}

	if gotFmt.FormatTag != wavFormatExtensible || gotFmt.Extensible == nil || gotFmt.AvgBytesPerSec != 192000 {
		t.Fatalf("FormatChunk() should describe the written chunk, got %s", gotFmt)
	}

	gotFmt.ExtraData[0] = 0xFF
	if m.FormatChunk().ExtraData[0] == 0xFF {
		t.Fatal("format chunk copy should not mutate muxer")
	}

	m.SetRawChunks([]RawChunk{{ID: [4]byte{'x', 't', 'r', 'a'}, Data: []byte{7, 8}}})

	if len(m.RawChunks) != 1 || m.RawChunks[0].ID != [4]byte{'x', 't', 'r', 'a'} {
		t.Fatalf("set raw chunks failed: %+v", m.RawChunks)
	}

	in := []RawChunk{{ID: [4]byte{'t', 'e', 's', 't'}, Data: []byte{4, 5, 6}}}
	m.SetRawChunks(in)

	in[0].Data[0] = 0
	if m.RawChunks[0].Data[0] != 4 {
		t.Fatal("SetRawChunks should copy input")
	}

	m.SetRawChunks(nil)

	if m.RawChunks != nil {
		t.Fatal("SetRawChunks(nil) should clear the chunks")
	}
}

func TestMuxerFromDemuxer(t *testing.T) {
	d := NewDemuxer()
	if _, _, err := d.ReadHeaders(scenarioWav()); err != nil {
		t.Fatal(err)
	}

	ws := &writeSeeker{}
	m := NewMuxerFromDemuxer(ws, d)

	if got := m.FormatChunk(); got.SampleRate != 8000 || got.BitsPerSample != 8 {
		t.Fatalf("unexpected format %s", got)
	}
}
