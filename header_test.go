package wav

import (
	"bytes"
	"errors"
	"testing"
)

func TestParsePrologue(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		wantErr error
	}{
		{"valid", []byte("RIFF\x24\x00\x00\x00WAVE"), nil},
		{"valid with trailing bytes", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), nil},
		{"RIFX", []byte("RIFX\x24\x00\x00\x00WAVE"), ErrMalformed},
		{"AVI form", []byte("RIFF\x24\x00\x00\x00AVI "), ErrMalformed},
		{"short", []byte("RIFF\x24\x00"), ErrNeedMoreData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newChunkReader(tt.in)

			p, err := parsePrologue(r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parsePrologue() error=%v, want %v", err, tt.wantErr)
			}

			if err == nil && (p.Size != 0x24 || r.off != prologueSize) {
				t.Fatalf("Size=%d cursor=%d, want 36 and 12", p.Size, r.off)
			}
		})
	}
}

func TestParseHeaderScenario(t *testing.T) {
	h, err := parseHeader(scenarioWav(), NewChunkRegistry())
	if err != nil {
		t.Fatal(err)
	}

	if h.DataPos != 44 || h.DataEnd != 48 || h.DataSize != 4 {
		t.Fatalf("data region [%d, %d) size %d", h.DataPos, h.DataEnd, h.DataSize)
	}

	// 4 bytes at 8000 bytes/s.
	if h.Duration != 0 {
		t.Fatalf("Duration=%d, want 0", h.Duration)
	}

	if h.Prologue.Size != 40 {
		t.Fatalf("Prologue.Size=%d, want 40", h.Prologue.Size)
	}
}

func TestParseHeaderNeedsMoreDataForEveryPrefix(t *testing.T) {
	full := scenarioWav()

	for n := 0; n < 44; n++ {
		_, err := parseHeader(full[:n], NewChunkRegistry())

		var more *NeedMoreDataError
		if !errors.As(err, &more) {
			t.Fatalf("prefix of %d bytes: got %v, want a NeedMoreDataError", n, err)
		}

		if more.Size <= n || more.Size > 44 {
			t.Fatalf("prefix of %d bytes asked for %d bytes", n, more.Size)
		}
	}

	if _, err := parseHeader(full[:44], NewChunkRegistry()); err != nil {
		t.Fatalf("a window ending at the data chunk header should be enough: %v", err)
	}
}

func TestParseHeaderDuration(t *testing.T) {
	pcm := fmtBody(1, 1, 8000, 8000, 1, 8)

	tests := []struct {
		name string
		in   []byte
		want uint64
	}{
		{
			name: "from the fact chunk",
			in: newWavBuilder().chunk("fmt ", pcm).chunk("fact", le32(4000)).
				chunk("data", make([]byte, 10)).bytes(),
			want: 500,
		},
		{
			name: "from the byte rate",
			in:   makeWav(pcm, make([]byte, 4000)),
			want: 500,
		},
		{
			name: "fact wins over the byte rate",
			in: newWavBuilder().chunk("fmt ", pcm).chunk("fact", le32(16000)).
				chunk("data", make([]byte, 4000)).bytes(),
			want: 2000,
		},
		{
			name: "fact with a zero sample rate",
			in: newWavBuilder().chunk("fmt ", fmtBody(1, 1, 0, 0, 1, 8)).chunk("fact", le32(4000)).
				chunk("data", nil).bytes(),
			want: 0,
		},
		{
			name: "unknown byte rate",
			in:   makeWav(fmtBody(0x9999, 1, 8000, 0, 1, 8), make([]byte, 4000)),
			want: 0,
		},
		{
			name: "unbounded data chunk",
			in:   newWavBuilder().chunk("fmt ", pcm).chunkWithSize("data", unboundedDataSize, nil).bytes(),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := parseHeader(tt.in, NewChunkRegistry())
			if err != nil {
				t.Fatal(err)
			}

			if h.Duration != tt.want {
				t.Fatalf("Duration=%d, want %d", h.Duration, tt.want)
			}
		})
	}
}

func TestParseHeaderByteRateBackfill(t *testing.T) {
	tests := []struct {
		name string
		fmt  []byte
		want uint32
	}{
		{"pcm", fmtBody(1, 2, 4000, 0, 4, 16), 16000},
		{"float", fmtBody(3, 2, 4000, 0, 8, 32), 32000},
		{"declared rate is kept", fmtBody(1, 2, 4000, 1234, 4, 16), 1234},
		{"unknown codec", fmtBody(0x9999, 2, 4000, 0, 4, 16), 0},
		{"adpcm", fmtBody(0x11, 1, 22050, 0, 512, 4), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := parseHeader(makeWav(tt.fmt, nil), NewChunkRegistry())
			if err != nil {
				t.Fatal(err)
			}

			if h.Format.AvgBytesPerSec != tt.want {
				t.Fatalf("AvgBytesPerSec=%d, want %d", h.Format.AvgBytesPerSec, tt.want)
			}
		})
	}
}

func TestParseHeaderSkipsUnknownChunks(t *testing.T) {
	in := newWavBuilder().
		chunk("fmt ", fmtBody(1, 1, 8000, 8000, 1, 8)).
		chunk("JUNK", []byte{1, 2, 3}).
		chunk("cue ", []byte{4, 5, 6, 7}).
		chunk("data", []byte{9}).
		bytes()

	h, err := parseHeader(in, NewChunkRegistry())
	if err != nil {
		t.Fatal(err)
	}

	// 12 + 24 + 11 + 12 + 8
	if h.DataPos != 67 {
		t.Fatalf("DataPos=%d, want 67", h.DataPos)
	}

	if len(h.RawChunks) != 2 {
		t.Fatalf("got %d raw chunks, want 2", len(h.RawChunks))
	}

	junk := h.RawChunks[0]
	if string(junk.ID[:]) != "JUNK" || junk.Order != 0 || !junk.BeforeData || !bytes.Equal(junk.Data, []byte{1, 2, 3}) {
		t.Fatalf("unexpected first chunk %+v", junk)
	}

	if cue := h.RawChunks[1]; string(cue.ID[:]) != "cue " || cue.Order != 1 || cue.Size != 4 {
		t.Fatalf("unexpected second chunk %+v", cue)
	}

	if h.Metadata != nil {
		t.Fatalf("no LIST chunk, got metadata %+v", h.Metadata)
	}
}

func TestParseHeaderStopsAtData(t *testing.T) {
	// Whatever follows the data chunk header is never looked at.
	in := append(scenarioWav(), []byte("garbage that is not a chunk")...)

	h, err := parseHeader(in, NewChunkRegistry())
	if err != nil {
		t.Fatal(err)
	}

	if h.DataPos != 44 {
		t.Fatalf("DataPos=%d, want 44", h.DataPos)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	pcm := fmtBody(1, 1, 8000, 8000, 1, 8)

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{
			name: "bad magic",
			in:   append([]byte("RIFF\x00\x00\x00\x00WAVX"), scenarioWav()[12:]...),
			want: ErrMalformed,
		},
		{
			name: "data before fmt",
			in:   newWavBuilder().chunk("data", nil).chunk("fmt ", pcm).bytes(),
			want: ErrUnexpectedChunk,
		},
		{
			name: "fact chunk of 8 bytes",
			in: newWavBuilder().chunk("fmt ", pcm).chunk("fact", make([]byte, 8)).
				chunk("data", nil).bytes(),
			want: ErrMalformed,
		},
		{
			name: "truncated fmt",
			in:   newWavBuilder().chunk("fmt ", pcm[:12]).chunk("data", nil).bytes(),
			want: ErrTruncated,
		},
		{
			name: "no data chunk",
			in:   newWavBuilder().chunk("fmt ", pcm).chunk("JUNK", make([]byte, 6)).bytes(),
			want: ErrNeedMoreData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseHeader(tt.in, NewChunkRegistry())
			if !errors.Is(err, tt.want) {
				t.Fatalf("parseHeader() error=%v, want %v", err, tt.want)
			}
		})
	}
}
