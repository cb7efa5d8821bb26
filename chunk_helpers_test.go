package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

type chunkInventoryEntry struct {
	id   string
	size uint32
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
	}

	return chunks, nil
}

func parseWavChunksFromFile(path string) ([]testChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parseWavChunks(data)
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

func buildChunkInventory(chunks []testChunk) []chunkInventoryEntry {
	out := make([]chunkInventoryEntry, 0, len(chunks))
	for _, ch := range chunks {
		out = append(out, chunkInventoryEntry{id: ch.id, size: ch.size})
	}

	return out
}

func le16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// fmtBody returns a 16 byte WAVEFORMAT payload.
func fmtBody(tag, chans uint16, rate, avg uint32, align, bits uint16) []byte {
	var b []byte
	b = append(b, le16(tag)...)
	b = append(b, le16(chans)...)
	b = append(b, le32(rate)...)
	b = append(b, le32(avg)...)
	b = append(b, le16(align)...)
	b = append(b, le16(bits)...)

	return b
}

// wavBuilder assembles containers chunk by chunk. Chunks are written with
// exactly the declared size, no word alignment.
type wavBuilder struct {
	buf bytes.Buffer
}

func newWavBuilder() *wavBuilder {
	b := &wavBuilder{}
	b.buf.WriteString("RIFF")
	b.buf.Write(le32(0))
	b.buf.WriteString("WAVE")

	return b
}

func (b *wavBuilder) chunk(id string, payload []byte) *wavBuilder {
	return b.chunkWithSize(id, uint32(len(payload)), payload)
}

func (b *wavBuilder) chunkWithSize(id string, size uint32, payload []byte) *wavBuilder {
	b.buf.WriteString(id)
	b.buf.Write(le32(size))
	b.buf.Write(payload)

	return b
}

func (b *wavBuilder) raw(p []byte) *wavBuilder {
	b.buf.Write(p)

	return b
}

func (b *wavBuilder) bytes() []byte {
	out := append([]byte(nil), b.buf.Bytes()...)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))

	return out
}

// makeWav builds a fmt + data container.
func makeWav(fmtPayload, data []byte) []byte {
	return newWavBuilder().chunk("fmt ", fmtPayload).chunk("data", data).bytes()
}

// scenarioWav is the 8-bit mono 8 kHz container with 4 sample bytes.
func scenarioWav() []byte {
	return makeWav(fmtBody(1, 1, 8000, 8000, 1, 8), []byte{0x01, 0x02, 0x03, 0x04})
}

// writeSeeker is an in-memory io.WriteSeeker.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}

	n := copy(w.buf[w.pos:], p)
	w.pos += n

	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64

	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}

	if abs < 0 {
		return 0, errors.New("negative position")
	}

	w.pos = int(abs)

	return abs, nil
}

// demuxAll runs a demuxer over the whole container.
func demuxAll(t *testing.T, data []byte) (*Stream, []*Packet) {
	t.Helper()

	dmx := NewDemuxer()

	stream, off, err := dmx.ReadHeaders(data)
	if err != nil {
		t.Fatalf("read headers: %v", err)
	}

	var packets []*Packet

	for {
		if off > int64(len(data)) {
			t.Fatalf("offset %d past the container (%d bytes)", off, len(data))
		}

		pkt, next, err := dmx.ReadPacket(data[off:])
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			t.Fatalf("read packet %d: %v", len(packets), err)
		}

		packets = append(packets, pkt)
		off = next
	}

	return stream, packets
}

// muxAll writes the packets with a fresh muxer and returns the container.
func muxAll(t *testing.T, format *FmtChunk, packets []*Packet) []byte {
	t.Helper()

	ws := &writeSeeker{}
	m := NewMuxer(ws, format)

	if err := m.WriteHeader(); err != nil {
		t.Fatalf("write header: %v", err)
	}

	for i, pkt := range packets {
		if err := m.WritePacket(pkt); err != nil {
			t.Fatalf("write packet %d: %v", i, err)
		}
	}

	if err := m.WriteTrailer(); err != nil {
		t.Fatalf("write trailer: %v", err)
	}

	return ws.buf
}
