package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/riff"
)

// CIDFact is the chunk ID for the fact chunk.
var CIDFact = [4]byte{'f', 'a', 'c', 't'}

// chunkHeaderSize is the size of a tag + LE u32 length pair.
const chunkHeaderSize = 8

// chunkHeader is a generic RIFF chunk header. Offset is the absolute
// position of the first payload byte.
type chunkHeader struct {
	ID     [4]byte
	Size   uint32
	Offset int
}

// chunkReader extracts little endian fields from an in-memory window.
// Every read is bounds-checked: running past the window returns a
// *NeedMoreDataError sized to the total window length that read needs.
type chunkReader struct {
	buf []byte
	off int
}

func newChunkReader(buf []byte) *chunkReader {
	return &chunkReader{buf: buf}
}

func (r *chunkReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *chunkReader) need(n int) error {
	if n < 0 || r.remaining() < n {
		return needMoreData(r.off + n)
	}

	return nil
}

func (r *chunkReader) take(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}

	b := r.buf[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *chunkReader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (r *chunkReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// skip moves the cursor forward by exactly n bytes, which must be present.
func (r *chunkReader) skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}

	r.off += n

	return nil
}

// chunkHeader reads a 4 byte tag followed by its LE u32 size.
func (r *chunkReader) chunkHeader() (chunkHeader, error) {
	if err := r.need(chunkHeaderSize); err != nil {
		return chunkHeader{}, err
	}

	// IDnSize drops the error of the size read, hence the need above.
	id, size, err := riff.New(bytes.NewReader(r.buf[r.off : r.off+chunkHeaderSize])).IDnSize()
	if err != nil {
		return chunkHeader{}, r.needOn(err, chunkHeaderSize)
	}

	r.off += chunkHeaderSize

	return chunkHeader{ID: id, Size: size, Offset: r.off}, nil
}

// needOn turns a short read over the window into a request for n more
// bytes past the cursor.
func (r *chunkReader) needOn(err error, n int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return needMoreData(r.off + n)
	}

	return err
}

// isTag reports whether the 4 bytes at off match id.
func isTag(buf []byte, off int, id [4]byte) bool {
	return len(buf) >= off+4 && [4]byte(buf[off:off+4]) == id
}

// Probe scores how likely data starts a WAV container: 0 for no match, 50
// for a RIFF/WAVE prologue and 100 when a fmt chunk header follows it.
func Probe(data []byte) int {
	if !isTag(data, 0, riff.RiffID) || !isTag(data, 8, riff.WavFormatID) {
		return 0
	}

	if isTag(data, 12, riff.FmtID) {
		return 100
	}

	return 50
}
