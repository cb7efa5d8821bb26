package wav

import (
	"bytes"
	"encoding/binary"
	"strings"
)

const (
	bextDescriptionLen         = 256
	bextOriginatorLen          = 32
	bextOriginatorReferenceLen = 32
	bextOriginationDateLen     = 10
	bextOriginationTimeLen     = 8
	bextUMIDLen                = 64
	bextReservedLen            = 190
	// bextFixedLen is the size of the fields preceding the coding history.
	bextFixedLen = 602
)

// CIDBext is the chunk ID of the Broadcast Wave Format extension chunk.
var CIDBext = [4]byte{'b', 'e', 'x', 't'}

// BroadcastExtension is the content of a BWF bext chunk.
// See https://tech.ebu.ch/docs/tech/tech3285.pdf
type BroadcastExtension struct {
	Description         string
	Originator          string
	OriginatorReference string
	OriginationDate     string
	OriginationTime     string
	// TimeReference is the first sample count since midnight.
	TimeReference uint64
	Version       uint16
	UMID          [64]byte
	Reserved      []byte
	CodingHistory string
}

func (b *BroadcastExtension) clone() *BroadcastExtension {
	if b == nil {
		return nil
	}

	out := *b
	out.Reserved = append([]byte(nil), b.Reserved...)

	return &out
}

type bextChunkHandler struct{}

func (h *bextChunkHandler) CanHandle(chunkID [4]byte, _ [4]byte) bool {
	return chunkID == CIDBext
}

func (h *bextChunkHandler) Decode(md *Metadata, chunk RawChunk) error {
	md.BroadcastExtension = decodeBroadcastChunk(chunk.Data)

	return nil
}

func (h *bextChunkHandler) Encode(md *Metadata) (*RawChunk, error) {
	data := encodeBroadcastChunk(md.BroadcastExtension)
	if data == nil {
		return nil, nil
	}

	return &RawChunk{ID: CIDBext, Size: uint32(len(data)), Data: data, BeforeData: true}, nil
}

// decodeBroadcastChunk reads a bext payload. Short payloads decode as if
// zero filled.
func decodeBroadcastChunk(buf []byte) *BroadcastExtension {
	bext := &BroadcastExtension{}
	offset := 0

	take := func(n int) []byte {
		out := make([]byte, n)
		if offset < len(buf) {
			end := min(offset+n, len(buf))
			copy(out, buf[offset:end])
		}

		offset += n

		return out
	}

	readFixedString := func(n int) string {
		return strings.TrimRight(nullTermStr(take(n)), " ")
	}

	bext.Description = readFixedString(bextDescriptionLen)
	bext.Originator = readFixedString(bextOriginatorLen)
	bext.OriginatorReference = readFixedString(bextOriginatorReferenceLen)
	bext.OriginationDate = readFixedString(bextOriginationDateLen)
	bext.OriginationTime = readFixedString(bextOriginationTimeLen)

	timeRefLow := binary.LittleEndian.Uint32(take(4))
	timeRefHigh := binary.LittleEndian.Uint32(take(4))
	bext.TimeReference = uint64(timeRefHigh)<<32 | uint64(timeRefLow)
	bext.Version = binary.LittleEndian.Uint16(take(2))

	copy(bext.UMID[:], take(bextUMIDLen))
	bext.Reserved = take(bextReservedLen)

	if offset < len(buf) {
		bext.CodingHistory = string(bytes.TrimRight(buf[offset:], "\x00"))
	}

	return bext
}

func encodeBroadcastChunk(bext *BroadcastExtension) []byte {
	if bext == nil {
		return nil
	}

	payload := make([]byte, 0, bextFixedLen+len(bext.CodingHistory))
	appendFixed := func(b []byte, n int) {
		raw := make([]byte, n)
		copy(raw, b)
		payload = append(payload, raw...)
	}

	appendFixed([]byte(bext.Description), bextDescriptionLen)
	appendFixed([]byte(bext.Originator), bextOriginatorLen)
	appendFixed([]byte(bext.OriginatorReference), bextOriginatorReferenceLen)
	appendFixed([]byte(bext.OriginationDate), bextOriginationDateLen)
	appendFixed([]byte(bext.OriginationTime), bextOriginationTimeLen)

	payload = binary.LittleEndian.AppendUint32(payload, uint32(bext.TimeReference))
	payload = binary.LittleEndian.AppendUint32(payload, uint32(bext.TimeReference>>32))
	payload = binary.LittleEndian.AppendUint16(payload, bext.Version)
	payload = append(payload, bext.UMID[:]...)

	appendFixed(bext.Reserved, bextReservedLen)

	return append(payload, bext.CodingHistory...)
}
