package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// CIDInfo is the list type of an INFO LIST chunk.
	CIDInfo = [4]byte{'I', 'N', 'F', 'O'}

	// See http://bwfmetaedit.sourceforge.net/listinfo.html
	markerIART    = [4]byte{'I', 'A', 'R', 'T'}
	markerISFT    = [4]byte{'I', 'S', 'F', 'T'}
	markerICRD    = [4]byte{'I', 'C', 'R', 'D'}
	markerICOP    = [4]byte{'I', 'C', 'O', 'P'}
	markerIARL    = [4]byte{'I', 'A', 'R', 'L'}
	markerINAM    = [4]byte{'I', 'N', 'A', 'M'}
	markerIENG    = [4]byte{'I', 'E', 'N', 'G'}
	markerIGNR    = [4]byte{'I', 'G', 'N', 'R'}
	markerIPRD    = [4]byte{'I', 'P', 'R', 'D'}
	markerISRC    = [4]byte{'I', 'S', 'R', 'C'}
	markerISBJ    = [4]byte{'I', 'S', 'B', 'J'}
	markerICMT    = [4]byte{'I', 'C', 'M', 'T'}
	markerITRK    = [4]byte{'I', 'T', 'R', 'K'}
	markerITRKBug = [4]byte{'i', 't', 'r', 'k'}
	markerITCH    = [4]byte{'I', 'T', 'C', 'H'}
	markerIKEY    = [4]byte{'I', 'K', 'E', 'Y'}
	markerIMED    = [4]byte{'I', 'M', 'E', 'D'}

	errListNotInfo   = errors.New("LIST chunk is not of type INFO")
	errListEntrySize = errors.New("INFO entry exceeds the LIST chunk")
)

// Metadata holds the LIST/INFO text fields of a file and its optional BWF
// extension.
type Metadata struct {
	Artist       string
	Comments     string
	Copyright    string
	CreationDate string
	Engineer     string
	Technician   string
	Genre        string
	Keywords     string
	Medium       string
	Title        string
	Product      string
	Subject      string
	Software     string
	Source       string
	Location     string
	TrackNbr     string

	BroadcastExtension *BroadcastExtension
}

func (m *Metadata) fields() []struct {
	marker [4]byte
	value  *string
} {
	return []struct {
		marker [4]byte
		value  *string
	}{
		{markerIART, &m.Artist},
		{markerICMT, &m.Comments},
		{markerICOP, &m.Copyright},
		{markerICRD, &m.CreationDate},
		{markerIENG, &m.Engineer},
		{markerITCH, &m.Technician},
		{markerIGNR, &m.Genre},
		{markerIKEY, &m.Keywords},
		{markerIMED, &m.Medium},
		{markerINAM, &m.Title},
		{markerIPRD, &m.Product},
		{markerISBJ, &m.Subject},
		{markerISFT, &m.Software},
		{markerISRC, &m.Source},
		{markerIARL, &m.Location},
		{markerITRK, &m.TrackNbr},
	}
}

// DecodeListChunk decodes the payload of a LIST chunk of type INFO into md.
// Unknown INFO entries are ignored.
func DecodeListChunk(md *Metadata, data []byte) error {
	if len(data) < 4 || [4]byte(data[:4]) != CIDInfo {
		return errListNotInfo
	}

	r := newChunkReader(data)
	r.off = 4

	fields := md.fields()

	// A trailing word alignment byte isn't an entry.
	for r.remaining() >= chunkHeaderSize {
		entry, _ := r.chunkHeader()

		value, err := r.take(int(entry.Size))
		if err != nil {
			return fmt.Errorf("%w: %q needs %d bytes", errListEntrySize, entry.ID, entry.Size)
		}

		if entry.Size%2 == 1 && r.remaining() > 0 {
			r.off++
		}

		id := entry.ID
		if id == markerITRKBug {
			id = markerITRK
		}

		for _, field := range fields {
			if field.marker == id {
				*field.value = nullTermStr(value)

				break
			}
		}
	}

	return nil
}

// encodeInfoChunk returns the LIST payload (INFO type included) for md, or
// nil when md has no field set.
func encodeInfoChunk(md *Metadata) []byte {
	if md == nil {
		return nil
	}

	buf := bytes.NewBuffer(nil)

	for _, field := range md.fields() {
		val := *field.value
		if val == "" {
			continue
		}

		size := len(val) + 1

		buf.Write(field.marker[:])
		binary.Write(buf, binary.LittleEndian, uint32(size))
		buf.WriteString(val)
		buf.WriteByte(0)

		if size%2 == 1 {
			buf.WriteByte(0)
		}
	}

	if buf.Len() == 0 {
		return nil
	}

	return append(CIDInfo[:], buf.Bytes()...)
}
