package wav

import (
	"fmt"
)

// CIDList is the chunk ID for a LIST chunk.
var CIDList = [4]byte{'L', 'I', 'S', 'T'}

// ChunkHandler is a typed handler for optional chunks met while scanning
// for the data chunk. Encode returns nil when it has nothing to write.
type ChunkHandler interface {
	CanHandle(chunkID [4]byte, listType [4]byte) bool
	Decode(md *Metadata, chunk RawChunk) error
	Encode(md *Metadata) (*RawChunk, error)
}

// ChunkRegistry resolves chunks to handlers.
type ChunkRegistry struct {
	handlers []ChunkHandler
}

// NewChunkRegistry returns a registry holding the LIST/INFO and bext
// handlers.
func NewChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		handlers: []ChunkHandler{
			&listInfoChunkHandler{},
			&bextChunkHandler{},
		},
	}
}

// Register appends a handler to the registry.
func (r *ChunkRegistry) Register(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// decode dispatches a chunk to the first matching handler. Decoded fields
// land in h.Metadata, which is allocated on first use.
func (r *ChunkRegistry) decode(h *header, chunk RawChunk) (bool, error) {
	if r == nil || h == nil {
		return false, nil
	}

	listType := sniffListType(chunk)

	for _, handler := range r.handlers {
		if !handler.CanHandle(chunk.ID, listType) {
			continue
		}

		if h.Metadata == nil {
			h.Metadata = &Metadata{}
		}

		if err := handler.Decode(h.Metadata, chunk); err != nil {
			return true, fmt.Errorf("chunk handler decode failed: %w", err)
		}

		return true, nil
	}

	return false, nil
}

// encode collects the chunks every handler produces for md.
func (r *ChunkRegistry) encode(md *Metadata) ([]RawChunk, error) {
	if r == nil || md == nil {
		return nil, nil
	}

	var out []RawChunk

	for _, handler := range r.handlers {
		chunk, err := handler.Encode(md)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata chunk with %T: %w", handler, err)
		}

		if chunk != nil {
			out = append(out, *chunk)
		}
	}

	return out, nil
}

func sniffListType(chunk RawChunk) [4]byte {
	var listType [4]byte

	if chunk.ID != CIDList || len(chunk.Data) < 4 {
		return listType
	}

	copy(listType[:], chunk.Data[:4])

	return listType
}

type listInfoChunkHandler struct{}

func (h *listInfoChunkHandler) CanHandle(chunkID [4]byte, listType [4]byte) bool {
	return chunkID == CIDList && listType == CIDInfo
}

func (h *listInfoChunkHandler) Decode(md *Metadata, chunk RawChunk) error {
	return DecodeListChunk(md, chunk.Data)
}

func (h *listInfoChunkHandler) Encode(md *Metadata) (*RawChunk, error) {
	data := encodeInfoChunk(md)
	if len(data) == 0 {
		return nil, nil
	}

	return &RawChunk{ID: CIDList, Size: uint32(len(data)), Data: data, BeforeData: true}, nil
}
