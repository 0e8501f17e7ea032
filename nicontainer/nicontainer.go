// sampleconv
// Licensed under MIT

// Package nicontainer implements the outer envelope used by Kontakt 5+ and
// sibling Native Instruments products: a UUID-identified Item wrapping a
// linked list of typed DataChunks, any of which may itself be a
// SUB_TREE_ITEM containing a nested Item.
package nicontainer

import (
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/notifier"
)

// ChunkType is the NI Container's DataChunk type enum. Any numeric value
// outside the well-known set round-trips as an opaque DataChunk.
type ChunkType uint32

const (
	ChunkAuthoringApplication ChunkType = 1
	ChunkPresetChunkItem      ChunkType = 2
	ChunkSoundInfoItem        ChunkType = 3
	ChunkAuthorization        ChunkType = 4
	ChunkSubTreeItem          ChunkType = 5
	ChunkEncryptedData        ChunkType = 6
	ChunkBNIPreset            ChunkType = 7
)

// KontaktAuthoringApplication is the value AuthoringApplication must equal
// for a file to be accepted as a Kontakt preset.
const KontaktAuthoringApplication = "KONTAKT"

// MaxDepth bounds SUB_TREE_ITEM recursion.
const MaxDepth = 32

// DataChunk is one typed sub-chunk of an Item's DataChunk linked list.
type DataChunk struct {
	Type ChunkType
	Data []byte
}

// Item is one NI Container entity: header, UUID, a chain of DataChunks, and
// any child items.
type Item struct {
	HeaderVersion uint32
	UUID          uuid.UUID
	Unused        uint32
	Flags         uint32
	DataChunks    []DataChunk
	ItemVersion   uint32
	Children      []*Item

	// Encrypted is set when an Authorization chunk with a non-empty
	// serial/PID list was found on this item.
	Encrypted bool
}

// Parse reads one Item: its u64 total length prefix, then exactly that many
// bytes of header, data chunks, and children.
func Parse(r *bytestream.Reader, n notifier.Notifier) (*Item, error) {
	return parse(r, n, 0)
}

func parse(r *bytestream.Reader, n notifier.Notifier, depth int) (*Item, error) {
	if depth > MaxDepth {
		return nil, &codecerr.Truncated{Verb: "parse NI Container item: max depth exceeded"}
	}

	offset := r.Offset()
	totalLength, err := r.U64(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	body, err := r.Bytes(int(totalLength))
	if err != nil {
		return nil, &codecerr.Truncated{
			Offset: offset, Verb: "parse NI Container item", Expected: int64(totalLength), Got: int64(len(body)),
		}
	}

	br := bytestream.NewReader(bytes.NewReader(body))
	item := &Item{}

	headerVersion, err := br.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	if headerVersion != 1 {
		return nil, &codecerr.UnsupportedVersion{Version: int(headerVersion), Offset: offset, Verb: "NI Container header version"}
	}
	item.HeaderVersion = headerVersion

	if err := br.Expect("hsin", "parse NI Container item magic"); err != nil {
		return nil, err
	}

	unused, err := br.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	item.Unused = unused

	flags, err := br.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	item.Flags = flags

	idBytes, err := br.Bytes(16)
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, err
	}
	item.UUID = id

	dataChunks, err := parseDataChunks(br, n, depth)
	if err != nil {
		return nil, err
	}
	item.DataChunks = dataChunks

	for _, dc := range dataChunks {
		if dc.Type == ChunkAuthorization && len(dc.Data) > 0 {
			item.Encrypted = true
			if n != nil {
				n.Log("encrypted_content", map[string]any{"offset": offset})
			}
		}
	}

	itemVersion, err := br.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	item.ItemVersion = itemVersion

	numChildren, err := br.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < numChildren; i++ {
		child, err := parse(br, n, depth+1)
		if err != nil {
			return nil, err
		}
		item.Children = append(item.Children, child)
	}

	return item, nil
}

// parseDataChunks reads the item's DataChunk linked list: each entry is
// chunk_type, length, data, next_offset (0 terminates the list). next_offset
// is an absolute offset (from the start of the item body) to seek to for the
// next entry, allowing chunks to be laid out non-contiguously.
func parseDataChunks(br *bytestream.Reader, n notifier.Notifier, depth int) ([]DataChunk, error) {
	var chunks []DataChunk
	for {
		chunkType, err := br.U32(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		length, err := br.U32(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		data, err := br.Bytes(int(length))
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, DataChunk{Type: ChunkType(chunkType), Data: data})

		nextOffset, err := br.U32(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		if nextOffset == 0 {
			break
		}
		if err := br.Seek(int64(nextOffset)); err != nil {
			return nil, err
		}
	}
	return chunks, nil
}

// SubTree parses a SUB_TREE_ITEM DataChunk's payload as a nested Item.
func (dc *DataChunk) SubTree(n notifier.Notifier) (*Item, error) {
	r := bytestream.NewReader(bytes.NewReader(dc.Data))
	return parse(r, n, 0)
}

// Find performs a depth-first search for the first DataChunk of the given
// type, recursing into SUB_TREE_ITEM payloads and then into child items.
func Find(item *Item, t ChunkType, n notifier.Notifier) (*DataChunk, bool) {
	all := FindAll(item, t, n)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// FindAll is the non-short-circuiting counterpart to Find.
func FindAll(item *Item, t ChunkType, n notifier.Notifier) []*DataChunk {
	return findAll(item, t, n, 0)
}

func findAll(item *Item, t ChunkType, n notifier.Notifier, depth int) []*DataChunk {
	if item == nil || depth > MaxDepth {
		return nil
	}

	var out []*DataChunk
	for i := range item.DataChunks {
		dc := &item.DataChunks[i]
		if dc.Type == t {
			out = append(out, dc)
		}
		if dc.Type == ChunkSubTreeItem {
			sub, err := dc.SubTree(n)
			if err != nil {
				if n != nil {
					n.LogError("subtree_parse_failed", err, nil)
				}
				continue
			}
			out = append(out, findAll(sub, t, n, depth+1)...)
		}
	}

	for _, child := range item.Children {
		out = append(out, findAll(child, t, n, depth+1)...)
	}

	return out
}

// VerifyKontaktAuthoring requires that item's AuthoringApplication chunk is
// present and equal to KONTAKT.
func VerifyKontaktAuthoring(item *Item, n notifier.Notifier) error {
	dc, ok := Find(item, ChunkAuthoringApplication, n)
	if !ok {
		return &codecerr.WrongAuthoringApplication{Got: ""}
	}
	got := string(dc.Data)
	if got != KontaktAuthoringApplication {
		return &codecerr.WrongAuthoringApplication{Got: got}
	}
	return nil
}
