// sampleconv
// Licensed under MIT

// Package chunktree implements the recursive, ID-tagged nested record
// format (C3) used by Kontakt preset data: a Chunk carries a numeric type
// tag, a public/private data split, and typed children. The structure
// version recorded on a chunk selects the version-specific decoder in
// package kontakt; this layer only knows how to walk the tree, not what the
// public-data bytes mean.
package chunktree

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
)

// ID is a chunk type tag. Unrecognized values are preserved verbatim rather
// than rejected.
type ID uint16

// Known chunk IDs.
const (
	ParModBase       ID = 0x00
	Bank             ID = 0x03
	Group            ID = 0x04
	ParScript        ID = 0x06
	ParInternalMod   ID = 0x0D
	Program          ID = 0x28
	ProgramContainer ID = 0x29
	Zone             ID = 0x2C
	VoiceGroups      ID = 0x32
	GroupList        ID = 0x33
	ZoneList         ID = 0x34
	SlotList         ID = 0x37
	LoopArray        ID = 0x39
	ParameterArray16 ID = 0x3B
	FilenameList     ID = 0x3D
	InsertBus        ID = 0x45
	FilenameList2    ID = 0x4B
	QuickBrowse      ID = 0x4E
	SaveSettings     ID = 0x47
)

// MaxDepth bounds recursive SUB_TREE_ITEM-style descent to guard against
// malicious or corrupted inputs forming a cycle.
const MaxDepth = 32

// Chunk is a recursive ID-tagged nested record.
type Chunk struct {
	ID ID

	// Structured is false for chunks whose payload is treated as opaque
	// (either because this layer doesn't know their shape, or because the
	// wire byte said so).
	Structured bool
	Version    uint16

	// Priv is the private data segment — opaque to this layer regardless
	// of Structured.
	Priv []byte

	// Pub is the public data segment, consumed by the owning entity
	// (kontakt.Program, kontakt.Group, kontakt.Zone, ...).
	Pub []byte

	Children []*Chunk

	// Reference holds the u32 that precedes a ZONE_LIST child in place of
	// a normal id/size header.
	Reference *uint32

	// Opaque holds the verbatim payload bytes for a chunk whose structured
	// flag byte is 0 (Structured == false).
	Opaque []byte

	// ParameterSlots is populated only for a PARAMETER_ARRAY_16 chunk.
	ParameterSlots *ParameterSlots
}

// ParameterSlots is the decoded PARAMETER_ARRAY_16 payload: a fixed array of
// 16 optionally-present nested chunks.
type ParameterSlots struct {
	Slots [16]*Chunk
}

func path(parent string, id ID) string {
	if parent == "" {
		return fmt.Sprintf("0x%02x", uint16(id))
	}
	return fmt.Sprintf("%s/0x%02x", parent, uint16(id))
}

// Parse reads one Chunk (id + size header, then its payload) from r.
func Parse(r *bytestream.Reader, parentPath string, depth int) (*Chunk, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("chunktree: max depth %d exceeded at %s", MaxDepth, parentPath)
	}

	offset := r.Offset()
	rawID, err := r.U16(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	id := ID(rawID)

	size, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	payload, err := r.Bytes(int(size))
	if err != nil {
		return nil, &codecerr.Truncated{
			Offset: offset, Path: path(parentPath, id), Verb: "parse chunk payload",
			Expected: int64(size), Got: int64(len(payload)),
		}
	}

	pr := bytestream.NewReader(bytes.NewReader(payload))
	return parsePayload(pr, id, path(parentPath, id), depth)
}

func parsePayload(r *bytestream.Reader, id ID, p string, depth int) (*Chunk, error) {
	switch id {
	case GroupList, ZoneList:
		return parseListChunk(r, id, p, depth)
	case ParameterArray16:
		return parseParameterArray16(r, id, p, depth)
	default:
		return parseGeneric(r, id, p, depth)
	}
}

// parseGeneric handles the common structured-chunk shape:
//
//	u8  is_structured
//	u16 version
//	u32 priv_len ; priv_len bytes
//	u32 pub_len  ; pub_len  bytes
//	u32 children_len ; children_len bytes (concatenation of child Chunks)
//
// When is_structured is false, the whole payload (flag byte included) is
// kept as opaque bytes. Known and unknown IDs are treated alike here.
func parseGeneric(r *bytestream.Reader, id ID, p string, depth int) (*Chunk, error) {
	isStructuredByte, err := r.U8()
	if err != nil {
		// Some chunks (e.g. a bare opaque blob) may be shorter than the
		// structured header; preserve whatever's left verbatim.
		return &Chunk{ID: id}, nil
	}

	c := &Chunk{ID: id, Structured: isStructuredByte != 0}
	if !c.Structured {
		rest, _ := readAll(r)
		c.Opaque = append([]byte{isStructuredByte}, rest...)
		return c, nil
	}

	version, err := r.U16(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	c.Version = version

	priv, err := r.Block32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	c.Priv = priv

	pub, err := r.Block32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	c.Pub = pub

	childBytes, err := r.Block32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	cr := bytestream.NewReader(bytes.NewReader(childBytes))
	total := int64(len(childBytes))
	for cr.Offset() < total {
		child, err := Parse(cr, p, depth+1)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, child)
	}

	return c, nil
}

// parseListChunk handles GROUP_LIST/ZONE_LIST: u32 count, then count
// children read as inner structured payloads directly (no id/size header).
func parseListChunk(r *bytestream.Reader, id ID, p string, depth int) (*Chunk, error) {
	c := &Chunk{ID: id, Structured: true}

	count, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	childID := Group
	if id == ZoneList {
		childID = Zone
	}

	for i := uint32(0); i < count; i++ {
		var ref *uint32
		if id == ZoneList {
			v, err := r.U32(binary.LittleEndian)
			if err != nil {
				return nil, err
			}
			ref = &v
		}

		child, err := parseGeneric(r, childID, path(p, childID), depth+1)
		if err != nil {
			return nil, err
		}
		child.Reference = ref
		c.Children = append(c.Children, child)
	}

	return c, nil
}

// parseParameterArray16 handles PARAMETER_ARRAY_16: a fixed array of 16
// slots, each beginning with a u8 presence flag, then (if present) a nested
// chunk with its own id/size header.
func parseParameterArray16(r *bytestream.Reader, id ID, p string, depth int) (*Chunk, error) {
	c := &Chunk{ID: id, Structured: true}
	slots := &ParameterSlots{}

	for i := 0; i < 16; i++ {
		present, err := r.U8()
		if err != nil {
			return nil, err
		}
		if present == 0 {
			continue
		}
		child, err := Parse(r, p, depth+1)
		if err != nil {
			return nil, err
		}
		slots.Slots[i] = child
		c.Children = append(c.Children, child)
	}

	c.ParameterSlots = slots
	return c, nil
}

func readAll(r *bytestream.Reader) ([]byte, error) {
	total, err := r.Len()
	if err != nil {
		return nil, err
	}
	remaining := total - r.Offset()
	if remaining <= 0 {
		return nil, nil
	}
	return r.Bytes(int(remaining))
}
