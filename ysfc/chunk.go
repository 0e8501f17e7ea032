// sampleconv
// Licensed under MIT

package ysfc

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
)

// Chunk is one catalog-indexed block: a 4-character ID, then a count of
// items, each either an "Entr" (an Entry record) or a "Data" (a raw payload)
//. Entry chunks (E***) carry only entries, data chunks
// (D***) only payloads; the two are bound positionally — entry i of EWFM
// describes data i of DWFM.
type Chunk struct {
	ID string

	Entries []*Entry
	Data    [][]byte
}

const (
	itemMarkerEntry = "Entr"
	itemMarkerData  = "Data"
)

// dataItemBase is the byte position of the first item within a chunk (4-byte
// ID + u32 length + u32 item count); entry offsets are measured from the
// chunk start, so the first data item sits at this offset.
const dataItemBase = 12

func readChunk(r *bytestream.Reader) (*Chunk, error) {
	start := r.Offset()
	id, err := r.FixedASCII(4)
	if err != nil {
		return nil, err
	}
	if _, err := r.U32(binary.BigEndian); err != nil { // chunk_length
		return nil, err
	}
	count, err := r.U32(binary.BigEndian)
	if err != nil {
		return nil, err
	}

	c := &Chunk{ID: id}
	for i := uint32(0); i < count; i++ {
		marker, err := r.FixedASCII(4)
		if err != nil {
			return nil, err
		}
		body, err := r.Block32(binary.BigEndian)
		if err != nil {
			return nil, err
		}
		switch marker {
		case itemMarkerEntry:
			e, err := parseEntry(body)
			if err != nil {
				return nil, err
			}
			c.Entries = append(c.Entries, e)
		case itemMarkerData:
			c.Data = append(c.Data, body)
		default:
			return nil, &codecerr.BadMagic{
				Expected: itemMarkerEntry, Got: marker, Offset: start,
				Path: id, Verb: "read YSFC chunk item",
			}
		}
	}
	return c, nil
}

// encode serializes the chunk. Entry records have their ItemOffset and
// ItemSize fields recomputed by the caller beforehand (Encode does this via
// bindOffsets); this function writes what the entries currently say.
func (c *Chunk) encode() ([]byte, error) {
	var body bytes.Buffer
	bw := bytestream.NewWriter(&body)

	count := len(c.Entries) + len(c.Data)
	if err := bw.U32(binary.BigEndian, uint32(count)); err != nil {
		return nil, err
	}
	for _, e := range c.Entries {
		if err := bw.Tag(itemMarkerEntry); err != nil {
			return nil, err
		}
		if err := bw.Block32(binary.BigEndian, e.encode()); err != nil {
			return nil, err
		}
	}
	for _, d := range c.Data {
		if err := bw.Tag(itemMarkerData); err != nil {
			return nil, err
		}
		if err := bw.Block32(binary.BigEndian, d); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	w := bytestream.NewWriter(&out)
	if err := w.FixedASCII(4, c.ID, ' '); err != nil {
		return nil, err
	}
	if err := w.Block32(binary.BigEndian, body.Bytes()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// dataOffsets returns, for each data item, its offset from the chunk start —
// the value the paired entry chunk's records point at.
func (c *Chunk) dataOffsets() []uint32 {
	offsets := make([]uint32, len(c.Data))
	pos := uint32(dataItemBase)
	for i, d := range c.Data {
		offsets[i] = pos
		pos += 8 + uint32(len(d))
	}
	return offsets
}
