// sampleconv
// Licensed under MIT

package nicontainer

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
)

// Write serializes item back to wire form, inverse of Parse. DataChunks are
// laid out contiguously (next_offset chains are flattened on write; readers
// tolerate any valid offset chain, and a contiguous layout is always valid).
func (item *Item) Write(w *bytestream.Writer) error {
	var body bytes.Buffer
	bw := bytestream.NewWriter(&body)

	if err := bw.U32(binary.LittleEndian, 1); err != nil {
		return err
	}
	if err := bw.Tag("hsin"); err != nil {
		return err
	}
	if err := bw.U32(binary.LittleEndian, item.Unused); err != nil {
		return err
	}
	if err := bw.U32(binary.LittleEndian, item.Flags); err != nil {
		return err
	}
	idBytes, err := item.UUID.MarshalBinary()
	if err != nil {
		return err
	}
	if err := bw.Bytes(idBytes); err != nil {
		return err
	}

	if err := writeDataChunks(bw, item.DataChunks); err != nil {
		return err
	}

	if err := bw.U32(binary.LittleEndian, item.ItemVersion); err != nil {
		return err
	}
	if err := bw.U32(binary.LittleEndian, uint32(len(item.Children))); err != nil {
		return err
	}
	for _, child := range item.Children {
		if err := child.Write(bw); err != nil {
			return err
		}
	}

	if err := w.U64(binary.LittleEndian, uint64(body.Len())); err != nil {
		return err
	}
	return w.Bytes(body.Bytes())
}

func writeDataChunks(w *bytestream.Writer, chunks []DataChunk) error {
	for i, dc := range chunks {
		if err := w.U32(binary.LittleEndian, uint32(dc.Type)); err != nil {
			return err
		}
		if err := w.U32(binary.LittleEndian, uint32(len(dc.Data))); err != nil {
			return err
		}
		if err := w.Bytes(dc.Data); err != nil {
			return err
		}
		next := uint32(0)
		if i < len(chunks)-1 {
			next = uint32(w.Offset() + 4)
		}
		if err := w.U32(binary.LittleEndian, next); err != nil {
			return err
		}
	}
	return nil
}
