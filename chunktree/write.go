// sampleconv
// Licensed under MIT

package chunktree

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
)

// Write serializes c back to wire form: u16 id, u32 size, then size bytes of
// payload. Unknown/opaque chunks round-trip byte for byte.
func (c *Chunk) Write(w *bytestream.Writer) error {
	payload, err := c.encodePayload()
	if err != nil {
		return err
	}
	if err := w.U16(binary.LittleEndian, uint16(c.ID)); err != nil {
		return err
	}
	if err := w.U32(binary.LittleEndian, uint32(len(payload))); err != nil {
		return err
	}
	return w.Bytes(payload)
}

func (c *Chunk) encodePayload() ([]byte, error) {
	switch c.ID {
	case GroupList, ZoneList:
		return c.encodeListPayload()
	case ParameterArray16:
		return c.encodeParameterArray16Payload()
	default:
		return c.encodeGenericPayload()
	}
}

func (c *Chunk) encodeGenericPayload() ([]byte, error) {
	if !c.Structured {
		return c.Opaque, nil
	}

	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	if err := w.U8(1); err != nil {
		return nil, err
	}
	if err := w.U16(binary.LittleEndian, c.Version); err != nil {
		return nil, err
	}
	if err := w.Block32(binary.LittleEndian, c.Priv); err != nil {
		return nil, err
	}
	if err := w.Block32(binary.LittleEndian, c.Pub); err != nil {
		return nil, err
	}

	var childBuf bytes.Buffer
	cw := bytestream.NewWriter(&childBuf)
	for _, child := range c.Children {
		if err := child.Write(cw); err != nil {
			return nil, err
		}
	}
	if err := w.Block32(binary.LittleEndian, childBuf.Bytes()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c *Chunk) encodeListPayload() ([]byte, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	if err := w.U32(binary.LittleEndian, uint32(len(c.Children))); err != nil {
		return nil, err
	}

	for _, child := range c.Children {
		if c.ID == ZoneList {
			ref := uint32(0)
			if child.Reference != nil {
				ref = *child.Reference
			}
			if err := w.U32(binary.LittleEndian, ref); err != nil {
				return nil, err
			}
		}
		payload, err := child.encodeGenericPayload()
		if err != nil {
			return nil, err
		}
		if err := w.Bytes(payload); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func (c *Chunk) encodeParameterArray16Payload() ([]byte, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	slots := c.ParameterSlots
	for i := 0; i < 16; i++ {
		var slot *Chunk
		if slots != nil {
			slot = slots.Slots[i]
		}
		if slot == nil {
			if err := w.U8(0); err != nil {
				return nil, err
			}
			continue
		}
		if err := w.U8(1); err != nil {
			return nil, err
		}
		if err := slot.Write(w); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
