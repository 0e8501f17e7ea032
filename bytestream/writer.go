// sampleconv
// Licensed under MIT

package bytestream

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf16"
)

// Writer is the write-side counterpart to Reader: every primitive takes its
// endianness explicitly, mirroring the shapes Reader produces so a codec's
// encode path reads as the inverse of its decode path.
type Writer struct {
	w      io.Writer
	offset int64
}

// NewWriter wraps w for sequential writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Offset returns the number of bytes written so far.
func (b *Writer) Offset() int64 { return b.offset }

func (b *Writer) write(buf []byte) error {
	n, err := b.w.Write(buf)
	b.offset += int64(n)
	return err
}

// U8 writes a single byte.
func (b *Writer) U8(v uint8) error {
	return b.write([]byte{v})
}

// U16 writes a 16-bit unsigned integer in the given byte order.
func (b *Writer) U16(order binary.ByteOrder, v uint16) error {
	var buf [2]byte
	order.PutUint16(buf[:], v)
	return b.write(buf[:])
}

// U32 writes a 32-bit unsigned integer in the given byte order.
func (b *Writer) U32(order binary.ByteOrder, v uint32) error {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	return b.write(buf[:])
}

// U64 writes a 64-bit unsigned integer in the given byte order.
func (b *Writer) U64(order binary.ByteOrder, v uint64) error {
	var buf [8]byte
	order.PutUint64(buf[:], v)
	return b.write(buf[:])
}

// S8 writes a signed byte.
func (b *Writer) S8(v int8) error { return b.U8(uint8(v)) }

// S16 writes a 16-bit signed integer in the given byte order.
func (b *Writer) S16(order binary.ByteOrder, v int16) error { return b.U16(order, uint16(v)) }

// S32 writes a 32-bit signed integer in the given byte order.
func (b *Writer) S32(order binary.ByteOrder, v int32) error { return b.U32(order, uint32(v)) }

// F32 writes an IEEE-754 float32, always little-endian.
func (b *Writer) F32(v float32) error {
	return b.U32(binary.LittleEndian, math.Float32bits(v))
}

// F64 writes an IEEE-754 float64, always little-endian.
func (b *Writer) F64(v float64) error {
	return b.U64(binary.LittleEndian, math.Float64bits(v))
}

// Bytes writes raw bytes verbatim.
func (b *Writer) Bytes(buf []byte) error {
	return b.write(buf)
}

// Block32 writes a u32 length prefix (in the given order) followed by data.
func (b *Writer) Block32(order binary.ByteOrder, data []byte) error {
	if err := b.U32(order, uint32(len(data))); err != nil {
		return err
	}
	return b.write(data)
}

// Block64 writes a u64 length prefix (in the given order) followed by data.
func (b *Writer) Block64(order binary.ByteOrder, data []byte) error {
	if err := b.U64(order, uint64(len(data))); err != nil {
		return err
	}
	return b.write(data)
}

// FixedASCII writes s into exactly n bytes, right-padded with pad (0x00 or
// 0xFF). s is truncated if it doesn't fit.
func (b *Writer) FixedASCII(n int, s string, pad byte) error {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = pad
	}
	copy(buf, s)
	return b.write(buf)
}

// UTF16LEString writes a u32-LE code-unit count followed by the UTF-16LE
// encoding of s.
func (b *Writer) UTF16LEString(s string) error {
	units := utf16.Encode([]rune(s))
	if err := b.U32(binary.LittleEndian, uint32(len(units))); err != nil {
		return err
	}
	for _, u := range units {
		if err := b.U16(binary.LittleEndian, u); err != nil {
			return err
		}
	}
	return nil
}

// NulString writes s followed by a single NUL terminator.
func (b *Writer) NulString(s string) error {
	if err := b.write([]byte(s)); err != nil {
		return err
	}
	return b.U8(0)
}

// Pad writes n bytes of fill (0x00 for most layouts, 0xFF for YSFC headers).
func (b *Writer) Pad(n int, fill byte) error {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = fill
	}
	return b.write(buf)
}

// Tag writes the literal ASCII bytes of tag verbatim (no length prefix,
// no padding) — used for fixed 4-byte chunk IDs and magic literals.
func (b *Writer) Tag(tag string) error {
	return b.write([]byte(tag))
}
