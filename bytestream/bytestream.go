// sampleconv
// Licensed under MIT

// Package bytestream implements the endian-aware cursor that every codec in
// this module reads and writes through. There is no stream-wide default byte
// order: every primitive takes its endianness explicitly per call, since the
// same codec (YSFC in particular) mixes big- and little-endian fields in the
// same file and a default would silently paper over that.
package bytestream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"

	"github.com/mukunda-go/sampleconv/codecerr"
)

// Reader is a cursor over a seekable, readable source. It tracks its own
// absolute offset so every error can report where it happened.
type Reader struct {
	r      io.ReadSeeker
	offset int64
}

// NewReader wraps r, assuming the current seek position is offset 0 for
// reporting purposes. Use Seek to reposition before reading if r isn't
// already at its start.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// Offset returns the current absolute read position.
func (b *Reader) Offset() int64 { return b.offset }

// Seek repositions the cursor to an absolute offset from the start.
func (b *Reader) Seek(offset int64) error {
	pos, err := b.r.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	b.offset = pos
	return nil
}

// Len reports the total size of the underlying source.
func (b *Reader) Len() (int64, error) {
	cur, err := b.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := b.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := b.r.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}

func (b *Reader) read(dst []byte) error {
	n, err := io.ReadFull(b.r, dst)
	b.offset += int64(n)
	if err != nil {
		return err
	}
	return nil
}

// U8 reads a single byte.
func (b *Reader) U8() (uint8, error) {
	var buf [1]byte
	if err := b.read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// U16 reads a 16-bit unsigned integer in the given byte order.
func (b *Reader) U16(order binary.ByteOrder) (uint16, error) {
	var buf [2]byte
	if err := b.read(buf[:]); err != nil {
		return 0, err
	}
	return order.Uint16(buf[:]), nil
}

// U32 reads a 32-bit unsigned integer in the given byte order.
func (b *Reader) U32(order binary.ByteOrder) (uint32, error) {
	var buf [4]byte
	if err := b.read(buf[:]); err != nil {
		return 0, err
	}
	return order.Uint32(buf[:]), nil
}

// U64 reads a 64-bit unsigned integer in the given byte order.
func (b *Reader) U64(order binary.ByteOrder) (uint64, error) {
	var buf [8]byte
	if err := b.read(buf[:]); err != nil {
		return 0, err
	}
	return order.Uint64(buf[:]), nil
}

// S8 reads a signed byte.
func (b *Reader) S8() (int8, error) {
	v, err := b.U8()
	return int8(v), err
}

// S16 reads a 16-bit signed integer in the given byte order.
func (b *Reader) S16(order binary.ByteOrder) (int16, error) {
	v, err := b.U16(order)
	return int16(v), err
}

// S32 reads a 32-bit signed integer in the given byte order.
func (b *Reader) S32(order binary.ByteOrder) (int32, error) {
	v, err := b.U32(order)
	return int32(v), err
}

// F32 reads an IEEE-754 float32, always little-endian.
func (b *Reader) F32() (float32, error) {
	v, err := b.U32(binary.LittleEndian)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F64 reads an IEEE-754 float64, always little-endian.
func (b *Reader) F64() (float64, error) {
	v, err := b.U64(binary.LittleEndian)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Bytes reads exactly n raw bytes.
func (b *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bytestream: negative length %d", n)
	}
	buf := make([]byte, n)
	if err := b.read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Block32 reads a u32 length prefix (in the given order) followed by
// exactly that many bytes.
func (b *Reader) Block32(order binary.ByteOrder) ([]byte, error) {
	n, err := b.U32(order)
	if err != nil {
		return nil, err
	}
	return b.Bytes(int(n))
}

// Block64 reads a u64 length prefix (in the given order) followed by
// exactly that many bytes.
func (b *Reader) Block64(order binary.ByteOrder) ([]byte, error) {
	n, err := b.U64(order)
	if err != nil {
		return nil, err
	}
	return b.Bytes(int(n))
}

// FixedASCII reads n bytes and trims trailing 0x00/0xFF padding and any
// trailing non-ASCII bytes.
func (b *Reader) FixedASCII(n int) (string, error) {
	raw, err := b.Bytes(n)
	if err != nil {
		return "", err
	}
	end := len(raw)
	for end > 0 {
		c := raw[end-1]
		if c == 0x00 || c == 0xFF || c > 0x7E || c < 0x20 {
			end--
			continue
		}
		break
	}
	return string(raw[:end]), nil
}

// UTF16LEString reads a u32-LE code-unit count followed by that many UTF-16
// little-endian code units. The prefix counts code units, not bytes.
func (b *Reader) UTF16LEString() (string, error) {
	count, err := b.U32(binary.LittleEndian)
	if err != nil {
		return "", err
	}
	units := make([]uint16, count)
	for i := range units {
		u, err := b.U16(binary.LittleEndian)
		if err != nil {
			return "", err
		}
		units[i] = u
	}
	return string(utf16.Decode(units)), nil
}

// NulString reads ASCII bytes up to and including a NUL terminator and
// returns the string without the terminator.
func (b *Reader) NulString() (string, error) {
	var out []byte
	for {
		c, err := b.U8()
		if err != nil {
			return "", err
		}
		if c == 0 {
			break
		}
		out = append(out, c)
	}
	return string(out), nil
}

// Skip advances the cursor by n bytes, discarding their content.
func (b *Reader) Skip(n int) error {
	_, err := b.Bytes(n)
	return err
}

// Expect reads len(tag) ASCII bytes and compares them against tag, failing
// with codecerr.BadMagic on mismatch.
func (b *Reader) Expect(tag string, verb string) error {
	offset := b.offset
	got, err := b.Bytes(len(tag))
	if err != nil {
		return err
	}
	if string(got) != tag {
		return &codecerr.BadMagic{Expected: tag, Got: string(got), Offset: offset, Verb: verb}
	}
	return nil
}

// ScanBackward scans backward from "from" looking for occurrences of magic
// and returns the maxCount lowest absolute offsets, in ascending order. Used
// by the Kontakt 2 monolith scanner to locate embedded WAV
// headers with no recorded sample offsets: the N lowest hits are the N
// sample payload starts.
func (b *Reader) ScanBackward(magic []byte, from int64, maxCount int) ([]int64, error) {
	if from <= 0 {
		return nil, nil
	}
	buf := make([]byte, from)
	if err := b.Seek(0); err != nil {
		return nil, err
	}
	if err := b.read(buf); err != nil {
		return nil, err
	}

	var found []int64
	for pos := int64(len(buf)) - int64(len(magic)); pos >= 0; pos-- {
		if bytes.Equal(buf[pos:pos+int64(len(magic))], magic) {
			found = append(found, pos)
		}
	}
	// found is in descending order (scanned backward); reverse to ascending
	// and keep the lowest maxCount.
	for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
		found[i], found[j] = found[j], found[i]
	}
	if len(found) > maxCount {
		found = found[:maxCount]
	}
	return found, nil
}
