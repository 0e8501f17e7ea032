// sampleconv
// Licensed under MIT

package bytestream

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixedEndianPrimitives(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.U16(binary.BigEndian, 0x1234))
	require.NoError(t, w.U32(binary.LittleEndian, 0xCAFEBABE))
	require.NoError(t, w.U64(binary.BigEndian, 0x0102030405060708))
	require.NoError(t, w.S32(binary.LittleEndian, -5))
	require.NoError(t, w.F32(1.5))
	require.NoError(t, w.F64(-2.25))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	u16, err := r.U16(binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)
	u32, err := r.U32(binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), u32)
	u64, err := r.U64(binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)
	s32, err := r.S32(binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int32(-5), s32)
	f32, err := r.F32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)
	f64, err := r.F64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)
}

func TestBlocks(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Block32(binary.BigEndian, []byte{1, 2, 3}))
	require.NoError(t, w.Block64(binary.LittleEndian, []byte{4, 5}))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	b1, err := r.Block32(binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b1)
	b2, err := r.Block64(binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, b2)
}

func TestStringFlavors(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.FixedASCII(8, "abc", 0x00))
	require.NoError(t, w.FixedASCII(8, "def", 0xFF))
	require.NoError(t, w.UTF16LEString("höhe"))
	require.NoError(t, w.NulString("tail"))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	s1, err := r.FixedASCII(8)
	require.NoError(t, err)
	assert.Equal(t, "abc", s1)
	s2, err := r.FixedASCII(8)
	require.NoError(t, err)
	assert.Equal(t, "def", s2)
	s3, err := r.UTF16LEString()
	require.NoError(t, err)
	assert.Equal(t, "höhe", s3)
	s4, err := r.NulString()
	require.NoError(t, err)
	assert.Equal(t, "tail", s4)
}

func TestUTF16PrefixCountsCodeUnitsNotBytes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.UTF16LEString("ab"))
	// 4-byte prefix of 2 (code units), then 4 bytes of data.
	assert.Equal(t, 8, buf.Len())
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf.Bytes()[:4]))
}

func TestExpectReportsBadMagic(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("xxRIFFdata")))
	require.NoError(t, r.Skip(2))
	err := r.Expect("RIFX", "test read")
	var bm *codecerr.BadMagic
	require.ErrorAs(t, err, &bm)
	assert.Equal(t, "RIFX", bm.Expected)
	assert.Equal(t, "RIFF", bm.Got)
	assert.Equal(t, int64(2), bm.Offset)

	require.NoError(t, r.Seek(2))
	assert.NoError(t, r.Expect("RIFF", "test read"))
}

func TestScanBackwardFindsAscendingPositions(t *testing.T) {
	magic := []byte{0x0A, 0xF8, 0xCC, 0x16}
	data := make([]byte, 64)
	copy(data[10:], magic)
	copy(data[30:], magic)
	copy(data[50:], magic)

	r := NewReader(bytes.NewReader(data))
	// Scan only below offset 50: the third occurrence is out of range.
	found, err := r.ScanBackward(magic, 50, 8)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 30}, found)

	// maxCount keeps the lowest N positions of the full scan.
	found, err = r.ScanBackward(magic, int64(len(data)), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, found)
}

func TestPadAndSkip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Pad(3, 0xFF))
	require.NoError(t, w.U8(7))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, r.Skip(3))
	v, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), v)
	assert.Equal(t, int64(4), r.Offset())
}
