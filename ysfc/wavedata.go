// sampleconv
// Licensed under MIT

package ysfc

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
)

// parseWaveData decodes a DWIM data item: u32 count, then count raw 16-bit
// PCM payloads, each u32-length-prefixed. A stereo sample
// occupies two consecutive payloads (left then right).
func parseWaveData(body []byte) ([][]byte, error) {
	r := bytestream.NewReader(bytes.NewReader(body))
	count, err := r.U32(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	waves := make([][]byte, 0, count)
	for i := 0; i < int(count); i++ {
		data, err := r.Block32(binary.BigEndian)
		if err != nil {
			return nil, err
		}
		waves = append(waves, data)
	}
	return waves, nil
}

func encodeWaveData(waves [][]byte) ([]byte, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	if err := w.U32(binary.BigEndian, uint32(len(waves))); err != nil {
		return nil, err
	}
	for _, data := range waves {
		if err := w.Block32(binary.BigEndian, data); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// interleaveStereo merges equal-length left/right 16-bit PCM payloads into
// one interleaved stereo buffer.
func interleaveStereo(left, right []byte) []byte {
	out := make([]byte, 0, len(left)+len(right))
	for i := 0; i+1 < len(left) && i+1 < len(right); i += 2 {
		out = append(out, left[i], left[i+1], right[i], right[i+1])
	}
	return out
}

// deinterleaveStereo splits an interleaved stereo buffer back into left and
// right payloads; the inverse of interleaveStereo.
func deinterleaveStereo(data []byte) (left, right []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		left = append(left, data[i], data[i+1])
		right = append(right, data[i+2], data[i+3])
	}
	return left, right
}
