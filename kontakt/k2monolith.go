// sampleconv
// Licensed under MIT

package kontakt

import (
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/notifier"
)

// k2WavMagic is the 4-byte header signature the backward scan looks for.
// A fixed signature, not a heuristic: false positives are theoretically
// possible in compressed audio but have not been observed.
var k2WavMagic = []byte{0x0A, 0xF8, 0xCC, 0x16}

// dictRefType enumerates Dictionary entry kinds.
type dictRefType uint32

const (
	dictRefNKI dictRefType = iota
	dictRefDictionary
	dictRefSample
	dictRefEnd
)

// dictEntry is one Dictionary record.
type dictEntry struct {
	Type    dictRefType
	Pointer uint32
	Name    string // only meaningful for dictRefDictionary/dictRefSample
}

// K2Monolith is the result of scanning a Kontakt 2 monolith for its
// embedded sample payloads. No sample offsets are
// recorded in the file itself; WavOffsets is recovered via backward scan.
type K2Monolith struct {
	SampleNames []string
	WavOffsets  []int64
	// ZlibOffset is where the ZLIB-compressed XML block begins, computed as
	// nki_pointer + 27 + 170.
	ZlibOffset int64
}

// readDictionary reads a Dictionary: u32 entry count, then that many
// entries of (ref type, pointer[, UTF-16 name for DICTIONARY/SAMPLE]).
func readDictionary(r *bytestream.Reader) ([]dictEntry, error) {
	count, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	entries := make([]dictEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		refType, err := r.U32(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		pointer, err := r.U32(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		e := dictEntry{Type: dictRefType(refType), Pointer: pointer}
		if e.Type == dictRefDictionary || e.Type == dictRefSample {
			name, err := r.UTF16LEString()
			if err != nil {
				return nil, err
			}
			e.Name = name
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ScanK2Monolith locates the embedded WAV payloads of a Kontakt 2 monolith
// and the offset of the trailing ZLIB-compressed preset XML.
func ScanK2Monolith(r *bytestream.Reader, n notifier.Notifier) (*K2Monolith, error) {
	dictOffset := r.Offset()
	entries, err := readDictionary(r)
	if err != nil {
		return nil, err
	}

	var nkiPointer int64 = -1
	var samplesDict *dictEntry
	for i := range entries {
		e := &entries[i]
		if e.Type == dictRefNKI {
			nkiPointer = int64(e.Pointer)
		}
		if e.Type == dictRefDictionary && e.Name == "Samples" {
			samplesDict = e
		}
	}
	if nkiPointer < 0 {
		return nil, &codecerr.BadMagic{Offset: dictOffset, Verb: "locate NKI entry in Kontakt 2 monolith dictionary"}
	}

	var sampleNames []string
	if samplesDict != nil {
		if err := r.Seek(int64(samplesDict.Pointer)); err != nil {
			return nil, err
		}
		subEntries, err := readDictionary(r)
		if err != nil {
			return nil, err
		}
		for _, e := range subEntries {
			if e.Type == dictRefSample {
				sampleNames = append(sampleNames, e.Name)
			}
		}
	}

	positions, err := r.ScanBackward(k2WavMagic, nkiPointer-4, len(sampleNames))
	if err != nil {
		return nil, err
	}
	if len(positions) != len(sampleNames) {
		return nil, &codecerr.MonolithSampleCountMismatch{
			Expected: len(sampleNames), Found: len(positions), Offset: nkiPointer,
		}
	}

	wavOffsets := make([]int64, len(positions))
	for i, pos := range positions {
		wavOffsets[i] = pos + 31
	}

	if n != nil {
		n.Log("kontakt2_monolith_scanned", map[string]any{"sample_count": len(sampleNames)})
	}

	return &K2Monolith{
		SampleNames: sampleNames,
		WavOffsets:  wavOffsets,
		ZlibOffset:  nkiPointer + 27 + 170,
	}, nil
}
