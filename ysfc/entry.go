// sampleconv
// Licensed under MIT

package ysfc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/mukunda-go/sampleconv/bytestream"
)

// Entry is one record of an entry-list chunk, describing the same-index
// data item of the paired data chunk.
type Entry struct {
	// ItemSize and ItemOffset locate the paired data item inside its data
	// chunk; Encode recomputes both from the actual data items, while
	// File.Write writes them as they stand.
	ItemSize   uint32
	ItemOffset uint32

	// SpecificValue is type-dependent (e.g. the program number for a
	// performance entry).
	SpecificValue uint32

	// EntryID occupies the first four of the six flag bytes; the write path
	// renumbers IDs starting at 10001. FlagsTail preserves
	// the remaining two bytes verbatim.
	EntryID   uint32
	FlagsTail [2]byte

	Timestamp uint32

	Name  string
	Title string

	// AdditionalData is the uninterpreted remainder after the two strings;
	// only performance entries carry any.
	AdditionalData []byte
}

func parseEntry(body []byte) (*Entry, error) {
	r := bytestream.NewReader(bytes.NewReader(body))
	e := &Entry{}
	var err error
	if e.ItemSize, err = r.U32(binary.BigEndian); err != nil {
		return nil, err
	}
	if e.ItemOffset, err = r.U32(binary.BigEndian); err != nil {
		return nil, err
	}
	if e.SpecificValue, err = r.U32(binary.BigEndian); err != nil {
		return nil, err
	}
	if e.EntryID, err = r.U32(binary.BigEndian); err != nil {
		return nil, err
	}
	tail, err := r.Bytes(2)
	if err != nil {
		return nil, err
	}
	copy(e.FlagsTail[:], tail)
	if e.Timestamp, err = r.U32(binary.BigEndian); err != nil {
		return nil, err
	}
	if e.Name, err = r.NulString(); err != nil {
		return nil, err
	}
	if e.Title, err = r.NulString(); err != nil {
		return nil, err
	}
	if rest := len(body) - int(r.Offset()); rest > 0 {
		if e.AdditionalData, err = r.Bytes(rest); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Entry) encode() []byte {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	_ = w.U32(binary.BigEndian, e.ItemSize)
	_ = w.U32(binary.BigEndian, e.ItemOffset)
	_ = w.U32(binary.BigEndian, e.SpecificValue)
	_ = w.U32(binary.BigEndian, e.EntryID)
	_ = w.Bytes(e.FlagsTail[:])
	_ = w.U32(binary.BigEndian, e.Timestamp)
	_ = w.NulString(e.Name)
	_ = w.NulString(e.Title)
	_ = w.Bytes(e.AdditionalData)
	return buf.Bytes()
}

// SplitEntryName splits a waveform entry name of the form
// "<categoryIndex>:<name>" into its category hint and base name
//. Names without the prefix return -1.
func SplitEntryName(name string) (category int, base string) {
	i := strings.IndexByte(name, ':')
	if i <= 0 {
		return -1, name
	}
	n, err := strconv.Atoi(name[:i])
	if err != nil {
		return -1, name
	}
	return n, name[i+1:]
}

// JoinEntryName is the inverse of SplitEntryName. A negative category
// produces a bare name.
func JoinEntryName(category int, base string) string {
	if category < 0 {
		return base
	}
	return fmt.Sprintf("%d:%s", category, base)
}
