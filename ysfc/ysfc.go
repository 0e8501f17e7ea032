// sampleconv
// Licensed under MIT

// Package ysfc implements the Yamaha YSFC codec (C6): reading and writing
// the library container used by the Motif XS/XF, MOXF, Montage and MODX
// workstations. The container is a catalog-indexed sequence of chunk pairs
// (entry list <-> data list) holding performances, waveforms (multi-sample
// metadata) and wave images (raw sample payloads).
//
// Nearly every framing field in this family is big-endian, but the
// version-2 key-bank switches its position block to little-endian, which is
// why every read below names its byte order explicitly.
package ysfc

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/notifier"
)

// HeaderMagic is the 11-byte signature at the start of every YSFC file,
// right-padded with spaces to 16 bytes on the wire.
const HeaderMagic = "YAMAHA-YSFC"

// Workstation is the device family inferred from the file version.
type Workstation int

const (
	MotifXS Workstation = iota
	MotifXF
	MOXF
	Montage
	MODX
)

func (w Workstation) String() string {
	switch w {
	case MotifXS:
		return "Motif XS"
	case MotifXF:
		return "Motif XF"
	case MOXF:
		return "MOXF"
	case Montage:
		return "Montage"
	case MODX:
		return "MODX"
	default:
		return "unknown"
	}
}

// DefaultVersion returns the version string this codec writes for files
// targeting w.
func (w Workstation) DefaultVersion() string {
	switch w {
	case MotifXS:
		return "1.0.1"
	case MotifXF:
		return "1.0.2"
	case MOXF:
		return "1.0.3"
	case Montage:
		return "4.0.5"
	default:
		return "5.0.0"
	}
}

// FileExtension returns the user-sample library extension conventional for w.
func (w Workstation) FileExtension() string {
	switch w {
	case MotifXS:
		return ".x0w"
	case MotifXF:
		return ".x3w"
	case MOXF:
		return ".x6w"
	case Montage:
		return ".x7u"
	default:
		return ".x8u"
	}
}

// ParseVersionNumber converts a dotted version string to its decimal form:
// "4.0.4" -> 404.
func ParseVersionNumber(version string) int {
	parts := strings.SplitN(strings.TrimSpace(version), ".", 3)
	n := 0
	for i := 0; i < 3; i++ {
		n *= 10
		if i < len(parts) {
			d, err := strconv.Atoi(parts[i])
			if err == nil {
				n += d
			}
		}
	}
	return n
}

// WorkstationFromVersion infers the device family from a decimal version
// number.
func WorkstationFromVersion(version int) Workstation {
	switch {
	case version <= 101:
		return MotifXS
	case version == 102:
		return MotifXF
	case version < 400:
		return MOXF
	case version < 500:
		return Montage
	default:
		return MODX
	}
}

// File is a decoded YSFC envelope: the header fields, the (uninterpreted)
// library block, and every chunk in read order. Write emits the known chunk
// IDs in its fixed order and any other chunks after them.
type File struct {
	Version       string
	VersionNumber int
	MaxEntryID    uint32

	// Library holds the raw library-reference block. This implementation
	// requires self-contained files: the block is carried and re-written
	// verbatim but never interpreted.
	Library []byte

	Chunks []*Chunk
}

// Workstation returns the device family this file targets.
func (f *File) Workstation() Workstation {
	return WorkstationFromVersion(f.VersionNumber)
}

// usesVersion1KeyBanks reports whether key-banks in this file use the
// pre-Montage layout (big-endian positions, halved levels).
func (f *File) usesVersion1KeyBanks() bool {
	return f.VersionNumber < 400
}

// Chunk returns the chunk with the given 4-character ID, or nil.
func (f *File) Chunk(id string) *Chunk {
	for _, c := range f.Chunks {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Read parses the 64-byte header, the catalog, the library block, and every
// chunk until EOF.
func Read(r *bytestream.Reader, n notifier.Notifier) (*File, error) {
	magic, err := r.FixedASCII(16)
	if err != nil {
		return nil, err
	}
	magic = strings.TrimRight(magic, " ")
	if magic != HeaderMagic {
		return nil, &codecerr.BadMagic{Expected: HeaderMagic, Got: magic, Offset: 0, Verb: "read YSFC header"}
	}

	version, err := r.FixedASCII(16)
	if err != nil {
		return nil, err
	}

	catalogSize, err := r.U32(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(12); err != nil {
		return nil, err
	}
	librarySize, err := r.U32(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	if librarySize == 0xFFFFFFFF {
		librarySize = 0
	}
	if err := r.Skip(8); err != nil {
		return nil, err
	}
	maxEntryID, err := r.U32(binary.BigEndian)
	if err != nil {
		return nil, err
	}

	f := &File{
		Version:       version,
		VersionNumber: ParseVersionNumber(version),
		MaxEntryID:    maxEntryID,
	}

	// The catalog pre-announces each chunk's absolute offset. Chunks are
	// stored back to back after the library block, so the offsets are
	// redundant on read and are not compared with the chunk positions; only
	// a cataloged ID with no matching chunk is logged. The catalog is
	// regenerated on write.
	type catalogRow struct {
		id     string
		offset uint32
	}
	var catalog []catalogRow
	for read := uint32(0); read+8 <= catalogSize; read += 8 {
		id, err := r.FixedASCII(4)
		if err != nil {
			return nil, err
		}
		off, err := r.U32(binary.BigEndian)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, catalogRow{id, off})
	}

	if librarySize > 0 {
		f.Library, err = r.Bytes(int(librarySize))
		if err != nil {
			return nil, err
		}
	}

	total, err := r.Len()
	if err != nil {
		return nil, err
	}
	for r.Offset() < total {
		c, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		f.Chunks = append(f.Chunks, c)
	}

	for _, row := range catalog {
		if f.Chunk(row.id) == nil && n != nil {
			n.Log("ysfc_catalog_orphan", map[string]any{"chunk": row.id, "offset": row.offset})
		}
	}

	if n != nil {
		n.Log("ysfc_read", map[string]any{
			"version":     strings.TrimSpace(version),
			"workstation": f.Workstation().String(),
			"chunks":      len(f.Chunks),
		})
	}

	return f, nil
}

// chunkWriteOrder is the fixed chunk order the write path emits and the
// catalog indexes.
var chunkWriteOrder = []string{"EPFM", "EWFM", "EWIM", "DPFM", "DWFM", "DWIM"}

// Write serializes the file: header, regenerated catalog, library block,
// then each chunk in the fixed write order. Chunks not in
// the fixed order (none are produced by this codec, but a read-modify-write
// of a foreign file may carry some) are appended after the known ones.
func (f *File) Write(w *bytestream.Writer) error {
	ordered := make([]*Chunk, 0, len(f.Chunks))
	seen := map[string]bool{}
	for _, id := range chunkWriteOrder {
		if c := f.Chunk(id); c != nil {
			ordered = append(ordered, c)
			seen[id] = true
		}
	}
	for _, c := range f.Chunks {
		if !seen[c.ID] {
			ordered = append(ordered, c)
		}
	}

	serialized := make([][]byte, len(ordered))
	for i, c := range ordered {
		b, err := c.encode()
		if err != nil {
			return fmt.Errorf("ysfc: chunk %s: %w", c.ID, err)
		}
		serialized[i] = b
	}

	catalogSize := uint32(len(ordered) * 8)
	base := uint32(64) + catalogSize + uint32(len(f.Library))

	if err := w.FixedASCII(16, HeaderMagic, ' '); err != nil {
		return err
	}
	if err := w.FixedASCII(16, f.Version, 0x00); err != nil {
		return err
	}
	if err := w.U32(binary.BigEndian, catalogSize); err != nil {
		return err
	}
	if err := w.Pad(12, 0xFF); err != nil {
		return err
	}
	librarySize := uint32(len(f.Library))
	if librarySize == 0 {
		librarySize = 0xFFFFFFFF
	}
	if err := w.U32(binary.BigEndian, librarySize); err != nil {
		return err
	}
	if err := w.Pad(8, 0xFF); err != nil {
		return err
	}
	if err := w.U32(binary.BigEndian, f.MaxEntryID); err != nil {
		return err
	}

	offset := base
	for i, c := range ordered {
		if err := w.Tag(c.ID); err != nil {
			return err
		}
		if err := w.U32(binary.BigEndian, offset); err != nil {
			return err
		}
		offset += uint32(len(serialized[i]))
	}

	if err := w.Bytes(f.Library); err != nil {
		return err
	}
	for _, b := range serialized {
		if err := w.Bytes(b); err != nil {
			return err
		}
	}
	return nil
}
