// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/notifier"
)

// MaxProgramChunkVersion is the highest PROGRAM chunk version this decoder
// understands; anything above is a hard reject.
const MaxProgramChunkVersion = 0xB1

// Program is the decoded form of a PROGRAM chunk.
type Program struct {
	ChunkVersion uint16

	Name           string
	SamplePoolSize float64
	Transpose      int8
	Volume         float32
	Pan            float32
	Tune           float32
	ClipLowKey     uint8
	ClipHighKey    uint8
	ClipLowVel     uint8
	ClipHighVel    uint8
	DefaultKeySwitch uint16
	Preload        uint32
	LibraryID      uint32
	Fingerprint    uint32
	LoadingFlags   uint32
	GroupSolo      uint8
	IconID         uint32
	Credits        string
	Author         string
	URL            string
	CategoryIdx    [3]uint16

	// Trailing preserves the version-dependent tail verbatim so round-trip
	// write reproduces bytes this decoder doesn't model.
	Trailing []byte

	Groups []*Group
}

func nullableK2String(s string) string {
	if s == "(null)" || s == "" {
		return ""
	}
	return s
}

// DecodeProgram decodes a PROGRAM chunk's public payload and its GROUP_LIST
// child.
func DecodeProgram(c *chunktree.Chunk, n notifier.Notifier) (*Program, error) {
	if c.Version > MaxProgramChunkVersion {
		return nil, &codecerr.UnsupportedVersion{Version: int(c.Version), Verb: "decode PROGRAM chunk"}
	}

	r := bytestream.NewReader(bytes.NewReader(c.Pub))
	p := &Program{ChunkVersion: c.Version}

	var err error
	if p.Name, err = r.UTF16LEString(); err != nil {
		return nil, err
	}
	if p.SamplePoolSize, err = r.F64(); err != nil {
		return nil, err
	}
	if p.Transpose, err = r.S8(); err != nil {
		return nil, err
	}
	if p.Volume, err = r.F32(); err != nil {
		return nil, err
	}
	if p.Pan, err = r.F32(); err != nil {
		return nil, err
	}
	if p.Tune, err = r.F32(); err != nil {
		return nil, err
	}
	clips := make([]uint8, 4)
	for i := range clips {
		if clips[i], err = r.U8(); err != nil {
			return nil, err
		}
	}
	p.ClipLowKey, p.ClipHighKey, p.ClipLowVel, p.ClipHighVel = clips[0], clips[1], clips[2], clips[3]
	if p.DefaultKeySwitch, err = r.U16(binary.LittleEndian); err != nil {
		return nil, err
	}
	u32s := make([]uint32, 4)
	for i := range u32s {
		if u32s[i], err = r.U32(binary.LittleEndian); err != nil {
			return nil, err
		}
	}
	p.Preload, p.LibraryID, p.Fingerprint, p.LoadingFlags = u32s[0], u32s[1], u32s[2], u32s[3]
	if p.GroupSolo, err = r.U8(); err != nil {
		return nil, err
	}
	if p.IconID, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if p.Credits, err = r.UTF16LEString(); err != nil {
		return nil, err
	}
	p.Credits = nullableK2String(p.Credits)
	if p.Author, err = r.UTF16LEString(); err != nil {
		return nil, err
	}
	p.Author = nullableK2String(p.Author)
	if p.URL, err = r.UTF16LEString(); err != nil {
		return nil, err
	}
	p.URL = nullableK2String(p.URL)
	for i := range p.CategoryIdx {
		if p.CategoryIdx[i], err = r.U16(binary.LittleEndian); err != nil {
			return nil, err
		}
	}

	remaining := int64(len(c.Pub)) - r.Offset()
	if remaining > 0 {
		if p.Trailing, err = r.Bytes(int(remaining)); err != nil {
			return nil, err
		}
	}

	for _, child := range c.Children {
		if child.ID != chunktree.GroupList {
			continue
		}
		for _, gc := range child.Children {
			g, err := DecodeGroup(gc, n)
			if err != nil {
				return nil, err
			}
			p.Groups = append(p.Groups, g)
		}
	}

	if n != nil {
		n.Log("decoded_program", map[string]any{"name": p.Name, "groups": len(p.Groups)})
	}

	return p, nil
}
