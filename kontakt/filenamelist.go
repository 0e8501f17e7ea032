// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
)

// decodeFilenameList decodes a FILENAME_LIST (0x3D) / FILENAME_LIST2 (0x4B)
// chunk's public payload: a count-prefixed array of UTF-16LE filenames,
// indexed by the FilenameID a ZONE's sample descriptor carries.
func decodeFilenameList(c *chunktree.Chunk) ([]string, error) {
	r := bytestream.NewReader(bytes.NewReader(c.Pub))
	count, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	names := make([]string, count)
	for i := range names {
		s, err := r.UTF16LEString()
		if err != nil {
			return nil, err
		}
		names[i] = s
	}
	return names, nil
}

// findFilenameList looks for a FILENAME_LIST/FILENAME_LIST2 child among a
// PROGRAM chunk's direct children.
func findFilenameList(c *chunktree.Chunk) []string {
	if c == nil {
		return nil
	}
	for _, child := range c.Children {
		if child.ID == chunktree.FilenameList || child.ID == chunktree.FilenameList2 {
			names, err := decodeFilenameList(child)
			if err == nil {
				return names
			}
		}
	}
	return nil
}
