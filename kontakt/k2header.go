// sampleconv
// Licensed under MIT

package kontakt

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/notifier"
)

// k2Epoch is the origin of Kontakt's "seconds since 1904-01-01 UTC"
// timestamp convention. 1904-01-01 to 1970-01-01 is 66 years
// including 17 leap days.
var k2Epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// knownBlockIDs is the fixed set of recognized NKI 2 block identifiers
//. Unknown values log a warning but do not fail.
var knownBlockIDs = map[string]bool{
	"2noK": true, "Kon3": true, "3noK": true, "4noK": true, "iPkA": true,
}

// K2Header is the decoded Kontakt 2-4.1 classic header.
type K2Header struct {
	Version    Version
	BlockID    string
	Timestamp  time.Time
	IconID     uint32
	IconName   string
	Author     string
	Website    string
	IsMonolith bool
}

// FormattedTimestamp renders h.Timestamp in Kontakt's own display
// convention: UTC+1, "dd.MM.yyyy HH:mm:ss".
func (h *K2Header) FormattedTimestamp() string {
	return h.Timestamp.In(time.FixedZone("UTC+1", 3600)).Format("02.01.2006 15:04:05")
}

// ParseK2Header decodes the classic header in order, after the caller has
// already consumed the ZLIB-length u32 and the 8 unused bytes that precede
// it. It returns codecerr.UnsupportedVersion for the hard-rejected NKI 4.2
// release (step 10, B3).
func ParseK2Header(r *bytestream.Reader, n notifier.Notifier) (*K2Header, error) {
	h := &K2Header{}

	// Step 1: version triplet.
	var triplet [4]byte
	raw, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	copy(triplet[:], raw)
	h.Version = parseVersionTriplet(triplet)

	// Step 2: 4-byte block ID.
	blockID, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	h.BlockID = string(blockID)
	if !knownBlockIDs[h.BlockID] && n != nil {
		n.Log("unknown_block_id", map[string]any{"block_id": h.BlockID})
	}

	// Step 3: LSB timestamp (seconds since 1904-01-01 UTC).
	ts, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	h.Timestamp = k2Epoch.Add(time.Duration(ts) * time.Second)

	// Step 4: 26 unknown bytes.
	if err := r.Skip(26); err != nil {
		return nil, err
	}

	// Step 5: icon ID.
	iconID, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	h.IconID = iconID
	h.IconName = IconName(iconID)

	// Step 6: 8 ASCII author bytes, trimmed.
	author, err := r.FixedASCII(8)
	if err != nil {
		return nil, err
	}
	h.Author = strings.TrimSpace(author)

	// Step 7: 3 unknown bytes.
	if err := r.Skip(3); err != nil {
		return nil, err
	}

	// Step 8: 86 ASCII website bytes.
	website, err := r.FixedASCII(86)
	if err != nil {
		return nil, err
	}
	website = strings.TrimSpace(website)
	if website != "(null)" && website != "" {
		h.Website = website
	}

	// Step 9: 7 unknown bytes.
	if err := r.Skip(7); err != nil {
		return nil, err
	}

	// Step 10: hard reject NKI 4.2.
	if h.Version.IsUnsupported42() {
		return nil, &codecerr.UnsupportedVersion{
			Version: h.Version.Major*100 + h.Version.Release,
			Offset:  r.Offset(),
			Verb:    fmt.Sprintf("parse Kontakt 2 header (version %s)", h.Version),
		}
	}

	// Step 11: 4 unknown bytes.
	if err := r.Skip(4); err != nil {
		return nil, err
	}

	// Step 12: patch level, overriding the step-1 placeholder.
	patch, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	h.Version.Patch = int(patch)

	// Step 13: peek one byte; anything but 0x78 (ZLIB header) means monolith.
	peekOffset := r.Offset()
	b, err := r.U8()
	if err != nil {
		return nil, err
	}
	if err := r.Seek(peekOffset); err != nil {
		return nil, err
	}
	h.IsMonolith = b != 0x78

	if n != nil {
		n.Log("detected_kontakt_version", map[string]any{"version": h.Version.String(), "format": "NKI 2-4.1"})
	}

	return h, nil
}
