// sampleconv
// Licensed under MIT

package kontakt

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
)

// monolith5TOCMagic is the literal at the start of the table-of-contents
// block.
const monolith5TOCMagic = "/\\ NI FC TOC   /\\"

// maxMonolith5FileSize rejects any single embedded file at or above 4 GiB.
const maxMonolith5FileSize = int64(4) << 30

// Monolith5File is one entry of an NI File-Container's table of contents.
type Monolith5File struct {
	Index     uint64
	Name      string
	EndOffset uint64
}

// Monolith5 is a decoded Kontakt 5+ NI File-Container: distinct from the
// legacy Kontakt 2 inline monolith (k2monolith.go) — this is a proper
// archive wrapping an inner NKI plus its sample payloads.
type Monolith5 struct {
	Files   []Monolith5File
	Payload map[string][]byte // file name -> raw bytes, keyed by TOC name
}

// DecodeMonolith5 reads the NI File-Container header, TOC, and contiguous
// file-payload section.
func DecodeMonolith5(r *bytestream.Reader, n notifier.Notifier) (*Monolith5, error) {
	if err := r.Expect(monolith5Magic, "decode monolith5 header magic"); err != nil {
		return nil, err
	}
	if err := r.Skip(248); err != nil {
		return nil, err
	}
	if err := r.Skip(8); err != nil { // end marker
		return nil, err
	}
	fileCount, err := r.U64(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	if _, err := r.U64(binary.LittleEndian); err != nil { // total-size
		return nil, err
	}

	if err := r.Expect(monolith5TOCMagic, "decode monolith5 TOC magic"); err != nil {
		return nil, err
	}
	if err := r.Skip(600); err != nil {
		return nil, err
	}

	m := &Monolith5{Payload: map[string][]byte{}}
	for i := uint64(0); i < fileCount; i++ {
		idx, err := r.U64(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		if err := r.Skip(16); err != nil {
			return nil, err
		}
		nameBytes, err := r.Bytes(600)
		if err != nil {
			return nil, err
		}
		name := decodeUTF16LEFixed(nameBytes)
		if _, err := r.U64(binary.LittleEndian); err != nil { // unused
			return nil, err
		}
		end, err := r.U64(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, Monolith5File{Index: idx, Name: name, EndOffset: end})
	}

	if err := r.Skip(16); err != nil { // files-end marker
		return nil, err
	}
	if err := r.Skip(16); err != nil { // skipped before TOC-end magic
		return nil, err
	}
	if err := r.Skip(16); err != nil { // TOC-end magic (not re-validated)
		return nil, err
	}
	if err := r.Skip(592); err != nil {
		return nil, err
	}

	var prevEnd uint64
	for _, f := range m.Files {
		length := f.EndOffset - prevEnd
		if int64(length) >= maxMonolith5FileSize {
			return nil, &codecerr.Truncated{Verb: "decode monolith5 file payload: file too large"}
		}
		data, err := r.Bytes(int(length))
		if err != nil {
			return nil, err
		}
		m.Payload[f.Name] = data
		prevEnd = f.EndOffset
	}

	if n != nil {
		n.Log("decoded_monolith5", map[string]any{"files": len(m.Files)})
	}

	return m, nil
}

// decodeUTF16LEFixed decodes a fixed-size, NUL-padded UTF-16LE byte slice
// into a Go string, stopping at the first NUL code unit.
func decodeUTF16LEFixed(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
		if units[i] == 0 {
			units = units[:i]
			break
		}
	}
	return string(utf16.Decode(units))
}

// MainFile returns the entry whose name ends in .nki (single program) or
// .nkm (multi), and its raw bytes.
func (m *Monolith5) MainFile() (string, []byte, bool) {
	for _, f := range m.Files {
		lower := strings.ToLower(f.Name)
		if strings.HasSuffix(lower, ".nki") || strings.HasSuffix(lower, ".nkm") {
			return f.Name, m.Payload[f.Name], true
		}
	}
	return "", nil, false
}

// SubstituteSamples maps .wav/.ncw TOC entries into the multi-sample's zones
// by matching zone name + extension, replacing each zone's SampleData with
// an in-memory buffer instead of a disk reference. Returns
// NoMatchingInMemoryFile for any zone whose sample isn't present in the
// container.
func (m *Monolith5) SubstituteSamples(ms *multisample.MultiSample) error {
	for _, g := range ms.Groups {
		for _, z := range g.Zones {
			if z.Name == "" {
				continue
			}
			data, ok := m.lookupSample(z.Name)
			if !ok {
				return &codecerr.NoMatchingInMemoryFile{ZoneName: z.Name, FileName: z.Name}
			}
			if z.Data == nil {
				z.Data = &multisample.SampleData{}
			}
			z.Data.Inline = data
			z.Data.Handle = z.Name
		}
	}
	return nil
}

func (m *Monolith5) lookupSample(zoneName string) ([]byte, bool) {
	base := baseName(zoneName)
	for _, ext := range []string{".wav", ".WAV", ".ncw", ".NCW"} {
		candidate := base + ext
		if data, ok := m.Payload[candidate]; ok {
			return data, true
		}
	}
	// Name may already carry its own extension.
	if data, ok := m.Payload[zoneName]; ok {
		return data, true
	}
	return nil, false
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
