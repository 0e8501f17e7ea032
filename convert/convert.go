// sampleconv
// Licensed under MIT

// Package convert is the format dispatcher (C7) and library-level
// conversion driver: given an input file it detects the family and version,
// routes to the Kontakt or YSFC codec, and exposes the write entry points a
// batch worker or outer CLI would call. It owns no state and reads no
// environment; everything arrives as explicit arguments.
package convert

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/kontakt"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
	"github.com/mukunda-go/sampleconv/ysfc"
)

// ErrUnknownFormat is returned when neither the magic bytes nor the file
// extension identify a supported family.
var ErrUnknownFormat = errors.New("unknown or unsupported sample library format")

// Family identifies which codec owns a file.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyKontakt
	FamilyYSFC
)

func (f Family) String() string {
	switch f {
	case FamilyKontakt:
		return "Kontakt"
	case FamilyYSFC:
		return "YSFC"
	default:
		return "unknown"
	}
}

// kontaktExtensions and ysfcExtensions are the dispatcher's extension map.
var kontaktExtensions = map[string]bool{
	".nki": true, ".nkm": true, ".nkr": true,
}

var ysfcExtensions = map[string]bool{
	".x7u": true, ".x7l": true, ".x7a": true,
	".x8u": true, ".x8l": true, ".x8a": true,
	".x0a": true, ".x0w": true, ".x3a": true, ".x3w": true,
	".x6a": true, ".x6w": true,
}

// FamilyForExtension maps a file path's extension to its codec family.
func FamilyForExtension(path string) Family {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case kontaktExtensions[ext]:
		return FamilyKontakt
	case ysfcExtensions[ext]:
		return FamilyYSFC
	default:
		return FamilyUnknown
	}
}

// DetectFamily inspects the first 16 bytes of r (restoring the cursor) and
// classifies the file: the YSFC header magic, the NI
// Container "hsin" tag or monolith file-container magic for Kontakt 5+, or
// a plausible leading ZLIB size for the classic Kontakt 2 layout.
func DetectFamily(r *bytestream.Reader) (Family, error) {
	start := r.Offset()
	header, err := r.Bytes(16)
	if err != nil {
		return FamilyUnknown, err
	}
	if err := r.Seek(start); err != nil {
		return FamilyUnknown, err
	}

	if strings.HasPrefix(string(header), ysfc.HeaderMagic) {
		return FamilyYSFC, nil
	}
	if string(header[12:16]) == "hsin" || string(header) == "/\\ NI FC MTD  /\\" {
		return FamilyKontakt, nil
	}

	total, err := r.Len()
	if err != nil {
		return FamilyUnknown, err
	}
	zlibSize := int64(binary.LittleEndian.Uint32(header[0:4]))
	if zlibSize > 0 && zlibSize < total-12 {
		return FamilyKontakt, nil
	}

	return FamilyUnknown, nil
}

// Decode routes an open stream to the right codec and returns the first
// multi-sample it holds.
func Decode(r *bytestream.Reader, n notifier.Notifier, name string) (*multisample.MultiSample, error) {
	if n == nil {
		n = notifier.Nop()
	}
	family, err := DetectFamily(r)
	if err != nil {
		return nil, err
	}

	switch family {
	case FamilyYSFC:
		lib, err := ysfc.Decode(r, n)
		if err != nil {
			return nil, err
		}
		if len(lib.MultiSamples) == 0 {
			return nil, fmt.Errorf("convert: YSFC library holds no waveforms")
		}
		return lib.MultiSamples[0], nil
	case FamilyKontakt:
		return decodeKontakt(r, n, name)
	default:
		return nil, ErrUnknownFormat
	}
}

func decodeKontakt(r *bytestream.Reader, n notifier.Notifier, name string) (*multisample.MultiSample, error) {
	format, err := kontakt.Detect(r)
	if err != nil {
		return nil, err
	}
	n.Log("detected_format", map[string]any{"format": format.String()})

	switch format {
	case kontakt.FormatNKI5:
		decoded, err := kontakt.DecodeNKI5(r, n)
		if err != nil {
			return nil, err
		}
		if decoded.MultiSample == nil {
			return nil, fmt.Errorf("convert: preset holds no decodable program")
		}
		return decoded.MultiSample, nil

	case kontakt.FormatNKI5Monolith:
		mono, err := kontakt.DecodeMonolith5(r, n)
		if err != nil {
			return nil, err
		}
		mainName, mainData, ok := mono.MainFile()
		if !ok {
			return nil, fmt.Errorf("convert: monolith holds no .nki/.nkm entry")
		}
		inner := bytestream.NewReader(bytes.NewReader(mainData))
		decoded, err := kontakt.DecodeNKI5(inner, n)
		if err != nil {
			return nil, err
		}
		if decoded.MultiSample == nil {
			return nil, fmt.Errorf("convert: monolith preset holds no decodable program")
		}
		if decoded.MultiSample.Name == "" {
			decoded.MultiSample.Name = mainName
		}
		if err := mono.SubstituteSamples(decoded.MultiSample); err != nil {
			return nil, err
		}
		return decoded.MultiSample, nil

	case kontakt.FormatNKI2:
		res, err := kontakt.DecodeNKI2(r, n)
		if err != nil {
			return nil, err
		}
		return res.MultiSampleFromK2(name), nil

	default:
		return nil, ErrUnknownFormat
	}
}

// ConvertFile opens a file, detects its format by magic, and decodes it
// into the shared model. The file extension is not consulted.
func ConvertFile(inputPath string, n notifier.Notifier) (*multisample.MultiSample, error) {
	if n == nil {
		n = notifier.Nop()
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	r := bytestream.NewReader(file)
	ms, err := Decode(r, n, name)
	if err != nil {
		return nil, err
	}
	ms.SourcePath = inputPath
	ms.PathParts = strings.Split(filepath.ToSlash(filepath.Dir(inputPath)), "/")
	return ms, nil
}

// WriteKontakt encodes ms as a fresh NKI 5+ file.
func WriteKontakt(ms *multisample.MultiSample, w io.Writer, n notifier.Notifier) error {
	if n == nil {
		n = notifier.Nop()
	}
	base, err := kontakt.NewEmptyNKI5(ms)
	if err != nil {
		return err
	}
	return kontakt.WriteNKI5(base, ms, bytestream.NewWriter(w), n)
}

// WriteYSFC encodes ms as a Montage user library. Use WriteYSFCFor to
// target a different workstation.
func WriteYSFC(ms *multisample.MultiSample, w io.Writer, n notifier.Notifier) error {
	return WriteYSFCFor(ms, ysfc.Montage, w, n)
}

// WriteYSFCFor encodes ms as a YSFC library for the given workstation.
func WriteYSFCFor(ms *multisample.MultiSample, ws ysfc.Workstation, w io.Writer, n notifier.Notifier) error {
	if n == nil {
		n = notifier.Nop()
	}
	return ysfc.Write([]*multisample.MultiSample{ms}, ws, bytestream.NewWriter(w), n)
}
