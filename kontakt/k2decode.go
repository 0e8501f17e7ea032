// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
)

// XMLParser is the opaque collaborator interface for the legacy NKI 2
// preset XML. The core inflates the payload and hands the
// bytes over; it never interprets the DOM itself.
type XMLParser interface {
	Parse(data []byte) (any, error)
}

// K2Result is a decoded NKI 2-4.1 file: the classic header, the monolith
// scan result when the file embeds its samples, and the inflated preset XML
// for a collaborator to interpret.
type K2Result struct {
	Header   *K2Header
	Monolith *K2Monolith
	XML      []byte

	// Samples holds the raw embedded WAV payloads keyed by monolith sample
	// name; nil for non-monolith files.
	Samples map[string][]byte
}

// DecodeNKI2 decodes the classic Kontakt 2-4.1 layout: the u32 ZLIB length
// and 8 unused bytes, the classic header, then — when the post-header byte
// is not a ZLIB marker — the monolith scan, and finally the inflated preset
// XML.
func DecodeNKI2(r *bytestream.Reader, n notifier.Notifier) (*K2Result, error) {
	zlibLen, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(8); err != nil {
		return nil, err
	}

	h, err := ParseK2Header(r, n)
	if err != nil {
		return nil, err
	}

	res := &K2Result{Header: h}

	if h.IsMonolith {
		mono, err := ScanK2Monolith(r, n)
		if err != nil {
			return nil, err
		}
		res.Monolith = mono
		res.Samples = map[string][]byte{}

		// Embedded WAVs are laid out one after another; each payload runs
		// to the next recovered offset (the last to the dictionary area).
		for i, name := range mono.SampleNames {
			start := mono.WavOffsets[i]
			end := mono.ZlibOffset - 27 - 170
			if i+1 < len(mono.WavOffsets) {
				end = mono.WavOffsets[i+1]
			}
			if err := r.Seek(start); err != nil {
				return nil, err
			}
			data, err := r.Bytes(int(end - start))
			if err != nil {
				return nil, err
			}
			res.Samples[name] = data
		}

		if err := r.Seek(mono.ZlibOffset); err != nil {
			return nil, err
		}
	}

	// The ZLIB length counts the compressed block; inflate it through the
	// standard library.
	compressed, err := r.Bytes(int(zlibLen))
	if err != nil {
		return nil, err
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	xml, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	res.XML = xml

	return res, nil
}

// MultiSampleFromK2 builds the best model available without interpreting
// the preset XML: name and metadata from the header, one group, and one
// full-range zone per embedded monolith sample. A caller with a real
// XMLParser collaborator refines this with the actual zone mapping.
func (res *K2Result) MultiSampleFromK2(name string) *multisample.MultiSample {
	ms := &multisample.MultiSample{Name: name}
	ms.Metadata.Creator = res.Header.Author
	ms.Metadata.CreationDate = res.Header.Timestamp
	ms.Metadata.Category = res.Header.IconName

	if res.Monolith == nil {
		return ms
	}
	group := &multisample.Group{Trigger: multisample.TriggerAttack, KeyTracking: true}
	for _, sampleName := range res.Monolith.SampleNames {
		group.Zones = append(group.Zones, &multisample.SampleZone{
			Name: sampleName, KeyHigh: 127, VelHigh: 127, RootKey: 60,
			KeyTrackingScalar: 1,
			Data:              &multisample.SampleData{Inline: res.Samples[sampleName], Handle: sampleName},
		})
	}
	ms.Groups = append(ms.Groups, group)
	return ms
}
