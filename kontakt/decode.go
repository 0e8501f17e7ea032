// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/nicontainer"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Decoded5 is the result of decoding an NKI 5+ file: the assembled model
// plus everything needed to round-trip unknown bytes on write.
type Decoded5 struct {
	MultiSample *multisample.MultiSample
	Performance *multisample.Performance

	// Program and ProgramChunk are the decoded struct and original chunk
	// for the single top-level PROGRAM this file carried (nil for a
	// PROGRAM_CONTAINER multi); WriteNKI5 mutates Program in place from an
	// edited MultiSample and re-encodes ProgramChunk's Pub/children from it,
	// leaving every other top-level chunk untouched.
	Program      *Program
	ProgramChunk *chunktree.Chunk

	// TopLevelChunks holds every top-level chunk parsed out of the
	// PRESET_CHUNK_ITEM payload, in original order, so a writer that only
	// understands PROGRAM/GROUP_LIST/ZONE_LIST can still reproduce
	// QUICK_BROWSE/INSERT_BUS/SAVE_SETTINGS/BANK/VOICE_GROUPS bytes
	// verbatim.
	TopLevelChunks []*chunktree.Chunk

	Item *nicontainer.Item
}

// parsePresetChunkTree reads every top-level Chunk out of a PRESET_CHUNK_ITEM
// payload (there is ordinarily exactly one PROGRAM or PROGRAM_CONTAINER, but
// sibling BANK/VOICE_GROUPS/QUICK_BROWSE/INSERT_BUS/SAVE_SETTINGS chunks can
// appear alongside it).
func parsePresetChunkTree(payload []byte) ([]*chunktree.Chunk, error) {
	r := bytestream.NewReader(bytes.NewReader(payload))
	total := int64(len(payload))
	var chunks []*chunktree.Chunk
	for r.Offset() < total {
		c, err := chunktree.Parse(r, "", 0)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// DecodeNKI5 decodes a plain (non-monolith) NKI 5+ stream: an NI Container
// whose AuthoringApplication chunk must say KONTAKT and whose
// PRESET_CHUNK_ITEM holds the preset-chunk tree.
func DecodeNKI5(r *bytestream.Reader, n notifier.Notifier) (*Decoded5, error) {
	item, err := nicontainer.Parse(r, n)
	if err != nil {
		return nil, err
	}
	if err := nicontainer.VerifyKontaktAuthoring(item, n); err != nil {
		return nil, err
	}

	dc, ok := nicontainer.Find(item, nicontainer.ChunkPresetChunkItem, n)
	if !ok {
		return nil, &codecerr.Truncated{Verb: "find PRESET_CHUNK_ITEM"}
	}

	chunks, err := parsePresetChunkTree(dc.Data)
	if err != nil {
		return nil, err
	}

	result := &Decoded5{TopLevelChunks: chunks, Item: item}

	for _, c := range chunks {
		switch c.ID {
		case chunktree.Program:
			p, err := DecodeProgram(c, n)
			if err != nil {
				return nil, err
			}
			filenames := findFilenameList(c)
			result.MultiSample = Assemble(p, filenames, n)
			result.Program = p
			result.ProgramChunk = c
		case chunktree.ProgramContainer:
			perf, err := DecodeProgramContainer(c, n)
			if err != nil {
				return nil, err
			}
			result.Performance = perf
			if len(perf.Parts) > 0 {
				result.MultiSample = perf.Parts[0].Program
			}
		}
	}

	if result.MultiSample == nil && result.Performance == nil {
		return nil, &codecerr.Truncated{Verb: "decode Kontakt preset: no PROGRAM or PROGRAM_CONTAINER found"}
	}

	if result.MultiSample != nil {
		if err := result.MultiSample.Validate(); err != nil {
			if n != nil {
				n.LogError("multisample_validate_failed", err, nil)
			}
		}
	}

	return result, nil
}
