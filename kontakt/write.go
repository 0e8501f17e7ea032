// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/nicontainer"
	"github.com/mukunda-go/sampleconv/notifier"
)

// buildFilenameList assigns sequential FilenameIDs across all zones of p in
// group/zone order, taking the names from the corresponding multisample
// zones (ApplyMultiSample always pairs p.Groups[i]/Zones[j] one-for-one with
// ms.Groups[i]/Zones[j]), and returns the resulting name list chunk.
func buildFilenameList(p *Program, ms *multisample.MultiSample) *chunktree.Chunk {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	var names []string
	for gi, g := range p.Groups {
		for zi, z := range g.Zones {
			if z.Sample == nil {
				continue
			}
			z.Sample.FilenameID = uint32(len(names))
			name := ""
			if gi < len(ms.Groups) && zi < len(ms.Groups[gi].Zones) {
				name = ms.Groups[gi].Zones[zi].Name
			}
			names = append(names, name)
		}
	}

	_ = w.U32(binary.LittleEndian, uint32(len(names)))
	for _, name := range names {
		_ = w.UTF16LEString(name)
	}
	return &chunktree.Chunk{ID: chunktree.FilenameList, Structured: true, Pub: buf.Bytes()}
}

// rebuildProgramChunk re-encodes the PROGRAM chunk's Pub payload, its
// GROUP_LIST child and its filename list from p (already mutated in place by
// ApplyMultiSample), preserving every other child of the original chunk
// verbatim (QUICK_BROWSE/
// INSERT_BUS/SAVE_SETTINGS-style siblings, if the original program ever
// nested them, round-trip through the "keep unknown children" path).
func rebuildProgramChunk(original *chunktree.Chunk, p *Program, ms *multisample.MultiSample) (*chunktree.Chunk, error) {
	pub, err := EncodeProgram(p)
	if err != nil {
		return nil, err
	}

	// FilenameIDs are assigned before the zones are encoded so the written
	// sample descriptors carry them.
	names := buildFilenameList(p, ms)

	groupList := &chunktree.Chunk{ID: chunktree.GroupList, Structured: true}
	for _, g := range p.Groups {
		gc, err := EncodeGroup(g)
		if err != nil {
			return nil, err
		}
		groupList.Children = append(groupList.Children, gc)
	}

	c := &chunktree.Chunk{
		ID: chunktree.Program, Structured: true,
		Version: original.Version, Priv: original.Priv, Pub: pub,
	}
	c.Children = append(c.Children, groupList, names)

	for _, child := range original.Children {
		if child.ID == chunktree.GroupList || child.ID == chunktree.FilenameList || child.ID == chunktree.FilenameList2 {
			continue
		}
		c.Children = append(c.Children, child)
	}

	return c, nil
}

// WriteNKI5 encodes an edited MultiSample back into an NKI 5+ NI Container,
// reusing everything decode carried except the PROGRAM/GROUP_LIST/ZONE_LIST
// fields the model understands. base must be a Decoded5
// returned from DecodeNKI5 for the file being re-saved; its Item and
// TopLevelChunks supply the template whose unknown bytes survive untouched.
func WriteNKI5(base *Decoded5, ms *multisample.MultiSample, w *bytestream.Writer, n notifier.Notifier) error {
	if base == nil || base.Program == nil || base.ProgramChunk == nil {
		return &codecerr.Truncated{Verb: "write NKI5: no decoded template program to mutate"}
	}
	if err := ms.Validate(); err != nil {
		return err
	}

	ApplyMultiSample(base.Program, ms)
	newProgramChunk, err := rebuildProgramChunk(base.ProgramChunk, base.Program, ms)
	if err != nil {
		return err
	}

	var newChunks []*chunktree.Chunk
	for _, c := range base.TopLevelChunks {
		if c == base.ProgramChunk {
			newChunks = append(newChunks, newProgramChunk)
		} else {
			newChunks = append(newChunks, c)
		}
	}

	var payload bytes.Buffer
	pw := bytestream.NewWriter(&payload)
	for _, c := range newChunks {
		if err := c.Write(pw); err != nil {
			return err
		}
	}

	item := base.Item
	for i := range item.DataChunks {
		if item.DataChunks[i].Type == nicontainer.ChunkPresetChunkItem {
			item.DataChunks[i].Data = payload.Bytes()
			break
		}
	}

	if n != nil {
		n.Log("write_nki5", map[string]any{"name": ms.Name, "groups": len(ms.Groups)})
	}

	return item.Write(w)
}

// NewEmptyNKI5 prepares a write base for a MultiSample that has no decoded
// source file to start from: the embedded canonical template is decoded and
// handed back as a Decoded5, so WriteNKI5 mutates it exactly the way it
// mutates a re-saved real file, and every template byte outside the
// PROGRAM/GROUP_LIST/ZONE_LIST fields survives into the output.
func NewEmptyNKI5(ms *multisample.MultiSample) (*Decoded5, error) {
	r := bytestream.NewReader(bytes.NewReader(nki5Template))
	base, err := DecodeNKI5(r, notifier.Nop())
	if err != nil {
		return nil, err
	}
	base.MultiSample = ms
	return base, nil
}
