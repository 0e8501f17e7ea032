// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Slot is one PROGRAM_CONTAINER slot: a MIDI channel assignment and
// key-range clip for one of the container's PROGRAM children.
//
// The SLOT_LIST layout is only partially understood; this uses the
// smallest layout consistent with what the chunk carries (count-prefixed,
// one fixed-size record per slot) rather than inventing extra fields.
type Slot struct {
	ProgramIndex uint16
	MidiChannel  uint16
	KeyLow       uint8
	KeyHigh      uint8
}

func decodeSlotList(c *chunktree.Chunk) ([]Slot, error) {
	r := bytestream.NewReader(bytes.NewReader(c.Pub))
	count, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, count)
	for i := range slots {
		if slots[i].ProgramIndex, err = r.U16(binary.LittleEndian); err != nil {
			return nil, err
		}
		if slots[i].MidiChannel, err = r.U16(binary.LittleEndian); err != nil {
			return nil, err
		}
		if slots[i].KeyLow, err = r.U8(); err != nil {
			return nil, err
		}
		if slots[i].KeyHigh, err = r.U8(); err != nil {
			return nil, err
		}
	}
	return slots, nil
}

// DecodeProgramContainer decodes a PROGRAM_CONTAINER (0x29) chunk: its
// PROGRAM children plus its SLOT_LIST child, assembling a
// multisample.Performance.
func DecodeProgramContainer(c *chunktree.Chunk, n notifier.Notifier) (*multisample.Performance, error) {
	var programs []*Program
	var slots []Slot

	for _, child := range c.Children {
		switch child.ID {
		case chunktree.Program:
			p, err := DecodeProgram(child, n)
			if err != nil {
				return nil, err
			}
			programs = append(programs, p)
		case chunktree.SlotList:
			s, err := decodeSlotList(child)
			if err != nil {
				return nil, err
			}
			slots = append(slots, s...)
		}
	}

	perf := &multisample.Performance{}

	assembled := make([]*multisample.MultiSample, len(programs))
	for i, p := range programs {
		filenames := findFilenameList(programChunkFor(c, i))
		assembled[i] = Assemble(p, filenames, n)
		perf.Name = assembled[i].Name
	}

	if len(slots) == 0 {
		// No explicit slot list: default to one part per program, MIDI
		// channel following program order, full key range.
		for i, ms := range assembled {
			perf.Parts = append(perf.Parts, multisample.PerformancePart{
				Name: ms.Name, MidiChannel: i, Program: ms, KeyLow: 0, KeyHigh: 127,
			})
		}
		return perf, nil
	}

	for _, s := range slots {
		if int(s.ProgramIndex) >= len(assembled) {
			continue
		}
		ms := assembled[s.ProgramIndex]
		perf.Parts = append(perf.Parts, multisample.PerformancePart{
			Name: ms.Name, MidiChannel: int(s.MidiChannel), Program: ms,
			KeyLow: int(s.KeyLow), KeyHigh: int(s.KeyHigh),
		})
	}

	return perf, nil
}

// programChunkFor returns the i'th PROGRAM child of c, for filename-list
// scoping when a multi carries one filename list per program rather than
// one shared at the container level.
func programChunkFor(c *chunktree.Chunk, i int) *chunktree.Chunk {
	idx := 0
	for _, child := range c.Children {
		if child.ID != chunktree.Program {
			continue
		}
		if idx == i {
			return child
		}
		idx++
	}
	return nil
}
