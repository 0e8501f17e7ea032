// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Recognized ZONE structure versions.
const (
	ZoneVersion93 uint16 = 0x93
	ZoneVersion98 uint16 = 0x98
	ZoneVersion99 uint16 = 0x99
	ZoneVersion9A uint16 = 0x9A
	ZoneVersion9C uint16 = 0x9C
)

// SampleDescriptor is the optional trailing sample reference of a ZONE
// chunk; absent for script-only zones with no wired sample.
type SampleDescriptor struct {
	FilenameID     uint32
	SampleDataType uint32 // 2 = 16-bit, 3 = 24-bit
	SampleRate     uint32
	NumChannels    uint8
	NumFrames      uint32
	Unknown        uint32
	RootNote       uint32
	Tuning         float32
	TailFlag       uint8
	Tail           uint32
}

// Zone is the decoded form of a ZONE chunk.
type Zone struct {
	StructVersion uint16

	SampleStart   uint32
	SampleEnd     uint32
	StartModRange uint32

	LowVel, HighVel   uint16
	LowKey, HighKey   uint16
	FadeLowVel        uint16
	FadeHighVel       uint16
	FadeLowKey        uint16
	FadeHighKey       uint16
	RootKey           uint16

	Volume float32
	Pan    float32
	Tune   float32

	Sample *SampleDescriptor

	Loops []Loop
}

// DecodeZone decodes a ZONE chunk's public payload, version-gating the
// extra fields that versions 0x9A/0x9C and ≤0x93 add, and
// its LOOP_ARRAY child.
func DecodeZone(c *chunktree.Chunk, n notifier.Notifier) (*Zone, error) {
	r := bytestream.NewReader(bytes.NewReader(c.Pub))
	z := &Zone{StructVersion: c.Version}

	var err error
	if z.SampleStart, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if z.SampleEnd, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if z.StartModRange, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}

	u16s := make([]uint16, 9)
	for i := range u16s {
		if u16s[i], err = r.U16(binary.LittleEndian); err != nil {
			return nil, err
		}
	}
	z.LowVel, z.HighVel, z.LowKey, z.HighKey = u16s[0], u16s[1], u16s[2], u16s[3]
	z.FadeLowVel, z.FadeHighVel, z.FadeLowKey, z.FadeHighKey = u16s[4], u16s[5], u16s[6], u16s[7]
	z.RootKey = u16s[8]

	if z.Volume, err = r.F32(); err != nil {
		return nil, err
	}
	if z.Pan, err = r.F32(); err != nil {
		return nil, err
	}
	if z.Tune, err = r.F32(); err != nil {
		return nil, err
	}

	if c.Version == ZoneVersion9A || c.Version == ZoneVersion9C {
		if err := r.Skip(1 + 1 + 4); err != nil {
			return nil, err
		}
	}

	if c.Version <= ZoneVersion93 {
		// Old-style zones carry an extra u32 after numFrames;
		// readSampleDescriptorLegacy reads it.
		sd, err := readSampleDescriptorLegacy(r)
		if err != nil && err != io.EOF {
			return nil, err
		}
		z.Sample = sd
	} else {
		sd, err := readSampleDescriptor(r)
		if err != nil && err != io.EOF {
			return nil, err
		}
		z.Sample = sd
	}

	for _, child := range c.Children {
		if child.ID != chunktree.LoopArray {
			continue
		}
		loops, err := decodeLoopArray(child.Pub)
		if err != nil {
			return nil, err
		}
		z.Loops = loops
	}

	return z, nil
}

func readSampleDescriptor(r *bytestream.Reader) (*SampleDescriptor, error) {
	sd := &SampleDescriptor{}
	var err error
	if sd.FilenameID, err = r.U32(binary.LittleEndian); err != nil {
		return nil, io.EOF
	}
	if sd.SampleDataType, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.SampleRate, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.NumChannels, err = r.U8(); err != nil {
		return nil, err
	}
	if sd.NumFrames, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.Unknown, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.RootNote, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.Tuning, err = r.F32(); err != nil {
		return nil, err
	}
	if sd.TailFlag, err = r.U8(); err != nil {
		return nil, err
	}
	if sd.Tail, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	return sd, nil
}

// readSampleDescriptorLegacy is the ≤0x93 variant, which carries one
// additional u32 immediately after numFrames.
func readSampleDescriptorLegacy(r *bytestream.Reader) (*SampleDescriptor, error) {
	sd := &SampleDescriptor{}
	var err error
	if sd.FilenameID, err = r.U32(binary.LittleEndian); err != nil {
		return nil, io.EOF
	}
	if sd.SampleDataType, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.SampleRate, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.NumChannels, err = r.U8(); err != nil {
		return nil, err
	}
	if sd.NumFrames, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if _, err = r.U32(binary.LittleEndian); err != nil { // legacy extra u32
		return nil, err
	}
	if sd.Unknown, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.RootNote, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if sd.Tuning, err = r.F32(); err != nil {
		return nil, err
	}
	if sd.TailFlag, err = r.U8(); err != nil {
		return nil, err
	}
	if sd.Tail, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	return sd, nil
}

// Loop mode constants.
const (
	LoopModeUntilEnd        int32 = 0x1
	LoopModeUntilEndAlt     int32 = 0x1006000
	LoopModeUntilRelease    int32 = 0x0
	LoopModeUntilReleaseAlt int32 = 0x3F80
	LoopModeOneShot         int32 = -0x7FFFFFFF // 0x80000001 in two's complement
)

// Loop is a decoded LOOP_ARRAY record.
type Loop struct {
	Mode        int32
	Start       uint32
	Length      uint32
	Count       uint32
	Alternating bool
	Tuning      float32
	Crossfade   uint32
}

// IsSustainLoop reports whether this loop mode produces a sustain loop in
// the output model; other modes map to no loop.
func (l Loop) IsSustainLoop() bool {
	return l.Mode == LoopModeUntilEnd || l.Mode == LoopModeUntilRelease
}

func decodeLoopArray(payload []byte) ([]Loop, error) {
	r := bytestream.NewReader(bytes.NewReader(payload))

	mask, err := r.U16(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	var loops []Loop
	for k := 0; k < 8; k++ {
		if mask&(1<<uint(k)) == 0 {
			continue
		}
		constant, err := r.U16(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		if constant != 0x60 {
			return nil, &codecerr.BadMagic{Expected: "0x0060", Got: "unexpected", Verb: "decode LOOP_ARRAY entry"}
		}

		var l Loop
		mode, err := r.S32(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		l.Mode = mode
		if l.Start, err = r.U32(binary.LittleEndian); err != nil {
			return nil, err
		}
		if l.Length, err = r.U32(binary.LittleEndian); err != nil {
			return nil, err
		}
		if l.Count, err = r.U32(binary.LittleEndian); err != nil {
			return nil, err
		}
		alt, err := r.U8()
		if err != nil {
			return nil, err
		}
		l.Alternating = alt != 0
		if l.Tuning, err = r.F32(); err != nil {
			return nil, err
		}
		if l.Crossfade, err = r.U32(binary.LittleEndian); err != nil {
			return nil, err
		}
		loops = append(loops, l)
	}

	return loops, nil
}
