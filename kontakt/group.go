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

// MaxGroupChunkVersion is the highest structure version this decoder
// understands for a GROUP chunk.
const MaxGroupChunkVersion = 0x9C

// Group is the decoded form of a GROUP chunk.
type Group struct {
	Name        string
	Volume      float32
	Pan         float32
	Tune        float32
	KeyTracking bool
	Reverse     bool

	ReleaseTrigger           bool
	ReleaseTriggerMonophonic bool
	Muted                    bool
	Soloed                   bool
	ReleaseTriggerCounter    int32

	MidiChannel          int16
	VoiceGroupIdx        int32
	FxIdxAmpSplitPoint   int32
	InterpQuality        int32

	Modulators []*InternalModulator
	Zones      []*Zone
}

// DecodeGroup decodes a GROUP chunk's public payload and its
// PARAMETER_ARRAY_16 (modulators) and ZONE_LIST children.
func DecodeGroup(c *chunktree.Chunk, n notifier.Notifier) (*Group, error) {
	if c.Version > MaxGroupChunkVersion {
		return nil, &codecerr.UnsupportedVersion{Version: int(c.Version), Verb: "decode GROUP chunk"}
	}

	r := bytestream.NewReader(bytes.NewReader(c.Pub))
	g := &Group{}

	var err error
	if g.Name, err = r.UTF16LEString(); err != nil {
		return nil, err
	}
	if g.Volume, err = r.F32(); err != nil {
		return nil, err
	}
	if g.Pan, err = r.F32(); err != nil {
		return nil, err
	}
	if g.Tune, err = r.F32(); err != nil {
		return nil, err
	}

	flags := make([]uint8, 6)
	for i := range flags {
		if flags[i], err = r.U8(); err != nil {
			return nil, err
		}
	}
	g.KeyTracking = flags[0] != 0
	g.Reverse = flags[1] != 0
	g.ReleaseTrigger = flags[2] != 0
	g.ReleaseTriggerMonophonic = flags[3] != 0
	g.Muted = flags[4] != 0
	g.Soloed = flags[5] != 0

	if g.ReleaseTriggerCounter, err = r.S32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if g.MidiChannel, err = r.S16(binary.LittleEndian); err != nil {
		return nil, err
	}
	if g.VoiceGroupIdx, err = r.S32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if g.FxIdxAmpSplitPoint, err = r.S32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if g.InterpQuality, err = r.S32(binary.LittleEndian); err != nil {
		return nil, err
	}

	for _, child := range c.Children {
		switch child.ID {
		case chunktree.ParameterArray16:
			if child.ParameterSlots == nil {
				continue
			}
			for _, slot := range child.ParameterSlots.Slots {
				if slot == nil {
					continue
				}
				if slot.ID != chunktree.ParInternalMod && slot.ID != chunktree.ParModBase {
					continue
				}
				mod, err := DecodeInternalModulator(slot, n)
				if err != nil {
					return nil, err
				}
				g.Modulators = append(g.Modulators, mod)
			}
		case chunktree.ZoneList:
			for _, zc := range child.Children {
				z, err := DecodeZone(zc, n)
				if err != nil {
					return nil, err
				}
				g.Zones = append(g.Zones, z)
			}
		}
	}

	return g, nil
}
