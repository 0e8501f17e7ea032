// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/multisample"
)

// ApplyMultiSample overlays the editable fields of the shared model back
// onto a decoded Program's Group/Zone structs, in place. Fields the wire
// format doesn't carry per-zone (e.g. the program- and group-level shares of
// volume/pan/tune) are left untouched on the original struct; only the
// zone's own share is rewritten, which is always enough to reproduce the
// combined value on the next decode.
func ApplyMultiSample(p *Program, ms *multisample.MultiSample) {
	p.Name = ms.Name

	n := len(p.Groups)
	if len(ms.Groups) < n {
		n = len(ms.Groups)
	}
	for i := 0; i < n; i++ {
		applyGroup(p.Groups[i], ms.Groups[i])
	}
	if len(ms.Groups) > len(p.Groups) {
		// New groups added by the caller carry no wire-level defaults to
		// inherit from; start at unity volume/tune so the combined values on
		// the next decode come entirely from the zone's own share.
		for _, mg := range ms.Groups[len(p.Groups):] {
			g := &Group{Volume: 1, Tune: 1}
			applyGroup(g, mg)
			p.Groups = append(p.Groups, g)
		}
	} else {
		p.Groups = p.Groups[:len(ms.Groups)]
	}

	// applyZone stored the model's combined values; keep only the zone's
	// share so the program and group shares are not applied twice.
	for _, g := range p.Groups {
		for _, z := range g.Zones {
			if share := p.Volume * g.Volume; share != 0 {
				z.Volume /= share
			}
			if share := p.Tune * g.Tune; share != 0 {
				z.Tune /= share
			}
			z.Pan -= p.Pan + g.Pan
		}
	}
}

func applyGroup(g *Group, mg *multisample.Group) {
	g.Name = mg.Name
	g.KeyTracking = mg.KeyTracking
	g.Reverse = mg.Reverse
	g.ReleaseTrigger = mg.Trigger == multisample.TriggerRelease
	if mg.VoiceGroup != nil {
		g.VoiceGroupIdx = int32(*mg.VoiceGroup)
	}

	n := len(g.Zones)
	if len(mg.Zones) < n {
		n = len(mg.Zones)
	}
	for i := 0; i < n; i++ {
		applyZone(g.Zones[i], mg.Zones[i])
	}
	if len(mg.Zones) > len(g.Zones) {
		for _, mz := range mg.Zones[len(g.Zones):] {
			z := &Zone{StructVersion: ZoneVersion9C}
			applyZone(z, mz)
			g.Zones = append(g.Zones, z)
		}
	} else {
		g.Zones = g.Zones[:len(mg.Zones)]
	}
}

func applyZone(z *Zone, mz *multisample.SampleZone) {
	z.LowKey, z.HighKey = uint16(mz.KeyLow), uint16(mz.KeyHigh)
	z.LowVel, z.HighVel = uint16(mz.VelLow), uint16(mz.VelHigh)
	z.FadeLowKey, z.FadeHighKey = uint16(mz.KeyFadeLow), uint16(mz.KeyFadeHigh)
	z.FadeLowVel, z.FadeHighVel = uint16(mz.VelFadeLow), uint16(mz.VelFadeHigh)
	z.RootKey = uint16(mz.RootKey)
	z.SampleStart, z.SampleEnd = uint32(mz.Start), uint32(mz.Stop)
	z.Volume = float32(multisample.DBToValue(mz.Gain))
	z.Pan = float32(mz.Pan)
	// The wire stores tune multiplicatively as 2^(st/12);
	// the model carries semitones.
	z.Tune = float32(math.Pow(2, mz.Tune/12))

	if mz.Data != nil {
		dataType := uint32(2)
		if mz.Data.Meta.BitDepth == 24 {
			dataType = 3
		}
		z.Sample = &SampleDescriptor{
			SampleDataType: dataType,
			SampleRate:     uint32(mz.Data.Meta.SampleRate),
			NumChannels:    uint8(mz.Data.Meta.Channels),
			NumFrames:      uint32(mz.Data.Meta.FrameCount),
			RootNote:       uint32(mz.RootKey),
		}
	}

	var loops []Loop
	for _, l := range mz.Loops {
		mode := int32(LoopModeUntilEnd)
		loops = append(loops, Loop{
			Mode: mode, Start: uint32(l.Start), Length: uint32(l.End - l.Start),
			Alternating: l.Type == multisample.LoopAlternating, Crossfade: uint32(l.Crossfade),
		})
	}
	z.Loops = loops
}

// EncodeProgram re-serializes a Program's public payload, reproducing
// DecodeProgram's field order and appending the preserved Trailing bytes
// verbatim.
func EncodeProgram(p *Program) ([]byte, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	if err := w.UTF16LEString(p.Name); err != nil {
		return nil, err
	}
	if err := w.F64(p.SamplePoolSize); err != nil {
		return nil, err
	}
	if err := w.S8(p.Transpose); err != nil {
		return nil, err
	}
	if err := w.F32(p.Volume); err != nil {
		return nil, err
	}
	if err := w.F32(p.Pan); err != nil {
		return nil, err
	}
	if err := w.F32(p.Tune); err != nil {
		return nil, err
	}
	for _, c := range []uint8{p.ClipLowKey, p.ClipHighKey, p.ClipLowVel, p.ClipHighVel} {
		if err := w.U8(c); err != nil {
			return nil, err
		}
	}
	if err := w.U16(binary.LittleEndian, p.DefaultKeySwitch); err != nil {
		return nil, err
	}
	for _, v := range []uint32{p.Preload, p.LibraryID, p.Fingerprint, p.LoadingFlags} {
		if err := w.U32(binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	if err := w.U8(p.GroupSolo); err != nil {
		return nil, err
	}
	if err := w.U32(binary.LittleEndian, p.IconID); err != nil {
		return nil, err
	}
	if err := w.UTF16LEString(nullableWriteString(p.Credits)); err != nil {
		return nil, err
	}
	if err := w.UTF16LEString(nullableWriteString(p.Author)); err != nil {
		return nil, err
	}
	if err := w.UTF16LEString(nullableWriteString(p.URL)); err != nil {
		return nil, err
	}
	for _, c := range p.CategoryIdx {
		if err := w.U16(binary.LittleEndian, c); err != nil {
			return nil, err
		}
	}
	if err := w.Bytes(p.Trailing); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func nullableWriteString(s string) string {
	if s == "" {
		return "(null)"
	}
	return s
}

// EncodeGroup re-serializes a Group's public payload plus its ZONE_LIST and
// modulator PARAMETER_ARRAY_16 children.
func EncodeGroup(g *Group) (*chunktree.Chunk, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	if err := w.UTF16LEString(g.Name); err != nil {
		return nil, err
	}
	if err := w.F32(g.Volume); err != nil {
		return nil, err
	}
	if err := w.F32(g.Pan); err != nil {
		return nil, err
	}
	if err := w.F32(g.Tune); err != nil {
		return nil, err
	}
	flags := []bool{g.KeyTracking, g.Reverse, g.ReleaseTrigger, g.ReleaseTriggerMonophonic, g.Muted, g.Soloed}
	for _, f := range flags {
		v := uint8(0)
		if f {
			v = 1
		}
		if err := w.U8(v); err != nil {
			return nil, err
		}
	}
	if err := w.S32(binary.LittleEndian, g.ReleaseTriggerCounter); err != nil {
		return nil, err
	}
	if err := w.S16(binary.LittleEndian, g.MidiChannel); err != nil {
		return nil, err
	}
	if err := w.S32(binary.LittleEndian, g.VoiceGroupIdx); err != nil {
		return nil, err
	}
	if err := w.S32(binary.LittleEndian, g.FxIdxAmpSplitPoint); err != nil {
		return nil, err
	}
	if err := w.S32(binary.LittleEndian, g.InterpQuality); err != nil {
		return nil, err
	}

	c := &chunktree.Chunk{ID: chunktree.Group, Structured: true, Version: MaxGroupChunkVersion, Pub: buf.Bytes()}

	zoneList := &chunktree.Chunk{ID: chunktree.ZoneList, Structured: true}
	for _, z := range g.Zones {
		zc, err := EncodeZone(z)
		if err != nil {
			return nil, err
		}
		zoneList.Children = append(zoneList.Children, zc)
	}
	c.Children = append(c.Children, zoneList)

	if len(g.Modulators) > 0 {
		paramArray := &chunktree.Chunk{ID: chunktree.ParameterArray16, Structured: true}
		slots := &chunktree.ParameterSlots{}
		for i, m := range g.Modulators {
			if i >= 16 {
				break
			}
			mc, err := EncodeInternalModulator(m)
			if err != nil {
				return nil, err
			}
			slots.Slots[i] = mc
			paramArray.Children = append(paramArray.Children, mc)
		}
		paramArray.ParameterSlots = slots
		c.Children = append(c.Children, paramArray)
	}

	return c, nil
}

// EncodeZone re-serializes a Zone's public payload and LOOP_ARRAY child.
func EncodeZone(z *Zone) (*chunktree.Chunk, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	if err := w.U32(binary.LittleEndian, z.SampleStart); err != nil {
		return nil, err
	}
	if err := w.U32(binary.LittleEndian, z.SampleEnd); err != nil {
		return nil, err
	}
	if err := w.U32(binary.LittleEndian, z.StartModRange); err != nil {
		return nil, err
	}
	u16s := []uint16{z.LowVel, z.HighVel, z.LowKey, z.HighKey, z.FadeLowVel, z.FadeHighVel, z.FadeLowKey, z.FadeHighKey, z.RootKey}
	for _, v := range u16s {
		if err := w.U16(binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	if err := w.F32(z.Volume); err != nil {
		return nil, err
	}
	if err := w.F32(z.Pan); err != nil {
		return nil, err
	}
	if err := w.F32(z.Tune); err != nil {
		return nil, err
	}

	version := z.StructVersion
	if version == 0 {
		version = ZoneVersion9C
	}
	if version == ZoneVersion9A || version == ZoneVersion9C {
		if err := w.U8(0); err != nil {
			return nil, err
		}
		if err := w.U8(0); err != nil {
			return nil, err
		}
		if err := w.U32(binary.LittleEndian, 0); err != nil {
			return nil, err
		}
	}

	if z.Sample != nil {
		if err := writeSampleDescriptor(w, z.Sample, version); err != nil {
			return nil, err
		}
	}

	c := &chunktree.Chunk{ID: chunktree.Zone, Structured: true, Version: version, Pub: buf.Bytes()}

	if len(z.Loops) > 0 {
		loopPayload, err := encodeLoopArray(z.Loops)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, &chunktree.Chunk{ID: chunktree.LoopArray, Structured: true, Pub: loopPayload})
	}

	return c, nil
}

func writeSampleDescriptor(w *bytestream.Writer, sd *SampleDescriptor, version uint16) error {
	if err := w.U32(binary.LittleEndian, sd.FilenameID); err != nil {
		return err
	}
	if err := w.U32(binary.LittleEndian, sd.SampleDataType); err != nil {
		return err
	}
	if err := w.U32(binary.LittleEndian, sd.SampleRate); err != nil {
		return err
	}
	if err := w.U8(sd.NumChannels); err != nil {
		return err
	}
	if err := w.U32(binary.LittleEndian, sd.NumFrames); err != nil {
		return err
	}
	if version <= ZoneVersion93 {
		if err := w.U32(binary.LittleEndian, 0); err != nil { // legacy extra u32
			return err
		}
	}
	if err := w.U32(binary.LittleEndian, sd.Unknown); err != nil {
		return err
	}
	if err := w.U32(binary.LittleEndian, sd.RootNote); err != nil {
		return err
	}
	if err := w.F32(sd.Tuning); err != nil {
		return err
	}
	if err := w.U8(sd.TailFlag); err != nil {
		return err
	}
	return w.U32(binary.LittleEndian, sd.Tail)
}

func encodeLoopArray(loops []Loop) ([]byte, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	var mask uint16
	for k := range loops {
		if k >= 8 {
			break
		}
		mask |= 1 << uint(k)
	}
	if err := w.U16(binary.LittleEndian, mask); err != nil {
		return nil, err
	}
	for k, l := range loops {
		if k >= 8 {
			break
		}
		if err := w.U16(binary.LittleEndian, 0x60); err != nil {
			return nil, err
		}
		if err := w.S32(binary.LittleEndian, l.Mode); err != nil {
			return nil, err
		}
		if err := w.U32(binary.LittleEndian, l.Start); err != nil {
			return nil, err
		}
		if err := w.U32(binary.LittleEndian, l.Length); err != nil {
			return nil, err
		}
		if err := w.U32(binary.LittleEndian, l.Count); err != nil {
			return nil, err
		}
		alt := uint8(0)
		if l.Alternating {
			alt = 1
		}
		if err := w.U8(alt); err != nil {
			return nil, err
		}
		if err := w.F32(l.Tuning); err != nil {
			return nil, err
		}
		if err := w.U32(binary.LittleEndian, l.Crossfade); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// EncodeInternalModulator re-serializes an InternalModulator, inverse of
// DecodeInternalModulator.
func EncodeInternalModulator(m *InternalModulator) (*chunktree.Chunk, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)

	if err := w.U32(binary.LittleEndian, uint32(len(m.Parameters))); err != nil {
		return nil, err
	}
	for _, p := range m.Parameters {
		if err := writeLenPrefixedASCII(w, p.Name); err != nil {
			return nil, err
		}
		if err := w.F32(p.Intensity); err != nil {
			return nil, err
		}
		if err := w.U16(binary.LittleEndian, 0xFFFF); err != nil {
			return nil, err
		}
		if err := w.U8(p.Flags); err != nil {
			return nil, err
		}
		if err := w.S16(binary.LittleEndian, p.Lag); err != nil {
			return nil, err
		}
		if p.Flags&(1<<3) != 0 {
			if err := w.Pad(5, 0); err != nil {
				return nil, err
			}
			continue
		}
		if err := writeLenPrefixedASCII(w, p.Description); err != nil {
			return nil, err
		}
		pad := modulatorPadding(p.Name, p.Description)
		if pad > 0 {
			if err := w.Pad(pad, 0); err != nil {
				return nil, err
			}
		}
		if err := encodeCurveTable(w, p); err != nil {
			return nil, err
		}
	}

	for _, f := range []bool{m.ModSectionOpen, m.Bypassed, m.Retrigger, m.UnknownFlag} {
		v := uint8(0)
		if f {
			v = 1
		}
		if err := w.U8(v); err != nil {
			return nil, err
		}
	}
	if err := w.U32(binary.LittleEndian, m.FxSlot); err != nil {
		return nil, err
	}
	if err := writeLenPrefixedASCII(w, m.SourceName); err != nil {
		return nil, err
	}
	if err := w.U32(binary.LittleEndian, m.SourceIndex); err != nil {
		return nil, err
	}

	if m.Envelope != nil {
		if err := w.Pad(34, 0); err != nil {
			return nil, err
		}
		for _, v := range []float32{m.Envelope.Curve, m.Envelope.Attack, m.Envelope.Hold, m.Envelope.Decay, m.Envelope.Release, m.Envelope.Sustain} {
			if err := w.F32(v); err != nil {
				return nil, err
			}
		}
		ahd := uint8(0)
		if m.Envelope.AHDOnly {
			ahd = 1
		}
		if err := w.U8(ahd); err != nil {
			return nil, err
		}
	}

	version := m.WireVersion
	if version == 0 {
		version = ModulatorVersion81
	}
	return &chunktree.Chunk{ID: chunktree.ParInternalMod, Structured: true, Version: version, Pub: buf.Bytes()}, nil
}

func writeLenPrefixedASCII(w *bytestream.Writer, s string) error {
	if err := w.U32(binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	return w.Bytes([]byte(s))
}

func encodeCurveTable(w *bytestream.Writer, p ModulatedParameter) error {
	switch {
	case len(p.CurveSteps) > 0:
		if err := w.U32(binary.LittleEndian, uint32(len(p.CurveSteps))); err != nil {
			return err
		}
		for _, v := range p.CurveSteps {
			if err := w.F32(v); err != nil {
				return err
			}
		}
	case len(p.CurvePoints) > 0:
		if err := w.U32(binary.LittleEndian, uint32(len(p.CurvePoints))); err != nil {
			return err
		}
		for _, pt := range p.CurvePoints {
			if err := w.F32(pt.X); err != nil {
				return err
			}
			if err := w.F32(pt.Y); err != nil {
				return err
			}
			if err := w.F32(pt.Slope); err != nil {
				return err
			}
		}
	default:
		return w.U32(binary.LittleEndian, 0)
	}
	return nil
}
